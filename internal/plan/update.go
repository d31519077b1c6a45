package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// SectionField names an editable attribute of a Section.
type SectionField string

const (
	SectionContent    SectionField = "content"
	SectionScreen1    SectionField = "screen1"
	SectionScreen2    SectionField = "screen2"
	SectionScreen3    SectionField = "screen3"
	SectionSpaceUsage SectionField = "spaceUsage"
)

// SectionFields lists section attributes in display order.
var SectionFields = []SectionField{
	SectionContent,
	SectionScreen1,
	SectionScreen2,
	SectionScreen3,
	SectionSpaceUsage,
}

var sectionFieldLabels = map[SectionField]string{
	SectionContent:    "תוכן",
	SectionScreen1:    "מסך 1",
	SectionScreen2:    "מסך 2",
	SectionScreen3:    "מסך 3",
	SectionSpaceUsage: "ארגון הלומדים",
}

// Label returns the Hebrew label of the section attribute.
func (f SectionField) Label() string {
	return sectionFieldLabels[f]
}

// Update is a single change addressed by field path. It is either a
// ScalarFieldUpdate or a SectionFieldUpdate.
type Update interface {
	Path() string
	apply(p *LessonPlan) error
}

// ScalarFieldUpdate sets a top-level field.
type ScalarFieldUpdate struct {
	Field Field
	Value string
}

func (u ScalarFieldUpdate) Path() string { return string(u.Field) }

func (u ScalarFieldUpdate) apply(p *LessonPlan) error {
	return p.Set(u.Field, u.Value)
}

// SectionFieldUpdate sets one attribute of the section at Index in Phase.
type SectionFieldUpdate struct {
	Phase Phase
	Index int
	Field SectionField
	Value string
}

func (u SectionFieldUpdate) Path() string {
	return SectionPath(u.Phase, u.Index, u.Field)
}

func (u SectionFieldUpdate) apply(p *LessonPlan) error {
	secs := p.Sections.Get(u.Phase)
	if u.Index < 0 || u.Index >= len(secs) {
		return fmt.Errorf("%w: %s", ErrIndexOutOfRange, u.Path())
	}
	sec := &secs[u.Index]
	switch u.Field {
	case SectionContent:
		sec.Content = u.Value
	case SectionScreen1, SectionScreen2, SectionScreen3:
		d, err := ParseDisplayType(u.Value)
		if err != nil {
			return err
		}
		switch u.Field {
		case SectionScreen1:
			sec.Screens.Screen1 = d
		case SectionScreen2:
			sec.Screens.Screen2 = d
		default:
			sec.Screens.Screen3 = d
		}
	case SectionSpaceUsage:
		s, err := ParseSpaceUsage(u.Value)
		if err != nil {
			return err
		}
		sec.SpaceUsage = s
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, u.Path())
	}
	return nil
}

// SectionPath builds the dotted path of a section attribute, e.g.
// "opening.0.content".
func SectionPath(p Phase, index int, f SectionField) string {
	return fmt.Sprintf("%s.%d.%s", p, index, f)
}

// ParseUpdate turns a field path and value into an Update. It validates
// the shape of the path only; index ranges and enum values are checked
// when the update is applied.
func ParseUpdate(path, value string) (Update, error) {
	if !strings.Contains(path, ".") {
		f := Field(path)
		if !f.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, path)
		}
		return ScalarFieldUpdate{Field: f, Value: value}, nil
	}

	parts := strings.Split(path, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	phase, err := ParsePhase(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	sf := SectionField(parts[2])
	if _, ok := sectionFieldLabels[sf]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	return SectionFieldUpdate{Phase: phase, Index: idx, Field: sf, Value: value}, nil
}

// Apply applies updates in order to a copy of p and returns the copy. If
// any update fails, p is left untouched and the error is returned.
func Apply(p *LessonPlan, updates ...Update) (*LessonPlan, error) {
	next := p.Clone()
	for _, u := range updates {
		if err := u.apply(next); err != nil {
			return nil, err
		}
	}
	return next, nil
}
