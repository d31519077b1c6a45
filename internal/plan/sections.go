package plan

import (
	"encoding/json"
	"fmt"
)

// Phase is one of the three fixed lesson stages.
type Phase string

const (
	PhaseOpening Phase = "opening"
	PhaseMain    Phase = "main"
	PhaseSummary Phase = "summary"
)

// Phases lists the phases in lesson order.
var Phases = []Phase{PhaseOpening, PhaseMain, PhaseSummary}

var phaseLabels = map[Phase]string{
	PhaseOpening: "פתיחה",
	PhaseMain:    "גוף השיעור",
	PhaseSummary: "סיכום",
}

// Label returns the Hebrew heading of the phase.
func (p Phase) Label() string {
	return phaseLabels[p]
}

// ParsePhase validates a phase key.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if _, ok := phaseLabels[p]; !ok {
		return "", fmt.Errorf("%w: phase %q", ErrUnknownField, s)
	}
	return p, nil
}

// Screens assigns a display type to each of the three wall screens.
type Screens struct {
	Screen1 DisplayType `json:"screen1"`
	Screen2 DisplayType `json:"screen2"`
	Screen3 DisplayType `json:"screen3"`
}

// Section is one activity within a phase. It has no identity beyond its
// position.
type Section struct {
	Content    string     `json:"content"`
	Screens    Screens    `json:"screens"`
	SpaceUsage SpaceUsage `json:"spaceUsage"`
}

// Sections holds the activities of every phase. All three phases are
// always present, possibly empty.
type Sections struct {
	Opening []Section
	Main    []Section
	Summary []Section
}

// EmptySections returns a record with three empty phases.
func EmptySections() Sections {
	return Sections{
		Opening: []Section{},
		Main:    []Section{},
		Summary: []Section{},
	}
}

// Get returns the sections of one phase.
func (s Sections) Get(p Phase) []Section {
	switch p {
	case PhaseOpening:
		return s.Opening
	case PhaseMain:
		return s.Main
	case PhaseSummary:
		return s.Summary
	}
	return nil
}

// With returns a copy of s with the sections of one phase replaced.
func (s Sections) With(p Phase, secs []Section) Sections {
	switch p {
	case PhaseOpening:
		s.Opening = secs
	case PhaseMain:
		s.Main = secs
	case PhaseSummary:
		s.Summary = secs
	}
	return s
}

// Clone returns a deep copy with non-nil phase slices.
func (s Sections) Clone() Sections {
	cp := func(in []Section) []Section {
		out := make([]Section, len(in))
		copy(out, in)
		return out
	}
	return Sections{
		Opening: cp(s.Opening),
		Main:    cp(s.Main),
		Summary: cp(s.Summary),
	}
}

// Len returns the total number of sections across phases.
func (s Sections) Len() int {
	return len(s.Opening) + len(s.Main) + len(s.Summary)
}

type sectionsJSON struct {
	Opening []Section `json:"opening"`
	Main    []Section `json:"main"`
	Summary []Section `json:"summary"`
}

// MarshalJSON always emits all three phases as arrays.
func (s Sections) MarshalJSON() ([]byte, error) {
	c := s.Clone()
	return json.Marshal(sectionsJSON{Opening: c.Opening, Main: c.Main, Summary: c.Summary})
}

// UnmarshalJSON rejects phase keys other than opening, main and summary.
// Missing phases decode as empty.
func (s *Sections) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := EmptySections()
	for key, val := range raw {
		p, err := ParsePhase(key)
		if err != nil {
			return err
		}
		var secs []Section
		if err := json.Unmarshal(val, &secs); err != nil {
			return fmt.Errorf("phase %s: %w", key, err)
		}
		if secs == nil {
			secs = []Section{}
		}
		out = out.With(p, secs)
	}
	*s = out
	return nil
}
