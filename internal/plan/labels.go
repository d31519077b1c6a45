package plan

import "fmt"

// FieldLabels returns the label of every field path currently addressable
// in p: the scalar fields plus each attribute of each existing section.
func FieldLabels(p *LessonPlan) map[string]string {
	labels := make(map[string]string, len(Fields)+p.Sections.Len()*len(SectionFields))
	for _, f := range Fields {
		labels[string(f)] = f.Label()
	}
	for _, ph := range Phases {
		for i := range p.Sections.Get(ph) {
			for _, sf := range SectionFields {
				labels[SectionPath(ph, i, sf)] = fmt.Sprintf("%s - פעילות %d - %s", ph.Label(), i+1, sf.Label())
			}
		}
	}
	return labels
}

// FieldValues returns the current value of every path in FieldLabels.
func FieldValues(p *LessonPlan) map[string]string {
	values := make(map[string]string, len(Fields)+p.Sections.Len()*len(SectionFields))
	for _, f := range Fields {
		values[string(f)] = p.Get(f)
	}
	for _, ph := range Phases {
		for i, sec := range p.Sections.Get(ph) {
			values[SectionPath(ph, i, SectionContent)] = sec.Content
			values[SectionPath(ph, i, SectionScreen1)] = string(sec.Screens.Screen1)
			values[SectionPath(ph, i, SectionScreen2)] = string(sec.Screens.Screen2)
			values[SectionPath(ph, i, SectionScreen3)] = string(sec.Screens.Screen3)
			values[SectionPath(ph, i, SectionSpaceUsage)] = string(sec.SpaceUsage)
		}
	}
	return values
}
