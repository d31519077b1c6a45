package plan

// Patch is a partial update sent to a repository. Nil fields are left
// unchanged.
type Patch struct {
	Topic          *string   `json:"topic,omitempty"`
	Duration       *string   `json:"duration,omitempty"`
	GradeLevel     *string   `json:"gradeLevel,omitempty"`
	PriorKnowledge *string   `json:"priorKnowledge,omitempty"`
	Position       *string   `json:"position,omitempty"`
	ContentGoals   *string   `json:"contentGoals,omitempty"`
	SkillGoals     *string   `json:"skillGoals,omitempty"`
	Sections       *Sections `json:"sections,omitempty"`
}

// PatchFrom fills every field of a patch from p except identity and
// timestamps.
func PatchFrom(p *LessonPlan) Patch {
	c := p.Clone()
	return Patch{
		Topic:          &c.Topic,
		Duration:       &c.Duration,
		GradeLevel:     &c.GradeLevel,
		PriorKnowledge: &c.PriorKnowledge,
		Position:       &c.Position,
		ContentGoals:   &c.ContentGoals,
		SkillGoals:     &c.SkillGoals,
		Sections:       &c.Sections,
	}
}

// Scalars returns the set scalar fields of the patch.
func (pt Patch) Scalars() map[Field]string {
	out := make(map[Field]string)
	set := func(f Field, v *string) {
		if v != nil {
			out[f] = *v
		}
	}
	set(FieldTopic, pt.Topic)
	set(FieldDuration, pt.Duration)
	set(FieldGradeLevel, pt.GradeLevel)
	set(FieldPriorKnowledge, pt.PriorKnowledge)
	set(FieldPosition, pt.Position)
	set(FieldContentGoals, pt.ContentGoals)
	set(FieldSkillGoals, pt.SkillGoals)
	return out
}

// ApplyTo merges the patch into p.
func (pt Patch) ApplyTo(p *LessonPlan) {
	for f, v := range pt.Scalars() {
		_ = p.Set(f, v)
	}
	if pt.Sections != nil {
		p.Sections = pt.Sections.Clone()
	}
}
