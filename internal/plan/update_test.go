package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUpdate(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Update
		err  bool
	}{
		{"scalar", "topic", ScalarFieldUpdate{Field: FieldTopic, Value: "v"}, false},
		{"section content", "opening.0.content", SectionFieldUpdate{Phase: PhaseOpening, Index: 0, Field: SectionContent, Value: "v"}, false},
		{"section screen", "main.2.screen3", SectionFieldUpdate{Phase: PhaseMain, Index: 2, Field: SectionScreen3, Value: "v"}, false},
		{"unknown scalar", "teacher", nil, true},
		{"unknown phase", "warmup.0.content", nil, true},
		{"bad index", "main.x.content", nil, true},
		{"negative index", "main.-1.content", nil, true},
		{"unknown section field", "main.0.color", nil, true},
		{"too deep", "main.0.screens.screen1", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUpdate(tt.path, "v")
			if tt.err {
				assert.ErrorIs(t, err, ErrUnknownField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.path, got.Path())
		})
	}
}

func TestApplyBatch(t *testing.T) {
	p := New("u1")
	p.Sections.Main = []Section{{}}

	updates := []Update{
		ScalarFieldUpdate{Field: FieldTopic, Value: "Photosynthesis"},
		SectionFieldUpdate{Phase: PhaseMain, Index: 0, Field: SectionContent, Value: "lab"},
		SectionFieldUpdate{Phase: PhaseMain, Index: 0, Field: SectionScreen2, Value: "תמונה"},
		SectionFieldUpdate{Phase: PhaseMain, Index: 0, Field: SectionSpaceUsage, Value: "mixed"},
	}
	next, err := Apply(p, updates...)
	require.NoError(t, err)

	assert.Equal(t, "Photosynthesis", next.Topic)
	assert.Equal(t, "lab", next.Sections.Main[0].Content)
	assert.Equal(t, DisplayImage, next.Sections.Main[0].Screens.Screen2)
	assert.Equal(t, SpaceMixed, next.Sections.Main[0].SpaceUsage)

	// Original untouched.
	assert.Empty(t, p.Topic)
	assert.Empty(t, p.Sections.Main[0].Content)
}

func TestApplyIsAtomic(t *testing.T) {
	p := New("u1")
	p.Topic = "before"

	_, err := Apply(p,
		ScalarFieldUpdate{Field: FieldTopic, Value: "after"},
		SectionFieldUpdate{Phase: PhaseOpening, Index: 3, Field: SectionContent, Value: "x"},
	)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, "before", p.Topic)

	p.Sections.Opening = []Section{{}}
	_, err = Apply(p, SectionFieldUpdate{Phase: PhaseOpening, Index: 0, Field: SectionScreen1, Value: "poster"})
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, DisplayNone, p.Sections.Opening[0].Screens.Screen1)
}
