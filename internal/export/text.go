// Package export renders a lesson plan as the plain-text document handed
// to instructors.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/lessonroom/internal/plan"
)

const defaultTopic = "חדש"

// Text renders p in the canonical export layout. Screen and space-usage
// values are written as their stored codes.
func Text(p *plan.LessonPlan) string {
	var b strings.Builder
	_ = Write(&b, p)
	return b.String()
}

// Write renders p to w.
func Write(w io.Writer, p *plan.LessonPlan) error {
	ew := &errWriter{w: w}

	ew.printf("תכנית שיעור: %s\n\n", p.Topic)
	ew.printf("זמן כולל: %s\n", p.Duration)
	ew.printf("שכבת גיל: %s\n", p.GradeLevel)
	ew.printf("ידע קודם: %s\n", p.PriorKnowledge)
	ew.printf("מיקום בתוכן: %s\n\n", p.Position)
	ew.printf("מטרות ברמת התוכן:\n%s\n\n", p.ContentGoals)
	ew.printf("מטרות ברמת המיומנויות:\n%s\n\n", p.SkillGoals)

	for i, ph := range plan.Phases {
		if i > 0 {
			ew.printf("\n")
		}
		ew.printf("== %s ==\n", ph.Label())
		for n, sec := range p.Sections.Get(ph) {
			ew.printf("\nפעילות %d:\n", n+1)
			ew.printf("תוכן: %s\n", sec.Content)
			ew.printf("מסך 1: %s\n", sec.Screens.Screen1)
			ew.printf("מסך 2: %s\n", sec.Screens.Screen2)
			ew.printf("מסך 3: %s\n", sec.Screens.Screen3)
			ew.printf("ארגון הלומדים: %s\n", sec.SpaceUsage)
		}
	}
	return ew.err
}

// FileName returns the download name for p's export.
func FileName(p *plan.LessonPlan) string {
	topic := p.Topic
	if topic == "" {
		topic = defaultTopic
	}
	return fmt.Sprintf("תכנית_שיעור_%s.txt", topic)
}

// WriteFile writes the export of p into dir under FileName and returns the
// full path.
func WriteFile(dir string, p *plan.LessonPlan) (string, error) {
	name := strings.ReplaceAll(FileName(p), string(os.PathSeparator), "_")
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(Text(p)), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
