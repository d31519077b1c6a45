package assistant

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/lessonroom/internal/plan"
)

var suggestionInstructions = map[string]string{
	"topic":    "הצע נושא יחידה מתאים שיתאים להוראה בחדר אימרסיבי.",
	"content":  "הצע תיאור מפורט לפעילות לימודית שתתאים לחדר אימרסיבי.",
	"goals":    "הצע מטרות למידה ספציפיות ומדידות.",
	"duration": "הצע משך זמן מתאים לפעילות זו, תוך התחשבות באופי הפעילות וקהל היעד.",
	"activity": "הצע פעילות לימודית שתנצל את היכולות הייחודיות של החדר האימרסיבי.",
}

const defaultSuggestionInstruction = "הצע שיפור או חלופה לתוכן הנוכחי."

func buildSuggestionPrompt(kind, context, currentValue, message string) string {
	if currentValue == "" {
		currentValue = "ריק"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "בהתבסס על ההקשר הבא: \"%s\"\nוהתוכן הנוכחי: \"%s\"\n\n", context, currentValue)

	instr, ok := suggestionInstructions[kind]
	if !ok {
		instr = defaultSuggestionInstruction
	}
	b.WriteString(instr)

	if msg := strings.TrimSpace(message); msg != "" {
		fmt.Fprintf(&b, "\n\nבקשת המשתמש: %s", msg)
	}
	return b.String()
}

const fieldUpdateSystemPrompt = `You help a teacher edit a lesson plan for an immersive classroom with three wall screens. The teacher writes in Hebrew and asks to change one or more fields of the plan.

Map the request onto the fields listed below. For each field that should change, return one update with:
- fieldToUpdate: the field path exactly as listed (for example "topic" or "main.0.content")
- newValue: the complete new value of the field, in Hebrew unless the field takes a code
- userResponse: one short Hebrew sentence telling the teacher what you changed

Screen fields (screen1, screen2, screen3) take one of: video, image, padlet, website, genially, or an empty string.
The spaceUsage field takes one of: whole, groups, individual, mixed.
Only use field paths from the list. If the request does not ask for a change, return an empty updates array.`

func buildFieldUpdateMessage(message string, labels, values map[string]string) string {
	paths := make([]string, 0, len(labels))
	for p := range labels {
		paths = append(paths, p)
	}
	slices.SortFunc(paths, func(a, b string) int {
		if c := cmp.Compare(fieldOrder(a), fieldOrder(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	var b strings.Builder
	b.WriteString("Fields:\n")
	for _, p := range paths {
		fmt.Fprintf(&b, "- %s (%s)", p, labels[p])
		if v, ok := values[p]; ok && v != "" {
			fmt.Fprintf(&b, ": %q", v)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nTeacher's request:\n%s\n", message)
	return b.String()
}

// fieldOrder keeps scalar fields first, in wizard order.
func fieldOrder(path string) int {
	for i, f := range plan.Fields {
		if string(f) == path {
			return i
		}
	}
	return len(plan.Fields)
}
