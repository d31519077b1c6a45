package assistant

import "github.com/abhisek/lessonroom/internal/llm"

// SuggestionTypes are the kinds of content generate_suggestion can propose.
var SuggestionTypes = []string{"topic", "content", "goals", "duration", "activity"}

func suggestionTypeEnum() []any {
	out := make([]any, len(SuggestionTypes))
	for i, t := range SuggestionTypes {
		out[i] = t
	}
	return out
}

// generateSuggestionArgs validates generate_suggestion arguments.
var generateSuggestionArgs = &llm.Schema{
	Name:        "generate-suggestion-args",
	Description: "Arguments of the generate_suggestion tool",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"context": map[string]any{
				"type":        "string",
				"description": "Current content or context for the suggestion",
			},
			"type": map[string]any{
				"type":        "string",
				"enum":        suggestionTypeEnum(),
				"description": "Type of content to generate",
			},
			"currentValue": map[string]any{
				"type":        "string",
				"description": "Current value of the field",
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Optional follow-up request from the teacher",
			},
		},
		"required": []any{"context", "type", "currentValue"},
	},
}

// updateLessonFieldArgs validates update_lesson_field arguments.
var updateLessonFieldArgs = &llm.Schema{
	Name:        "update-lesson-field-args",
	Description: "Arguments of the update_lesson_field tool",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The teacher's free-text instruction",
			},
			"fieldLabels": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
				"description":          "Field path to Hebrew label for every editable field",
			},
			"currentValues": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
				"description":          "Field path to current value",
			},
		},
		"required": []any{"message", "fieldLabels"},
	},
}

// FieldUpdatesSchema is the structured output requested for
// update_lesson_field.
var FieldUpdatesSchema = &llm.Schema{
	Name:        "lesson-field-updates",
	Description: "Field updates derived from the teacher's message",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"updates": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"fieldToUpdate": map[string]any{
							"type":        "string",
							"description": "Field path to change, exactly as listed in the field labels",
						},
						"userResponse": map[string]any{
							"type":        "string",
							"description": "Short Hebrew reply to the teacher describing the change",
						},
						"newValue": map[string]any{
							"type":        "string",
							"description": "The complete new value of the field",
						},
					},
					"required":             []any{"fieldToUpdate", "userResponse", "newValue"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"updates"},
		"additionalProperties": false,
	},
}
