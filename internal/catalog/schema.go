package catalog

// catalogSchema is the authoring-time contract for course content. Quizzes
// must carry at least one question so an attempt can never divide by zero,
// and correct-answer bounds are checked structurally after unmarshalling
// (JSON Schema cannot compare an index against a sibling array length).
var catalogSchema = map[string]any{
	"type":     "array",
	"minItems": 1,
	"items": map[string]any{
		"type":     "object",
		"required": []any{"id", "title", "description", "shortDescription", "modules"},
		"properties": map[string]any{
			"id":               map[string]any{"type": "string", "minLength": 1},
			"title":            map[string]any{"type": "string", "minLength": 1},
			"description":      map[string]any{"type": "string"},
			"shortDescription": map[string]any{"type": "string"},
			"icon":             map[string]any{"type": "string"},
			"color":            map[string]any{"type": "string"},
			"estimatedHours":   map[string]any{"type": "integer", "minimum": 0},
			"modules": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id", "title", "quiz"},
					"properties": map[string]any{
						"id":               map[string]any{"type": "string", "minLength": 1},
						"title":            map[string]any{"type": "string", "minLength": 1},
						"description":      map[string]any{"type": "string"},
						"estimatedMinutes": map[string]any{"type": "integer", "minimum": 0},
						"videoUrl":         map[string]any{"type": "string"},
						"content": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []any{"type", "content"},
								"properties": map[string]any{
									"type": map[string]any{
										"type": "string",
										"enum": []any{"heading", "paragraph", "list", "definition", "example"},
									},
									"content": map[string]any{"type": "string"},
									"items":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
								},
							},
						},
						"quiz": map[string]any{
							"type":     "object",
							"required": []any{"passingScore", "questions"},
							"properties": map[string]any{
								"passingScore": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
								"questions": map[string]any{
									"type":     "array",
									"minItems": 1,
									"items": map[string]any{
										"type":     "object",
										"required": []any{"id", "question", "options", "correctAnswer"},
										"properties": map[string]any{
											"id":       map[string]any{"type": "string", "minLength": 1},
											"question": map[string]any{"type": "string", "minLength": 1},
											"options": map[string]any{
												"type":     "array",
												"minItems": 2,
												"items":    map[string]any{"type": "string"},
											},
											"correctAnswer": map[string]any{"type": "integer", "minimum": 0},
											"explanation":   map[string]any{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	},
}
