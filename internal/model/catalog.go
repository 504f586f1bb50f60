package model

// Catalog types are read-only at runtime. Course order and module order are
// authoring decisions; module order is the unlock sequence.

// swagger:model Course
type Course struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"shortDescription"`
	Icon             string   `json:"icon"`
	Color            string   `json:"color"`
	EstimatedHours   int      `json:"estimatedHours"`
	Modules          []Module `json:"modules"`
}

// swagger:model Module
type Module struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	EstimatedMinutes int             `json:"estimatedMinutes"`
	VideoURL         string          `json:"videoUrl,omitempty"`
	Content          []ModuleContent `json:"content"`
	Quiz             Quiz            `json:"quiz"`
}

type ModuleContent struct {
	Type    string   `json:"type"` // heading | paragraph | list | definition | example
	Content string   `json:"content"`
	Items   []string `json:"items,omitempty"`
}

// swagger:model Quiz
type Quiz struct {
	PassingScore int            `json:"passingScore"`
	Questions    []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}
