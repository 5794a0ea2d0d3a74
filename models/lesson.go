package models

// LearningProgress is the coarse per-lesson progress record.
type LearningProgress struct {
	Completed bool    `json:"completed"`
	Position  float64 `json:"position"`
}

// Lesson is the atomic unit of content: all same-numbered files of one part
// grouped across content kinds.
type Lesson struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Part             string           `json:"part"`
	Files            LessonFiles      `json:"files"`
	LearningProgress LearningProgress `json:"learningProgress"`
	VocabGenerated   bool             `json:"vocabGenerated"`
}
