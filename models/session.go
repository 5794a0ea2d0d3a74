package models

// SessionState is the snapshot of a lesson session returned to the client.
type SessionState struct {
	ID                string  `json:"id"`
	CourseID          string  `json:"course_id"`
	CourseName        string  `json:"course_name"`
	ActiveLessonID    string  `json:"active_lesson_id,omitempty"`
	ActiveLessonTitle string  `json:"active_lesson_title,omitempty"`
	View              string  `json:"view"`
	ResumePosition    float64 `json:"resume_position"`
	ActiveLineID      int     `json:"active_line_id"`
	HasTranscript     bool    `json:"has_transcript"`
	VocabWorkflow     string  `json:"vocab_workflow"`
	PendingVocabCount int     `json:"pending_vocab_count"`
	Error             string  `json:"error,omitempty"`
}

type SelectLessonRequest struct {
	LessonID string `json:"lesson_id" binding:"required"`
}

type SetViewRequest struct {
	View string `json:"view" binding:"required"`
}

type ProgressUpdateRequest struct {
	Position float64 `json:"position"`
}

type ProgressUpdateResponse struct {
	ActiveLineID int `json:"active_line_id"`
}

type LookupRequest struct {
	Text string `json:"text" binding:"required"`
}

type ConfirmVocabRequest struct {
	Words []string `json:"words"`
}

type ImportCourseRequest struct {
	// Path imports by walking a directory on disk.
	Path string `json:"path"`
	// Root plus Files import from a flat relative-path listing. BaseDir,
	// when set, lets the listed files resolve to readable locations.
	Root    string   `json:"root"`
	Files   []string `json:"files"`
	BaseDir string   `json:"base_dir"`
}
