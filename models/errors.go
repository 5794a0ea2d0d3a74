package models

import "errors"

// Error taxonomy shared across the import and session layers. Handlers map
// these to HTTP statuses; callers test with errors.Is.
var (
	ErrNoFilesSelected     = errors.New("no files selected")
	ErrFolderMismatch      = errors.New("selected folder does not match the course")
	ErrPermissionDenied    = errors.New("course folder is not accessible")
	ErrContentLoadFailure  = errors.New("failed to load lesson content")
	ErrAIRateLimited       = errors.New("AI usage limit reached")
	ErrAIRequestFailed     = errors.New("AI request failed")
	ErrDuplicateVocabulary = errors.New("word is already in the vocabulary list")
	ErrSelectionTooShort   = errors.New("selection is too short to look up")
	ErrCourseExists        = errors.New("course has already been added")
	ErrNotFound            = errors.New("not found")
)
