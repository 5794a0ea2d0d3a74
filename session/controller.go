// Package session drives one lesson-viewing session: which lesson and view
// are active, the transcript cursor, throttled progress persistence, and the
// post-completion vocabulary workflow.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"langlab_backend/models"
)

type View string

const (
	ViewNone  View = ""
	ViewVideo View = "video"
	ViewPdf   View = "pdf"
	ViewHtml  View = "html"
	ViewTxt   View = "txt"
)

type VocabState string

const (
	VocabIdle      VocabState = "idle"
	VocabPrompt    VocabState = "prompt"
	VocabLoading   VocabState = "loading"
	VocabSelection VocabState = "selection"
)

const (
	// progressWriteInterval bounds write amplification against the store:
	// leading-edge, at most one write per interval while playing.
	progressWriteInterval = 5 * time.Second
	transientErrorTTL     = 7 * time.Second
	minLookupChars        = 3
	generateTimeout       = 2 * time.Minute
)

// ErrInvalidWorkflowState is returned when a vocabulary transition is
// requested out of order.
var ErrInvalidWorkflowState = errors.New("vocabulary workflow is not in the required state")

// ProgressStore persists per-lesson learning progress.
type ProgressStore interface {
	UpdateProgress(courseID, lessonID string, completed bool, position float64) error
	SetVocabGenerated(courseID, lessonID string) error
}

// VocabularySink receives confirmed vocabulary items.
type VocabularySink interface {
	AddMany(items []models.VocabularyItem) (int, error)
}

// Generator is the external AI collaborator.
type Generator interface {
	GenerateVocabulary(ctx context.Context, text string) ([]models.VocabularyItem, error)
	LookupWord(ctx context.Context, phrase string) (models.VocabularyItem, error)
}

type Deps struct {
	Progress   ProgressStore
	Vocabulary VocabularySink
	Generator  Generator
	Log        *zap.SugaredLogger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Controller owns all transient state of one session. All exported methods
// are safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	id       string
	course   *models.Course
	progress ProgressStore
	vocab    VocabularySink
	gen      Generator
	log      *zap.SugaredLogger
	now      func() time.Time

	activeID     string
	view         View
	transcript   []models.TranscriptLine
	activeLineID int
	cursor       float64

	lastWrite  time.Time
	pendingPos float64
	dirty      bool

	content   *loadedContent
	loadToken uint64

	vocabState   VocabState
	pendingVocab []models.VocabularyItem
	vocabToken   uint64

	errMsg   string
	errUntil time.Time

	lookupCache map[string]models.VocabularyItem

	closed bool
}

func New(id string, course *models.Course, deps Deps) *Controller {
	c := &Controller{
		id:          id,
		course:      course,
		progress:    deps.Progress,
		vocab:       deps.Vocabulary,
		gen:         deps.Generator,
		log:         deps.Log,
		now:         deps.Now,
		vocabState:  VocabIdle,
		lookupCache: make(map[string]models.VocabularyItem),
	}
	if c.now == nil {
		c.now = time.Now
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if first := course.FirstLesson(); first != nil {
		if err := c.selectLessonLocked(first.ID); err != nil {
			c.log.Warnw("initial lesson load failed", "lesson", first.ID, "error", err)
			c.setTransientErrorLocked("Failed to load lesson content.")
		}
	}
	return c
}

func (c *Controller) ID() string { return c.id }

// CourseID is stable for the controller's lifetime.
func (c *Controller) CourseID() string { return c.course.ID }

// State returns a snapshot for the client. Expired transient errors are
// cleared here.
func (c *Controller) State() models.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := models.SessionState{
		ID:                c.id,
		CourseID:          c.course.ID,
		CourseName:        c.course.Name,
		View:              string(c.view),
		ActiveLineID:      c.activeLineID,
		HasTranscript:     len(c.transcript) > 0,
		VocabWorkflow:     string(c.vocabState),
		PendingVocabCount: len(c.pendingVocab),
	}
	if lesson := c.course.Lesson(c.activeID); lesson != nil {
		s.ActiveLessonID = lesson.ID
		s.ActiveLessonTitle = lesson.Title
		if !lesson.LearningProgress.Completed {
			s.ResumePosition = lesson.LearningProgress.Position
		}
	}
	if c.errMsg != "" {
		if c.now().Before(c.errUntil) {
			s.Error = c.errMsg
		} else {
			c.errMsg = ""
		}
	}
	return s
}

// SelectLesson makes a lesson active, flushing any pending progress write
// for the previous lesson first.
func (c *Controller) SelectLesson(lessonID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return models.ErrNotFound
	}
	return c.selectLessonLocked(lessonID)
}

func (c *Controller) selectLessonLocked(lessonID string) error {
	lesson := c.course.Lesson(lessonID)
	if lesson == nil {
		return fmt.Errorf("%w: lesson %q", models.ErrNotFound, lessonID)
	}

	c.flushProgressLocked()
	c.activeID = lessonID
	c.cursor = 0
	c.activeLineID = 0
	c.view = defaultView(lesson)
	return c.loadContentLocked()
}

// defaultView picks video when present, otherwise the first available of
// pdf, html, txt.
func defaultView(l *models.Lesson) View {
	switch {
	case l.Files.Video != nil:
		return ViewVideo
	case l.Files.Pdf != nil:
		return ViewPdf
	case l.Files.Html != nil:
		return ViewHtml
	case l.Files.Txt != nil:
		return ViewTxt
	}
	return ViewNone
}

// SetView switches the content view within the active lesson.
func (c *Controller) SetView(v View) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return models.ErrNotFound
	}
	lesson := c.course.Lesson(c.activeID)
	if lesson == nil {
		return models.ErrNotFound
	}
	if resourceFor(lesson, v) == nil {
		return fmt.Errorf("%w: lesson has no %s content", models.ErrNotFound, v)
	}
	if v == c.view {
		return nil
	}
	c.view = v
	return c.loadContentLocked()
}

func (c *Controller) Transcript() []models.TranscriptLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.TranscriptLine, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// UpdatePosition records a playback-position event. It returns the id of
// the transcript line containing the position, or 0 when none is active.
// Persistence is throttled: the first event after the cooldown writes, the
// rest are buffered until the next flush.
func (c *Controller) UpdatePosition(pos float64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cursor = pos
	c.activeLineID = 0
	for _, line := range c.transcript {
		if pos >= line.StartTime && pos < line.EndTime {
			c.activeLineID = line.ID
			break
		}
	}

	lesson := c.course.Lesson(c.activeID)
	if lesson == nil {
		return c.activeLineID
	}
	lesson.LearningProgress.Position = pos

	now := c.now()
	if now.Sub(c.lastWrite) >= progressWriteInterval {
		c.lastWrite = now
		c.dirty = false
		if err := c.progress.UpdateProgress(c.course.ID, lesson.ID, lesson.LearningProgress.Completed, pos); err != nil {
			c.log.Warnw("progress write failed", "lesson", lesson.ID, "error", err)
		}
	} else {
		c.pendingPos = pos
		c.dirty = true
	}
	return c.activeLineID
}

// flushProgressLocked writes any buffered position before the lesson
// changes or the session ends, so a stale position can never land on the
// wrong lesson.
func (c *Controller) flushProgressLocked() {
	if !c.dirty {
		return
	}
	c.dirty = false
	lesson := c.course.Lesson(c.activeID)
	if lesson == nil {
		return
	}
	if err := c.progress.UpdateProgress(c.course.ID, lesson.ID, lesson.LearningProgress.Completed, c.pendingPos); err != nil {
		c.log.Warnw("progress flush failed", "lesson", lesson.ID, "error", err)
	}
}

// CompletePlayback marks the active lesson finished and, when a transcript
// exists and vocabulary has never been offered, opens the vocabulary
// prompt.
func (c *Controller) CompletePlayback() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lesson := c.course.Lesson(c.activeID)
	if lesson == nil {
		return models.ErrNotFound
	}

	// The buffered periodic write is superseded by the completion write.
	c.dirty = false
	lesson.LearningProgress.Completed = true
	lesson.LearningProgress.Position = 0
	if err := c.progress.UpdateProgress(c.course.ID, lesson.ID, true, 0); err != nil {
		return err
	}

	if lesson.Files.Srt != nil && !lesson.VocabGenerated && c.vocabState == VocabIdle {
		c.vocabState = VocabPrompt
	}
	return nil
}

// DeclineVocab closes the prompt. The offer is consumed either way: the
// lesson will not prompt again.
func (c *Controller) DeclineVocab() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vocabState != VocabPrompt {
		return ErrInvalidWorkflowState
	}
	c.markVocabGeneratedLocked()
	c.vocabState = VocabIdle
	return nil
}

// AcceptVocab starts generation. The vocab-generated flag is set before the
// call goes out so a retry can never produce a duplicate prompt.
func (c *Controller) AcceptVocab() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vocabState != VocabPrompt {
		return ErrInvalidWorkflowState
	}
	lesson := c.course.Lesson(c.activeID)
	if lesson == nil {
		c.vocabState = VocabIdle
		return models.ErrNotFound
	}
	srtRef := lesson.Files.Srt
	if srtRef == nil || srtRef.Path == "" {
		c.vocabState = VocabIdle
		return fmt.Errorf("%w: subtitle file is not readable", models.ErrContentLoadFailure)
	}

	c.markVocabGeneratedLocked()
	c.vocabState = VocabLoading
	c.vocabToken++

	go c.generateVocab(c.vocabToken, srtRef.Path)
	return nil
}

func (c *Controller) markVocabGeneratedLocked() {
	lesson := c.course.Lesson(c.activeID)
	if lesson == nil {
		return
	}
	lesson.VocabGenerated = true
	if err := c.progress.SetVocabGenerated(c.course.ID, lesson.ID); err != nil {
		c.log.Warnw("vocab flag write failed", "lesson", lesson.ID, "error", err)
	}
}

func (c *Controller) generateVocab(token uint64, srtPath string) {
	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	raw, err := os.ReadFile(srtPath)
	var items []models.VocabularyItem
	if err == nil {
		items, err = c.gen.GenerateVocabulary(ctx, string(raw))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.vocabToken || c.vocabState != VocabLoading {
		// Superseded; a newer workflow owns the state now.
		return
	}
	if err != nil {
		c.log.Warnw("vocabulary generation failed", "error", err)
		msg := "Failed to generate vocabulary for the lesson."
		if errors.Is(err, models.ErrAIRateLimited) {
			msg = "Usage limit reached. Could not generate vocabulary."
		}
		c.setTransientErrorLocked(msg)
		c.vocabState = VocabIdle
		return
	}
	c.pendingVocab = items
	c.vocabState = VocabSelection
}

// PendingVocabulary returns the candidate list and the workflow state.
func (c *Controller) PendingVocabulary() ([]models.VocabularyItem, VocabState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.VocabularyItem, len(c.pendingVocab))
	copy(out, c.pendingVocab)
	return out, c.vocabState
}

// ConfirmVocab merges the selected candidates into the vocabulary
// collection. A nil selection means all candidates (the UI default).
func (c *Controller) ConfirmVocab(words []string) (int, error) {
	c.mu.Lock()
	if c.vocabState != VocabSelection {
		c.mu.Unlock()
		return 0, ErrInvalidWorkflowState
	}

	selected := c.pendingVocab
	if words != nil {
		wanted := make(map[string]bool, len(words))
		for _, w := range words {
			wanted[strings.ToLower(w)] = true
		}
		selected = lo.Filter(selected, func(item models.VocabularyItem, _ int) bool {
			return wanted[strings.ToLower(item.Word)]
		})
	}
	c.pendingVocab = nil
	c.vocabState = VocabIdle
	c.mu.Unlock()

	return c.vocab.AddMany(selected)
}

// CancelVocab discards the candidates.
func (c *Controller) CancelVocab() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vocabState != VocabSelection {
		return ErrInvalidWorkflowState
	}
	c.pendingVocab = nil
	c.vocabState = VocabIdle
	return nil
}

// Lookup resolves a transcript selection of at least three characters,
// caching results by the exact selected text for the session's lifetime.
func (c *Controller) Lookup(ctx context.Context, text string) (models.VocabularyItem, error) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < minLookupChars {
		return models.VocabularyItem{}, models.ErrSelectionTooShort
	}

	c.mu.Lock()
	if item, ok := c.lookupCache[text]; ok {
		c.mu.Unlock()
		return item, nil
	}
	c.mu.Unlock()

	item, err := c.gen.LookupWord(ctx, text)
	if err != nil {
		return models.VocabularyItem{}, err
	}

	c.mu.Lock()
	c.lookupCache[text] = item
	c.mu.Unlock()
	return item, nil
}

func (c *Controller) setTransientErrorLocked(msg string) {
	c.errMsg = msg
	c.errUntil = c.now().Add(transientErrorTTL)
}

// Close flushes pending progress and releases the held content resource.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.flushProgressLocked()
	c.loadToken++
	c.vocabToken++
	if c.content != nil {
		c.content.close()
		c.content = nil
	}
}
