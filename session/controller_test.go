package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"langlab_backend/models"
)

type progressWrite struct {
	lessonID  string
	completed bool
	position  float64
}

type fakeProgress struct {
	mu         sync.Mutex
	writes     []progressWrite
	vocabFlags []string
}

func (f *fakeProgress) UpdateProgress(courseID, lessonID string, completed bool, position float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, progressWrite{lessonID: lessonID, completed: completed, position: position})
	return nil
}

func (f *fakeProgress) SetVocabGenerated(courseID, lessonID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vocabFlags = append(f.vocabFlags, lessonID)
	return nil
}

func (f *fakeProgress) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func (f *fakeProgress) lastWrite() progressWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes[len(f.writes)-1]
}

type fakeSink struct {
	mu    sync.Mutex
	added []models.VocabularyItem
}

func (f *fakeSink) AddMany(items []models.VocabularyItem) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, items...)
	return len(items), nil
}

type fakeGen struct {
	mu          sync.Mutex
	items       []models.VocabularyItem
	genErr      error
	lookupItem  models.VocabularyItem
	lookupErr   error
	lookupCalls int
}

func (f *fakeGen) GenerateVocabulary(_ context.Context, _ string) ([]models.VocabularyItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items, f.genErr
}

func (f *fakeGen) LookupWord(_ context.Context, _ string) (models.VocabularyItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupCalls++
	return f.lookupItem, f.lookupErr
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

const testSRT = `1
00:00:00,000 --> 00:00:02,000
Hello world.

2
00:00:02,000 --> 00:00:04,000
Second line.`

func newTestController(t *testing.T, gen *fakeGen) (*Controller, *fakeProgress, *fakeSink, *fakeClock) {
	t.Helper()
	dir := t.TempDir()

	videoPath := filepath.Join(dir, "1 Intro.mp4")
	srtPath := filepath.Join(dir, "1 Intro.srt")
	video2Path := filepath.Join(dir, "2 Next.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("video"), 0o644))
	require.NoError(t, os.WriteFile(srtPath, []byte(testSRT), 0o644))
	require.NoError(t, os.WriteFile(video2Path, []byte("video"), 0o644))

	course := &models.Course{
		ID:   "Course",
		Name: "Course",
		Parts: []models.Part{{
			ID:    "Part 1",
			Title: "Part 1",
			Lessons: []models.Lesson{
				{
					ID: "Part 1-1", Title: "Intro", Part: "Part 1",
					Files: models.LessonFiles{
						Video: &models.FileRef{Name: "1 Intro.mp4", Path: videoPath},
						Srt:   &models.FileRef{Name: "1 Intro.srt", Path: srtPath},
					},
				},
				{
					ID: "Part 1-2", Title: "Next", Part: "Part 1",
					Files: models.LessonFiles{
						Video: &models.FileRef{Name: "2 Next.mp4", Path: video2Path},
					},
				},
			},
		}},
	}

	progress := &fakeProgress{}
	sink := &fakeSink{}
	clock := &fakeClock{t: time.Unix(1_000_000, 0)}
	ctl := New("s1", course, Deps{
		Progress:   progress,
		Vocabulary: sink,
		Generator:  gen,
		Log:        zap.NewNop().Sugar(),
		Now:        clock.Now,
	})
	t.Cleanup(ctl.Close)
	return ctl, progress, sink, clock
}

func TestInitialState(t *testing.T) {
	ctl, _, _, _ := newTestController(t, &fakeGen{})

	state := ctl.State()
	assert.Equal(t, "Part 1-1", state.ActiveLessonID)
	assert.Equal(t, string(ViewVideo), state.View)
	assert.True(t, state.HasTranscript)
	assert.Equal(t, string(VocabIdle), state.VocabWorkflow)
}

func TestProgressThrottle(t *testing.T) {
	ctl, progress, _, clock := newTestController(t, &fakeGen{})

	for i := 0; i < 20; i++ {
		ctl.UpdatePosition(float64(i))
		clock.Advance(250 * time.Millisecond)
	}
	// Leading edge: the first event writes, the rest of the burst buffers.
	assert.Equal(t, 1, progress.writeCount())

	clock.Advance(time.Second)
	ctl.UpdatePosition(25)
	assert.Equal(t, 2, progress.writeCount())
	assert.InDelta(t, 25, progress.lastWrite().position, 0.001)
}

func TestProgressFlushOnLessonChange(t *testing.T) {
	ctl, progress, _, clock := newTestController(t, &fakeGen{})

	ctl.UpdatePosition(1)
	clock.Advance(time.Second)
	ctl.UpdatePosition(3.5)
	require.Equal(t, 1, progress.writeCount())

	require.NoError(t, ctl.SelectLesson("Part 1-2"))

	require.Equal(t, 2, progress.writeCount())
	flushed := progress.lastWrite()
	assert.Equal(t, "Part 1-1", flushed.lessonID)
	assert.InDelta(t, 3.5, flushed.position, 0.001)
}

func TestTranscriptCursor(t *testing.T) {
	ctl, _, _, _ := newTestController(t, &fakeGen{})

	assert.Equal(t, 1, ctl.UpdatePosition(1.0))
	assert.Equal(t, 2, ctl.UpdatePosition(2.5))
	assert.Equal(t, 0, ctl.UpdatePosition(10))
}

func TestCompleteOpensPrompt(t *testing.T) {
	ctl, progress, _, _ := newTestController(t, &fakeGen{})

	require.NoError(t, ctl.CompletePlayback())

	state := ctl.State()
	assert.Equal(t, string(VocabPrompt), state.VocabWorkflow)
	last := progress.lastWrite()
	assert.True(t, last.completed)
	assert.Zero(t, last.position)
	// A completed lesson restarts from the beginning next time.
	assert.Zero(t, state.ResumePosition)
}

func TestCompleteWithoutTranscriptStaysIdle(t *testing.T) {
	ctl, _, _, _ := newTestController(t, &fakeGen{})

	require.NoError(t, ctl.SelectLesson("Part 1-2"))
	require.NoError(t, ctl.CompletePlayback())
	assert.Equal(t, string(VocabIdle), ctl.State().VocabWorkflow)
}

func TestDeclineConsumesOffer(t *testing.T) {
	ctl, progress, _, _ := newTestController(t, &fakeGen{})

	require.NoError(t, ctl.CompletePlayback())
	require.NoError(t, ctl.DeclineVocab())

	assert.Equal(t, string(VocabIdle), ctl.State().VocabWorkflow)
	assert.Contains(t, progress.vocabFlags, "Part 1-1")

	// Completing again must not re-prompt.
	require.NoError(t, ctl.CompletePlayback())
	assert.Equal(t, string(VocabIdle), ctl.State().VocabWorkflow)
}

func TestDeclineWithoutPrompt(t *testing.T) {
	ctl, _, _, _ := newTestController(t, &fakeGen{})
	assert.ErrorIs(t, ctl.DeclineVocab(), ErrInvalidWorkflowState)
}

func TestAcceptGeneratesCandidates(t *testing.T) {
	gen := &fakeGen{items: []models.VocabularyItem{
		{Word: "serendipity"},
		{Word: "ephemeral"},
	}}
	ctl, _, sink, _ := newTestController(t, gen)

	require.NoError(t, ctl.CompletePlayback())
	require.NoError(t, ctl.AcceptVocab())

	require.Eventually(t, func() bool {
		_, state := ctl.PendingVocabulary()
		return state == VocabSelection
	}, 2*time.Second, 10*time.Millisecond)

	items, _ := ctl.PendingVocabulary()
	require.Len(t, items, 2)

	added, err := ctl.ConfirmVocab(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Len(t, sink.added, 2)
	assert.Equal(t, string(VocabIdle), ctl.State().VocabWorkflow)
}

func TestConfirmSubset(t *testing.T) {
	gen := &fakeGen{items: []models.VocabularyItem{
		{Word: "alpha"},
		{Word: "beta"},
		{Word: "gamma"},
	}}
	ctl, _, sink, _ := newTestController(t, gen)

	require.NoError(t, ctl.CompletePlayback())
	require.NoError(t, ctl.AcceptVocab())
	require.Eventually(t, func() bool {
		_, state := ctl.PendingVocabulary()
		return state == VocabSelection
	}, 2*time.Second, 10*time.Millisecond)

	added, err := ctl.ConfirmVocab([]string{"Alpha", "gamma"})
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	require.Len(t, sink.added, 2)
	assert.Equal(t, "alpha", sink.added[0].Word)
	assert.Equal(t, "gamma", sink.added[1].Word)
}

func TestCancelDiscardsCandidates(t *testing.T) {
	gen := &fakeGen{items: []models.VocabularyItem{{Word: "alpha"}}}
	ctl, _, sink, _ := newTestController(t, gen)

	require.NoError(t, ctl.CompletePlayback())
	require.NoError(t, ctl.AcceptVocab())
	require.Eventually(t, func() bool {
		_, state := ctl.PendingVocabulary()
		return state == VocabSelection
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ctl.CancelVocab())
	assert.Empty(t, sink.added)
	assert.Equal(t, string(VocabIdle), ctl.State().VocabWorkflow)
}

func TestGenerationFailure(t *testing.T) {
	gen := &fakeGen{genErr: fmt.Errorf("%w: quota", models.ErrAIRateLimited)}
	ctl, _, _, _ := newTestController(t, gen)

	require.NoError(t, ctl.CompletePlayback())
	require.NoError(t, ctl.AcceptVocab())

	require.Eventually(t, func() bool {
		_, state := ctl.PendingVocabulary()
		return state == VocabIdle
	}, 2*time.Second, 10*time.Millisecond)

	assert.Contains(t, ctl.State().Error, "Usage limit")
}

func TestLookupMinimumLength(t *testing.T) {
	ctl, _, _, _ := newTestController(t, &fakeGen{})

	_, err := ctl.Lookup(context.Background(), "ab")
	assert.ErrorIs(t, err, models.ErrSelectionTooShort)

	_, err = ctl.Lookup(context.Background(), "  a  ")
	assert.ErrorIs(t, err, models.ErrSelectionTooShort)
}

func TestLookupCaching(t *testing.T) {
	gen := &fakeGen{lookupItem: models.VocabularyItem{Word: "hello", Meaning: "a greeting"}}
	ctl, _, _, _ := newTestController(t, gen)

	item, err := ctl.Lookup(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "a greeting", item.Meaning)

	_, err = ctl.Lookup(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.lookupCalls)
}

func TestLookupErrorNotCached(t *testing.T) {
	gen := &fakeGen{lookupErr: errors.New("boom")}
	ctl, _, _, _ := newTestController(t, gen)

	_, err := ctl.Lookup(context.Background(), "hello")
	require.Error(t, err)

	gen.mu.Lock()
	gen.lookupErr = nil
	gen.lookupItem = models.VocabularyItem{Word: "hello"}
	gen.mu.Unlock()

	_, err = ctl.Lookup(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 2, gen.lookupCalls)
}

func TestSetViewUnavailable(t *testing.T) {
	ctl, _, _, _ := newTestController(t, &fakeGen{})
	assert.ErrorIs(t, ctl.SetView(ViewPdf), models.ErrNotFound)
}

func TestContentForVideoView(t *testing.T) {
	ctl, _, _, _ := newTestController(t, &fakeGen{})

	info, err := ctl.Content()
	require.NoError(t, err)
	assert.Equal(t, ViewVideo, info.View)
	assert.NotEmpty(t, info.Path)
	assert.Equal(t, "video/mp4", info.Mime)
}

func TestCloseFlushesProgress(t *testing.T) {
	ctl, progress, _, clock := newTestController(t, &fakeGen{})

	ctl.UpdatePosition(1)
	clock.Advance(time.Second)
	ctl.UpdatePosition(7.25)
	require.Equal(t, 1, progress.writeCount())

	ctl.Close()
	require.Equal(t, 2, progress.writeCount())
	assert.InDelta(t, 7.25, progress.lastWrite().position, 0.001)
}

func TestRegistryLifecycle(t *testing.T) {
	reg := NewRegistry()
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "1 A.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("v"), 0o644))

	course := &models.Course{
		ID: "C", Name: "C",
		Parts: []models.Part{{ID: "P", Title: "P", Lessons: []models.Lesson{{
			ID: "P-1", Title: "A", Part: "P",
			Files: models.LessonFiles{Video: &models.FileRef{Name: "1 A.mp4", Path: videoPath}},
		}}}},
	}

	ctl := reg.Create(course, Deps{
		Progress:   &fakeProgress{},
		Vocabulary: &fakeSink{},
		Generator:  &fakeGen{},
		Log:        zap.NewNop().Sugar(),
	})

	got, ok := reg.Get(ctl.ID())
	require.True(t, ok)
	assert.Same(t, ctl, got)

	assert.True(t, reg.Remove(ctl.ID()))
	_, ok = reg.Get(ctl.ID())
	assert.False(t, ok)
	assert.False(t, reg.Remove(ctl.ID()))
}
