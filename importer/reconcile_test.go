package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"langlab_backend/models"
)

func storedCourse() *models.Course {
	return &models.Course{
		ID:   "English Basics",
		Name: "English Basics",
		Parts: []models.Part{{
			ID:    "Part 1",
			Title: "Part 1",
			Lessons: []models.Lesson{
				{
					ID: "Part 1-1", Title: "Greetings", Part: "Part 1",
					LearningProgress: models.LearningProgress{Completed: true},
					VocabGenerated:   true,
				},
				{
					ID: "Part 1-2", Title: "Numbers", Part: "Part 1",
					LearningProgress: models.LearningProgress{Position: 42.5},
				},
			},
		}},
	}
}

func freshCourse() *models.Course {
	return &models.Course{
		ID:       "English Basics",
		Name:     "English Basics",
		RootPath: "/media/English Basics",
		Parts: []models.Part{{
			ID:    "Part 1",
			Title: "Part 1",
			Lessons: []models.Lesson{
				{
					ID: "Part 1-1", Title: "Greetings", Part: "Part 1",
					Files: models.LessonFiles{Video: &models.FileRef{Name: "1 Greetings.mp4", Path: "/media/a.mp4"}},
				},
				{
					ID: "Part 1-2", Title: "Numbers", Part: "Part 1",
					Files: models.LessonFiles{Video: &models.FileRef{Name: "2 Numbers.mp4", Path: "/media/b.mp4"}},
				},
			},
		}},
	}
}

func TestReconcilePreservesProgress(t *testing.T) {
	merged, err := Reconcile(storedCourse(), freshCourse())
	require.NoError(t, err)

	require.Len(t, merged.Parts, 1)
	lessons := merged.Parts[0].Lessons
	require.Len(t, lessons, 2)

	assert.True(t, lessons[0].LearningProgress.Completed)
	assert.True(t, lessons[0].VocabGenerated)
	require.NotNil(t, lessons[0].Files.Video)
	assert.Equal(t, "/media/a.mp4", lessons[0].Files.Video.Path)

	assert.InDelta(t, 42.5, lessons[1].LearningProgress.Position, 0.001)
	assert.Equal(t, "/media/English Basics", merged.RootPath)
}

func TestReconcileNullsVanishedLessonRefs(t *testing.T) {
	fresh := freshCourse()
	fresh.Parts[0].Lessons = fresh.Parts[0].Lessons[:1]

	merged, err := Reconcile(storedCourse(), fresh)
	require.NoError(t, err)

	lessons := merged.Parts[0].Lessons
	require.Len(t, lessons, 2)
	// The vanished lesson keeps its progress but loses every ref.
	assert.Nil(t, lessons[1].Files.Video)
	assert.InDelta(t, 42.5, lessons[1].LearningProgress.Position, 0.001)
}

func TestReconcileAppendsFreshOnlyLessons(t *testing.T) {
	fresh := freshCourse()
	fresh.Parts[0].Lessons = append(fresh.Parts[0].Lessons, models.Lesson{
		ID: "Part 1-3", Title: "Colors", Part: "Part 1",
		Files: models.LessonFiles{Video: &models.FileRef{Name: "3 Colors.mp4", Path: "/media/c.mp4"}},
	})
	fresh.Parts = append(fresh.Parts, models.Part{
		ID: "Part 2", Title: "Part 2",
		Lessons: []models.Lesson{{ID: "Part 2-1", Title: "Food", Part: "Part 2"}},
	})

	merged, err := Reconcile(storedCourse(), fresh)
	require.NoError(t, err)

	require.Len(t, merged.Parts, 2)
	require.Len(t, merged.Parts[0].Lessons, 3)
	assert.Equal(t, "Part 1-3", merged.Parts[0].Lessons[2].ID)
	assert.False(t, merged.Parts[0].Lessons[2].LearningProgress.Completed)
	assert.Equal(t, "Part 2-1", merged.Parts[1].Lessons[0].ID)
}

func TestReconcileFolderMismatch(t *testing.T) {
	existing := storedCourse()
	fresh := freshCourse()
	fresh.Name = "Different Folder"

	_, err := Reconcile(existing, fresh)
	assert.ErrorIs(t, err, models.ErrFolderMismatch)
	// The stored course must be untouched on failure.
	assert.True(t, existing.Parts[0].Lessons[0].LearningProgress.Completed)
	assert.Nil(t, existing.Parts[0].Lessons[0].Files.Video)
}
