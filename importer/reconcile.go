package importer

import (
	"fmt"
	"sort"
	"strings"

	"langlab_backend/models"
)

// Reconcile overlays freshly scanned file refs onto a previously imported
// course. The existing course's progress and vocabulary flags always win;
// lessons that vanished from the fresh scan keep their metadata with all
// refs nulled, so progress history survives file removal. Lessons new in the
// fresh scan are added with zero progress.
//
// The existing course is never mutated; a mismatched folder name fails
// before any merging happens.
func Reconcile(existing, fresh *models.Course) (*models.Course, error) {
	if existing.Name != fresh.Name {
		return nil, fmt.Errorf("%w: expected %q, got %q", models.ErrFolderMismatch, existing.Name, fresh.Name)
	}

	freshLessons := make(map[string]models.Lesson)
	for _, p := range fresh.Parts {
		for _, l := range p.Lessons {
			freshLessons[l.ID] = l
		}
	}

	merged := &models.Course{
		ID:         existing.ID,
		Name:       existing.Name,
		CoverImage: existing.CoverImage,
		RootPath:   fresh.RootPath,
	}
	if merged.CoverImage == "" {
		merged.CoverImage = fresh.CoverImage
	}

	seen := make(map[string]bool)
	partIndex := make(map[string]int)

	for _, p := range existing.Parts {
		part := models.Part{ID: p.ID, Title: p.Title}
		for _, l := range p.Lessons {
			lesson := l
			if fl, ok := freshLessons[l.ID]; ok {
				lesson.Files = fl.Files
			} else {
				lesson.Files = models.LessonFiles{}
			}
			seen[lesson.ID] = true
			part.Lessons = append(part.Lessons, lesson)
		}
		partIndex[part.ID] = len(merged.Parts)
		merged.Parts = append(merged.Parts, part)
	}

	// Files added since the last import show up as fresh-only lessons.
	newParts := false
	for _, p := range fresh.Parts {
		for _, l := range p.Lessons {
			if seen[l.ID] {
				continue
			}
			idx, ok := partIndex[p.ID]
			if !ok {
				partIndex[p.ID] = len(merged.Parts)
				idx = len(merged.Parts)
				merged.Parts = append(merged.Parts, models.Part{ID: p.ID, Title: p.Title})
				newParts = true
			}
			merged.Parts[idx].Lessons = append(merged.Parts[idx].Lessons, l)
			sortLessons(merged.Parts[idx].Lessons)
		}
	}
	if newParts {
		sort.Slice(merged.Parts, func(i, j int) bool { return merged.Parts[i].ID < merged.Parts[j].ID })
	}

	return merged, nil
}

func sortLessons(lessons []models.Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		return compareNumericIDs(numericID(lessons[i]), numericID(lessons[j])) < 0
	})
}

func numericID(l models.Lesson) string {
	if cut := strings.TrimPrefix(l.ID, l.Part+"-"); cut != l.ID {
		return cut
	}
	return l.ID
}
