// Package store persists course summaries and the vocabulary collection.
package store

import (
	"database/sql"
	"fmt"

	"langlab_backend/models"
)

type CourseStore struct {
	db *sql.DB
}

func NewCourseStore(db *sql.DB) *CourseStore {
	return &CourseStore{db: db}
}

// Save writes the whole course summary, replacing any previous rows for the
// course. Whole-value replacement keeps a crash mid-write from leaving a
// half-merged summary behind.
func (s *CourseStore) Save(course *models.Course) error {
	summary := course.Summary()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
        INSERT INTO courses (id, name, cover_image, root_path)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE SET cover_image = $3, root_path = $4
    `, summary.ID, summary.Name, summary.CoverImage, summary.RootPath); err != nil {
		return fmt.Errorf("error saving course: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM lessons WHERE course_id = $1`, summary.ID); err != nil {
		return fmt.Errorf("error clearing lessons: %w", err)
	}

	ord := 0
	for _, part := range summary.Parts {
		for _, lesson := range part.Lessons {
			if _, err := tx.Exec(`
                INSERT INTO lessons (course_id, lesson_id, part, title, ord,
                    has_video, has_srt, has_pdf, has_html, has_txt,
                    completed, position, vocab_generated)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
            `, summary.ID, lesson.ID, lesson.Part, lesson.Title, ord,
				lesson.HasVideo, lesson.HasSrt, lesson.HasPdf, lesson.HasHtml, lesson.HasTxt,
				lesson.LearningProgress.Completed, lesson.LearningProgress.Position, lesson.VocabGenerated,
			); err != nil {
				return fmt.Errorf("error saving lesson %s: %w", lesson.ID, err)
			}
			ord++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing course: %w", err)
	}
	return nil
}

// Get loads one stored course summary.
func (s *CourseStore) Get(id string) (*models.StoredCourse, error) {
	var course models.StoredCourse
	var coverImage, rootPath sql.NullString
	err := s.db.QueryRow(`
        SELECT id, name, cover_image, root_path FROM courses WHERE id = $1
    `, id).Scan(&course.ID, &course.Name, &coverImage, &rootPath)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching course: %w", err)
	}
	course.CoverImage = coverImage.String
	course.RootPath = rootPath.String

	if err := s.loadLessons(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

// List loads every stored course summary, newest first.
func (s *CourseStore) List() ([]models.StoredCourse, error) {
	rows, err := s.db.Query(`
        SELECT id, name, cover_image, root_path
        FROM courses
        ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("error fetching courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.StoredCourse, 0)
	for rows.Next() {
		var course models.StoredCourse
		var coverImage, rootPath sql.NullString
		if err := rows.Scan(&course.ID, &course.Name, &coverImage, &rootPath); err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		course.CoverImage = coverImage.String
		course.RootPath = rootPath.String
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range courses {
		if err := s.loadLessons(&courses[i]); err != nil {
			return nil, err
		}
	}
	return courses, nil
}

func (s *CourseStore) loadLessons(course *models.StoredCourse) error {
	rows, err := s.db.Query(`
        SELECT lesson_id, part, title,
            has_video, has_srt, has_pdf, has_html, has_txt,
            completed, position, vocab_generated
        FROM lessons
        WHERE course_id = $1
        ORDER BY ord ASC
    `, course.ID)
	if err != nil {
		return fmt.Errorf("error fetching lessons: %w", err)
	}
	defer rows.Close()

	// Parts come back implicitly ordered because lessons were saved in part
	// order.
	partIndex := make(map[string]int)
	for rows.Next() {
		var l models.StoredLesson
		if err := rows.Scan(&l.ID, &l.Part, &l.Title,
			&l.HasVideo, &l.HasSrt, &l.HasPdf, &l.HasHtml, &l.HasTxt,
			&l.LearningProgress.Completed, &l.LearningProgress.Position, &l.VocabGenerated,
		); err != nil {
			return fmt.Errorf("error scanning lesson: %w", err)
		}

		idx, ok := partIndex[l.Part]
		if !ok {
			idx = len(course.Parts)
			partIndex[l.Part] = idx
			course.Parts = append(course.Parts, models.StoredPart{ID: l.Part, Title: l.Part})
		}
		course.Parts[idx].Lessons = append(course.Parts[idx].Lessons, l)
	}
	return rows.Err()
}

// Exists reports whether a course with the given name was already imported.
func (s *CourseStore) Exists(name string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM courses WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking course existence: %w", err)
	}
	return exists, nil
}

func (s *CourseStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateProgress persists one lesson's learning progress.
func (s *CourseStore) UpdateProgress(courseID, lessonID string, completed bool, position float64) error {
	_, err := s.db.Exec(`
        UPDATE lessons SET completed = $3, position = $4
        WHERE course_id = $1 AND lesson_id = $2
    `, courseID, lessonID, completed, position)
	if err != nil {
		return fmt.Errorf("error updating progress: %w", err)
	}
	return nil
}

// SetVocabGenerated marks a lesson's vocabulary offer as consumed.
func (s *CourseStore) SetVocabGenerated(courseID, lessonID string) error {
	_, err := s.db.Exec(`
        UPDATE lessons SET vocab_generated = TRUE
        WHERE course_id = $1 AND lesson_id = $2
    `, courseID, lessonID)
	if err != nil {
		return fmt.Errorf("error updating vocab flag: %w", err)
	}
	return nil
}
