package store

import (
	"database/sql"
	"fmt"

	"github.com/segmentio/ksuid"

	"langlab_backend/models"
)

type VocabularyStore struct {
	db *sql.DB
}

func NewVocabularyStore(db *sql.DB) *VocabularyStore {
	return &VocabularyStore{db: db}
}

// List returns the whole collection, oldest first.
func (s *VocabularyStore) List() ([]models.VocabularyItem, error) {
	rows, err := s.db.Query(`
        SELECT id, word, ipa, meaning, example, translation
        FROM vocabulary
        ORDER BY created_at ASC, id ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("error fetching vocabulary: %w", err)
	}
	defer rows.Close()

	items := make([]models.VocabularyItem, 0)
	for rows.Next() {
		var item models.VocabularyItem
		if err := rows.Scan(&item.ID, &item.Word, &item.IPA, &item.Meaning, &item.Example, &item.Translation); err != nil {
			return nil, fmt.Errorf("error scanning vocabulary item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Add saves one item. A word already present (case-insensitively) is a
// user-visible rejection, not a silent drop.
func (s *VocabularyStore) Add(item models.VocabularyItem) error {
	var exists bool
	if err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM vocabulary WHERE LOWER(word) = LOWER($1))`, item.Word,
	).Scan(&exists); err != nil {
		return fmt.Errorf("error checking vocabulary: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %q", models.ErrDuplicateVocabulary, item.Word)
	}

	if _, err := s.db.Exec(`
        INSERT INTO vocabulary (id, word, ipa, meaning, example, translation)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT DO NOTHING
    `, ksuid.New().String(), item.Word, item.IPA, item.Meaning, item.Example, item.Translation); err != nil {
		return fmt.Errorf("error saving vocabulary item: %w", err)
	}
	return nil
}

// AddMany merges generated items into the collection, silently skipping
// words that already exist. Returns how many were actually added.
func (s *VocabularyStore) AddMany(items []models.VocabularyItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	existing, err := s.existingWords()
	if err != nil {
		return 0, err
	}
	fresh := models.FilterNewItems(existing, items)
	if len(fresh) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range fresh {
		if _, err := tx.Exec(`
            INSERT INTO vocabulary (id, word, ipa, meaning, example, translation)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT DO NOTHING
        `, ksuid.New().String(), item.Word, item.IPA, item.Meaning, item.Example, item.Translation); err != nil {
			return 0, fmt.Errorf("error saving vocabulary item %q: %w", item.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing vocabulary: %w", err)
	}
	return len(fresh), nil
}

func (s *VocabularyStore) existingWords() ([]string, error) {
	rows, err := s.db.Query(`SELECT word FROM vocabulary`)
	if err != nil {
		return nil, fmt.Errorf("error fetching words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}
