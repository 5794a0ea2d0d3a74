package models

import (
	"strings"

	"github.com/samber/lo"
)

// VocabularyItem is one saved term. Uniqueness is enforced
// case-insensitively by Word within the learner's collection.
type VocabularyItem struct {
	ID          string `json:"id,omitempty"`
	Word        string `json:"word"`
	IPA         string `json:"ipa"`
	Meaning     string `json:"meaning"`
	Example     string `json:"example"`
	Translation string `json:"translation,omitempty"`
}

// FilterNewItems returns the incoming items whose words are not already in
// the collection, comparing case-insensitively. Duplicates within incoming
// itself are also collapsed, first occurrence wins.
func FilterNewItems(existingWords []string, incoming []VocabularyItem) []VocabularyItem {
	seen := make(map[string]bool, len(existingWords))
	for _, w := range existingWords {
		seen[strings.ToLower(w)] = true
	}
	return lo.Filter(incoming, func(item VocabularyItem, _ int) bool {
		key := strings.ToLower(item.Word)
		if key == "" || seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}
