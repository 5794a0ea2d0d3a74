package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"langlab_backend/models"
)

var itemProperties = map[string]any{
	"word":        map[string]any{"type": "STRING", "description": "The vocabulary word or phrase."},
	"ipa":         map[string]any{"type": "STRING", "description": "The International Phonetic Alphabet (IPA) transcription of the word."},
	"meaning":     map[string]any{"type": "STRING", "description": "A clear and concise definition of the word."},
	"example":     map[string]any{"type": "STRING", "description": "An example sentence using the word in context."},
	"translation": map[string]any{"type": "STRING", "description": "The Vietnamese translation of the word."},
}

var itemRequired = []string{"word", "ipa", "meaning", "example", "translation"}

var vocabularySchema = map[string]any{
	"type": "ARRAY",
	"items": map[string]any{
		"type":       "OBJECT",
		"properties": itemProperties,
		"required":   itemRequired,
	},
}

var wordLookupSchema = map[string]any{
	"type":       "OBJECT",
	"properties": itemProperties,
	"required":   itemRequired,
}

// GenerateVocabulary extracts learner-relevant terms from a lesson
// transcript.
func (c *Client) GenerateVocabulary(ctx context.Context, text string) ([]models.VocabularyItem, error) {
	prompt := "From the following text, extract key vocabulary words or phrases that a language learner should know. " +
		"For each item, provide its IPA transcription, a clear meaning, an example sentence, and its Vietnamese translation. " +
		"Focus on less common but useful terms.\n\nTEXT:\n" + text

	out, err := c.generateContent(ctx, prompt, vocabularySchema)
	if err != nil {
		return nil, err
	}

	parsed := gjson.Parse(out)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array", models.ErrAIRequestFailed)
	}

	var items []models.VocabularyItem
	for _, r := range parsed.Array() {
		item := parseItem(r)
		if item.Word == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// LookupWord analyzes one selected word or short phrase.
func (c *Client) LookupWord(ctx context.Context, phrase string) (models.VocabularyItem, error) {
	prompt := fmt.Sprintf("Analyze the following English word or phrase: %q. "+
		"Provide its IPA transcription, a clear meaning, a relevant example sentence, and its Vietnamese translation.", phrase)

	out, err := c.generateContent(ctx, prompt, wordLookupSchema)
	if err != nil {
		return models.VocabularyItem{}, err
	}

	item := parseItem(gjson.Parse(out))
	if item.Word == "" {
		return models.VocabularyItem{}, fmt.Errorf("%w: response missing word", models.ErrAIRequestFailed)
	}
	return item, nil
}

func parseItem(r gjson.Result) models.VocabularyItem {
	return models.VocabularyItem{
		Word:        strings.TrimSpace(r.Get("word").String()),
		IPA:         strings.TrimSpace(r.Get("ipa").String()),
		Meaning:     strings.TrimSpace(r.Get("meaning").String()),
		Example:     strings.TrimSpace(r.Get("example").String()),
		Translation: strings.TrimSpace(r.Get("translation").String()),
	}
}
