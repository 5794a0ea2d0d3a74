package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterNewItems(t *testing.T) {
	existing := []string{"Hello", "world"}
	incoming := []VocabularyItem{
		{Word: "hello"},
		{Word: "WORLD"},
		{Word: "serendipity"},
		{Word: "Serendipity"},
		{Word: "ephemeral"},
	}

	fresh := FilterNewItems(existing, incoming)

	assert.Len(t, fresh, 2)
	assert.Equal(t, "serendipity", fresh[0].Word)
	assert.Equal(t, "ephemeral", fresh[1].Word)
}

func TestFilterNewItemsEmptyExisting(t *testing.T) {
	incoming := []VocabularyItem{{Word: "alpha"}, {Word: "beta"}}
	assert.Len(t, FilterNewItems(nil, incoming), 2)
}
