package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"langlab_backend/models"
	"langlab_backend/store"
)

type VocabularyHandler struct {
	vocab *store.VocabularyStore
}

func NewVocabularyHandler(vocab *store.VocabularyStore) *VocabularyHandler {
	return &VocabularyHandler{vocab: vocab}
}

func (h *VocabularyHandler) GetVocabulary(c *gin.Context) {
	items, err := h.vocab.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// SaveVocabulary stores a single looked-up item. A word already in the
// collection is rejected with a conflict.
func (h *VocabularyHandler) SaveVocabulary(c *gin.Context) {
	var item models.VocabularyItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if item.Word == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "word is required"})
		return
	}
	if err := h.vocab.Add(item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Vocabulary saved"})
}

// GetReview deals the whole collection in a fresh random order per request.
func (h *VocabularyHandler) GetReview(c *gin.Context) {
	items, err := h.vocab.List()
	if err != nil {
		respondError(c, err)
		return
	}
	deck := make([]models.VocabularyItem, len(items))
	copy(deck, items)
	c.JSON(http.StatusOK, lo.Shuffle(deck))
}
