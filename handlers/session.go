package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"langlab_backend/models"
	"langlab_backend/session"
)

type SessionHandler struct {
	sessions *session.Registry
}

func NewSessionHandler(sessions *session.Registry) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) controller(c *gin.Context) (*session.Controller, bool) {
	ctl, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return ctl, true
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctl.State())
}

// CloseSession flushes pending progress and releases the held file.
func (h *SessionHandler) CloseSession(c *gin.Context) {
	if !h.sessions.Remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}

func (h *SessionHandler) SelectLesson(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	var req models.SelectLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ctl.SelectLesson(req.LessonID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.State())
}

func (h *SessionHandler) SetView(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	var req models.SetViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ctl.SetView(session.View(req.View)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.State())
}

// GetContent serves the active view's content: streamed from disk for video
// and pdf (range requests included), inline for html and txt.
func (h *SessionHandler) GetContent(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	info, err := ctl.Content()
	if err != nil {
		respondError(c, err)
		return
	}
	if info.Path != "" {
		c.Header("Content-Type", info.Mime)
		c.File(info.Path)
		return
	}
	c.Data(http.StatusOK, info.Mime, []byte(info.Text))
}

func (h *SessionHandler) GetTranscript(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctl.Transcript())
}

func (h *SessionHandler) UpdateProgress(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	var req models.ProgressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lineID := ctl.UpdatePosition(req.Position)
	c.JSON(http.StatusOK, models.ProgressUpdateResponse{ActiveLineID: lineID})
}

func (h *SessionHandler) CompletePlayback(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctl.CompletePlayback(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.State())
}

// GetVocabCandidates returns the generated items awaiting confirmation.
func (h *SessionHandler) GetVocabCandidates(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	items, state := ctl.PendingVocabulary()
	c.JSON(http.StatusOK, gin.H{"state": string(state), "items": items})
}

func (h *SessionHandler) AcceptVocab(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctl.AcceptVocab(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, ctl.State())
}

func (h *SessionHandler) DeclineVocab(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctl.DeclineVocab(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.State())
}

func (h *SessionHandler) ConfirmVocab(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	var req models.ConfirmVocabRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	added, err := ctl.ConfirmVocab(req.Words)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func (h *SessionHandler) CancelVocab(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctl.CancelVocab(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.State())
}

// Lookup resolves a transcript selection through the dictionary service.
func (h *SessionHandler) Lookup(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	var req models.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := ctl.Lookup(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
