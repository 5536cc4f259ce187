package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bullpen/internal/models"
)

// GetPoll - GET /api/polls/:id
func (h *Handlers) GetPoll(c *gin.Context) {
	poll, err := h.services.Polls.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, poll)
}

// VotePoll - POST /api/polls/:id/vote
func (h *Handlers) VotePoll(c *gin.Context) {
	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tally, err := h.services.Polls.Vote(c.Request.Context(), c.Param("id"), actorID(c), req.Choice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}

// PollTally - GET /api/polls/:id/tally
func (h *Handlers) PollTally(c *gin.Context) {
	tally, err := h.services.Polls.Tally(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}

// ListAlerts - GET /api/alerts
func (h *Handlers) ListAlerts(c *gin.Context) {
	rules, err := h.services.Alerts.List(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// CreateAlert - POST /api/alerts
func (h *Handlers) CreateAlert(c *gin.Context) {
	var req models.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.services.Alerts.Create(c.Request.Context(), actorID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// SetAlertEnabled - PATCH /api/alerts/:id
func (h *Handlers) SetAlertEnabled(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Alerts.SetEnabled(c.Request.Context(), actorID(c), c.Param("id"), *req.Enabled); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": *req.Enabled})
}

// DeleteAlert - DELETE /api/alerts/:id
func (h *Handlers) DeleteAlert(c *gin.Context) {
	if err := h.services.Alerts.Delete(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
