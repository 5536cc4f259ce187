package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bullpen/internal/models"
)

// ListWatchlists - GET /api/watchlists
func (h *Handlers) ListWatchlists(c *gin.Context) {
	lists, err := h.services.Portfolio.Watchlists(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

// CreateWatchlist - POST /api/watchlists
func (h *Handlers) CreateWatchlist(c *gin.Context) {
	var req models.CreateWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.services.Portfolio.CreateWatchlist(c.Request.Context(), actorID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// DeleteWatchlist - DELETE /api/watchlists/:id
func (h *Handlers) DeleteWatchlist(c *gin.Context) {
	if err := h.services.Portfolio.DeleteWatchlist(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddWatchlistSymbol - POST /api/watchlists/:id/symbols
func (h *Handlers) AddWatchlistSymbol(c *gin.Context) {
	var req models.WatchlistSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.services.Portfolio.AddSymbol(c.Request.Context(), actorID(c), c.Param("id"), req.Symbol)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RemoveWatchlistSymbol - DELETE /api/watchlists/:id/symbols/:symbol
func (h *Handlers) RemoveWatchlistSymbol(c *gin.Context) {
	list, err := h.services.Portfolio.RemoveSymbol(c.Request.Context(), actorID(c), c.Param("id"), c.Param("symbol"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ReorderWatchlist - PUT /api/watchlists/:id/symbols
func (h *Handlers) ReorderWatchlist(c *gin.Context) {
	var req models.ReorderWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.services.Portfolio.ReorderSymbols(c.Request.Context(), actorID(c), c.Param("id"), req.Symbols)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListInvestments - GET /api/investments
func (h *Handlers) ListInvestments(c *gin.Context) {
	trades, err := h.services.Portfolio.Investments(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trades)
}

// RecordInvestment - POST /api/investments
func (h *Handlers) RecordInvestment(c *gin.Context) {
	var req models.RecordInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.services.Portfolio.RecordInvestment(c.Request.Context(), actorID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// ListPositions - GET /api/investments/positions
func (h *Handlers) ListPositions(c *gin.Context) {
	positions, err := h.services.Portfolio.Positions(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, positions)
}
