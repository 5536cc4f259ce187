package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bullpen/internal/export"
	"bullpen/internal/metrics"
	"bullpen/internal/models"
	"bullpen/internal/view"
	"bullpen/internal/workflow"
)

// ListEvents - GET /api/events
// Filtered, paginated event overview
func (h *Handlers) ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	state := view.NewListState().
		WithFilters(filtersFromQuery(c)).
		WithPage(page).
		WithPageSize(pageSize)

	raw, err := h.services.Events.Overview(c.Request.Context(), state)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	event, err := h.services.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// ApproveEvent - POST /api/events/:id/approve
func (h *Handlers) ApproveEvent(c *gin.Context) {
	if err := h.services.Events.Approve(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.EventStatusApproved})
}

// RejectEvent - POST /api/events/:id/reject
func (h *Handlers) RejectEvent(c *gin.Context) {
	var req models.RejectEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Events.Reject(c.Request.Context(), c.Param("id"), req.Reason, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.EventStatusRejected})
}

// CancelEvent - POST /api/events/:id/cancel
// Runs the full cancellation workflow: status flip, refunds, notifications
func (h *Handlers) CancelEvent(c *gin.Context) {
	var req models.CancelEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Notifications default on, refunds default off (forced on for paid
	// events with outstanding tickets inside the workflow)
	notify := true
	if req.NotifyAttendees != nil {
		notify = *req.NotifyAttendees
	}
	processRefunds := false
	if req.ProcessRefunds != nil {
		processRefunds = *req.ProcessRefunds
	}

	response, err := h.cancellation.Cancel(c.Request.Context(), workflow.CancellationInput{
		EventID:         c.Param("id"),
		Reason:          req.Reason,
		NotifyAttendees: notify,
		ProcessRefunds:  processRefunds,
		ActorID:         actorID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if !response.AlreadyCancelled {
		metrics.EventCancellations.Inc()
	}
	c.JSON(http.StatusOK, response)
}

// DeleteEvent - DELETE /api/events/:id
func (h *Handlers) DeleteEvent(c *gin.Context) {
	if err := h.services.Events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FeatureEvent - PATCH /api/events/:id/feature
func (h *Handlers) FeatureEvent(c *gin.Context) {
	var req models.FeatureEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Events.Feature(c.Request.Context(), c.Param("id"), req.Featured, req.Priority); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"featured": req.Featured})
}

// ReorderFeatured - PUT /api/events/featured/order
func (h *Handlers) ReorderFeatured(c *gin.Context) {
	var req models.ReorderFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Events.ReorderFeatured(c.Request.Context(), req.EventIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ordered": len(req.EventIDs)})
}

// BulkApproveEvents - POST /api/events/bulk/approve
func (h *Handlers) BulkApproveEvents(c *gin.Context) {
	var req models.BulkEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Events.BulkApprove(c.Request.Context(), req.EventIDs, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": len(req.EventIDs)})
}

// BulkRejectEvents - POST /api/events/bulk/reject
func (h *Handlers) BulkRejectEvents(c *gin.Context) {
	var req models.BulkEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Events.BulkReject(c.Request.Context(), req.EventIDs, req.Reason, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": len(req.EventIDs)})
}

// BulkDeleteEvents - POST /api/events/bulk/delete
func (h *Handlers) BulkDeleteEvents(c *gin.Context) {
	var req models.BulkEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Events.BulkDelete(c.Request.Context(), req.EventIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": len(req.EventIDs)})
}

// UpdateCapacity - PATCH /api/events/:id/capacity
func (h *Handlers) UpdateCapacity(c *gin.Context) {
	var req models.UpdateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.capacity.UpdateCapacity(c.Request.Context(), c.Param("id"), req.Capacity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"capacity": req.Capacity})
}

// PromoteWaitlist - POST /api/events/:id/promote
// Promotes one named attendee, or the first N in join order
func (h *Handlers) PromoteWaitlist(c *gin.Context) {
	var req models.PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventID := c.Param("id")
	ctx := c.Request.Context()

	if req.AttendeeID != "" {
		if err := h.capacity.PromoteOne(ctx, eventID, req.AttendeeID, req.AllowOverflow); err != nil {
			respondError(c, err)
			return
		}
		metrics.WaitlistPromotions.Inc()
		c.JSON(http.StatusOK, models.PromoteResponse{Promoted: 1})
		return
	}

	count := req.Count
	if count <= 0 {
		count = 1
	}
	promoted, err := h.capacity.PromoteMany(ctx, eventID, count)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.WaitlistPromotions.Add(float64(promoted))
	c.JSON(http.StatusOK, models.PromoteResponse{Promoted: promoted})
}

// EventAnalytics - GET /api/events/:id/analytics
func (h *Handlers) EventAnalytics(c *gin.Context) {
	resp, err := h.services.Analytics.EventAnalytics(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportEvents - GET /api/events/export?format=csv|html
// Downloads the current filtered set, unpaginated
func (h *Handlers) ExportEvents(c *gin.Context) {
	filters := filtersFromQuery(c)
	events, err := h.services.Events.Filtered(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}

	stamp := time.Now().Format("2006-01-02")
	switch c.DefaultQuery("format", "csv") {
	case "html":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=events-%s.html", stamp))
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := export.WriteHTML(c.Writer, events); err != nil {
			_ = c.Error(err)
		}
	case "csv":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=events-%s.csv", stamp))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		if err := export.WriteCSV(c.Writer, events); err != nil {
			_ = c.Error(err)
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown format"})
	}
}

// ListPresets - GET /api/presets
func (h *Handlers) ListPresets(c *gin.Context) {
	presets, err := h.services.Presets.List(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, presets)
}

// SavePreset - POST /api/presets
func (h *Handlers) SavePreset(c *gin.Context) {
	var req models.SavePresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preset, err := h.services.Presets.Save(c.Request.Context(), actorID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, preset)
}

// DeletePreset - DELETE /api/presets/:id
func (h *Handlers) DeletePreset(c *gin.Context) {
	if err := h.services.Presets.Delete(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// filtersFromQuery parses the filter query params shared by the overview
// and export endpoints
func filtersFromQuery(c *gin.Context) view.EventFilters {
	filters := view.EventFilters{
		Status:      c.Query("status"),
		Category:    c.Query("category"),
		OrganizerID: c.Query("organizer_id"),
		Query:       c.Query("query"),
	}

	if v := c.Query("premium"); v != "" {
		premium := v == "true"
		filters.Premium = &premium
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		filters.Featured = &featured
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.To = &t
		}
	}

	return filters
}
