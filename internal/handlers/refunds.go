package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bullpen/internal/metrics"
	"bullpen/internal/models"
)

// ListRefunds - GET /api/refunds?status=pending
func (h *Handlers) ListRefunds(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	refunds, err := h.services.Refunds.List(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, refunds)
}

// GetRefund - GET /api/refunds/:id
func (h *Handlers) GetRefund(c *gin.Context) {
	refund, err := h.services.Refunds.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, refund)
}

// ApproveRefund - POST /api/refunds/:id/approve
// Organizer decision: pending -> approved
func (h *Handlers) ApproveRefund(c *gin.Context) {
	if err := h.refunds.Approve(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	metrics.RefundTransitions.WithLabelValues(models.RefundStatusApproved).Inc()
	c.JSON(http.StatusOK, gin.H{"status": models.RefundStatusApproved})
}

// RejectRefund - POST /api/refunds/:id/reject
// Organizer decision: pending -> rejected, reason mandatory
func (h *Handlers) RejectRefund(c *gin.Context) {
	var req models.RejectRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.refunds.Reject(c.Request.Context(), c.Param("id"), actorID(c), req.Reason); err != nil {
		respondError(c, err)
		return
	}
	metrics.RefundTransitions.WithLabelValues(models.RefundStatusRejected).Inc()
	c.JSON(http.StatusOK, gin.H{"status": models.RefundStatusRejected})
}

// ProcessRefund - POST /api/refunds/:id/process
// Admin action: approved -> processing, opens the gateway refund
func (h *Handlers) ProcessRefund(c *gin.Context) {
	if err := h.refunds.StartProcessing(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	metrics.RefundTransitions.WithLabelValues(models.RefundStatusProcessing).Inc()
	c.JSON(http.StatusOK, gin.H{"status": models.RefundStatusProcessing})
}

// gatewayNotification is the payload the payment gateway posts on refund
// completion
type gatewayNotification struct {
	RequestID string `json:"request_id" binding:"required"`
	RefundID  string `json:"refund_id"`
	Status    string `json:"status" binding:"required"`
}

// OnGatewayUpdate - POST /webhooks/gateway
// Settles the refund when the gateway reports completion. Failures stay in
// processing for the settlement poller to retry.
func (h *Handlers) OnGatewayUpdate(c *gin.Context) {
	var n gatewayNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if n.Status != "COMPLETED" {
		c.JSON(http.StatusOK, gin.H{"acknowledged": true})
		return
	}

	if err := h.refunds.Settle(c.Request.Context(), n.RequestID, n.RefundID); err != nil {
		respondError(c, err)
		return
	}
	metrics.RefundTransitions.WithLabelValues(models.RefundStatusProcessed).Inc()
	c.JSON(http.StatusOK, gin.H{"status": models.RefundStatusProcessed})
}
