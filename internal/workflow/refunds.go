package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bullpen/internal/apperrors"
	"bullpen/internal/logger"
	"bullpen/internal/models"
)

// RefundWorkflow drives a refund request through its state machine:
//
//	pending -> approved -> processing -> processed
//	pending -> rejected
//
// rejected and processed are terminal. The organizer decides whether a
// refund is warranted; only the platform admin moves money, which is the
// reason for the approve/process split.
type RefundWorkflow struct {
	refunds  RefundStore
	tickets  TicketStore
	notifier *Notifier
	gateway  Gateway
	pub      Publisher
}

func NewRefundWorkflow(refunds RefundStore, tickets TicketStore, notifier *Notifier, gateway Gateway, pub Publisher) *RefundWorkflow {
	return &RefundWorkflow{
		refunds:  refunds,
		tickets:  tickets,
		notifier: notifier,
		gateway:  gateway,
		pub:      pub,
	}
}

// Approve moves pending -> approved (organizer action)
func (w *RefundWorkflow) Approve(ctx context.Context, requestID, organizerID string) error {
	req, err := w.refunds.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get refund request: %w", err)
	}
	if req.Status != models.RefundStatusPending {
		return apperrors.ErrInvalidTransition
	}

	patch := map[string]any{
		"status":       models.RefundStatusApproved,
		"processed_by": organizerID,
	}
	if err := w.refunds.Update(ctx, requestID, patch); err != nil {
		return fmt.Errorf("failed to approve refund request: %w", err)
	}

	req.Status = models.RefundStatusApproved
	req.ProcessedBy = organizerID
	w.notifier.RefundDecision(ctx, req)
	w.publishTransition(req, models.RefundStatusPending, organizerID)

	return nil
}

// Reject moves pending -> rejected (organizer action, terminal). An empty
// reason is rejected before any write.
func (w *RefundWorkflow) Reject(ctx context.Context, requestID, organizerID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperrors.ErrEmptyReason
	}

	req, err := w.refunds.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get refund request: %w", err)
	}
	if req.Status != models.RefundStatusPending {
		return apperrors.ErrInvalidTransition
	}

	patch := map[string]any{
		"status":           models.RefundStatusRejected,
		"rejection_reason": reason,
		"processed_by":     organizerID,
	}
	if err := w.refunds.Update(ctx, requestID, patch); err != nil {
		return fmt.Errorf("failed to reject refund request: %w", err)
	}

	req.Status = models.RefundStatusRejected
	req.RejectionReason = reason
	w.notifier.RefundDecision(ctx, req)
	w.publishTransition(req, models.RefundStatusPending, organizerID)

	return nil
}

// StartProcessing moves approved -> processing (admin action). The gateway
// refund is opened here; settlement happens asynchronously.
func (w *RefundWorkflow) StartProcessing(ctx context.Context, requestID, adminID string) error {
	req, err := w.refunds.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get refund request: %w", err)
	}
	if req.Status != models.RefundStatusApproved {
		return apperrors.ErrInvalidTransition
	}

	if _, err := w.gateway.InitRefund(req.RefundAmount, req.ID, "USD", "Ticket refund"); err != nil {
		return fmt.Errorf("failed to open gateway refund: %w", err)
	}

	now := time.Now()
	patch := map[string]any{
		"status":         models.RefundStatusProcessing,
		"processed_by":   adminID,
		"processed_date": now,
	}
	if err := w.refunds.Update(ctx, requestID, patch); err != nil {
		return fmt.Errorf("failed to mark refund processing: %w", err)
	}

	req.Status = models.RefundStatusProcessing
	req.ProcessedDate = &now
	w.publishTransition(req, models.RefundStatusApproved, adminID)

	return nil
}

// Settle moves processing -> processed once the gateway reports completion.
// Invoked by the gateway webhook or the settlement poller.
func (w *RefundWorkflow) Settle(ctx context.Context, requestID, gatewayRefundID string) error {
	req, err := w.refunds.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get refund request: %w", err)
	}
	if req.Status != models.RefundStatusProcessing {
		return apperrors.ErrInvalidTransition
	}

	patch := map[string]any{
		"status":            models.RefundStatusProcessed,
		"gateway_refund_id": gatewayRefundID,
	}
	if err := w.refunds.Update(ctx, requestID, patch); err != nil {
		return fmt.Errorf("failed to mark refund processed: %w", err)
	}

	// Flip the underlying ticket; a failure here is logged, not retried
	if err := w.tickets.Update(ctx, req.RelatedEntityID, map[string]any{"status": models.TicketStatusRefunded}); err != nil {
		logger.WithWorkflow("refund.settle", req.ID).Error("Failed to mark ticket refunded",
			"error", err,
			"ticket_id", req.RelatedEntityID)
	}

	req.Status = models.RefundStatusProcessed
	req.GatewayRefundID = gatewayRefundID
	w.notifier.RefundSettled(ctx, req)
	w.publishTransition(req, models.RefundStatusProcessing, "")

	return nil
}

// SettleDue polls the gateway for every request stuck in processing and
// settles the ones the gateway has completed. Returns the settled count.
func (w *RefundWorkflow) SettleDue(ctx context.Context) (int, error) {
	processing, err := w.refunds.ByStatus(ctx, models.RefundStatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to list processing refunds: %w", err)
	}

	settled := 0
	for _, req := range processing {
		status, err := w.gateway.CheckRefund(req.ID)
		if err != nil {
			logger.WithWorkflow("refund.settle", req.ID).Error("Gateway status check failed", "error", err)
			continue
		}
		if status.Status != "COMPLETED" {
			continue
		}

		if err := w.Settle(ctx, req.ID, status.RefundID); err != nil {
			logger.WithWorkflow("refund.settle", req.ID).Error("Failed to settle refund", "error", err)
			continue
		}
		settled++
	}

	return settled, nil
}

func (w *RefundWorkflow) publishTransition(req *models.RefundRequest, from, actorID string) {
	if w.pub == nil {
		return
	}

	subjects := map[string]string{
		models.RefundStatusApproved:   models.EventRefundApproved,
		models.RefundStatusRejected:   models.EventRefundRejected,
		models.RefundStatusProcessing: models.EventRefundProcessing,
		models.RefundStatusProcessed:  models.EventRefundProcessed,
	}
	subject, ok := subjects[req.Status]
	if !ok {
		return
	}

	transition := models.RefundTransitionEvent{
		RequestID:       req.ID,
		TicketID:        req.RelatedEntityID,
		UserID:          req.UserID,
		FromStatus:      from,
		ToStatus:        req.Status,
		ActorID:         actorID,
		GatewayRefundID: req.GatewayRefundID,
		Timestamp:       time.Now(),
	}

	if err := w.pub.Publish(subject, transition); err != nil {
		logger.Get().Error("Failed to publish refund transition",
			"error", err,
			"request_id", req.ID,
			"to_status", req.Status)
	}
}
