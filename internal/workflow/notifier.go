package workflow

import (
	"context"
	"fmt"
	"time"

	"bullpen/internal/logger"
	"bullpen/internal/metrics"
	"bullpen/internal/models"
)

const refundETA = "5-7 business days"

// Notifier creates user-facing notifications as workflow side effects.
// Delivery is fire-and-forget: a failed write is logged, never propagated,
// and nothing ever reads the notifications back.
type Notifier struct {
	store     NotificationStore
	publisher Publisher
}

func NewNotifier(store NotificationStore, publisher Publisher) *Notifier {
	return &Notifier{store: store, publisher: publisher}
}

// EventCancelled notifies every affected ticket holder about a cancellation
func (n *Notifier) EventCancelled(ctx context.Context, event *models.Event, tickets []models.EventTicket, refunded bool) {
	if len(tickets) == 0 {
		return
	}

	message := fmt.Sprintf("%q has been cancelled.", event.Title)
	if refunded {
		message = fmt.Sprintf("%q has been cancelled. Your ticket will be refunded within %s.", event.Title, refundETA)
	}

	notifications := make([]models.Notification, len(tickets))
	for i, ticket := range tickets {
		notifications[i] = models.Notification{
			UserID:  ticket.UserID,
			Title:   "Event cancelled",
			Message: message,
			Type:    "event_cancellation",
			Status:  "unread",
		}
	}

	if err := n.store.BulkCreate(ctx, notifications); err != nil {
		logger.WithContext(ctx).Error("Failed to create cancellation notifications",
			"error", err,
			"event_id", event.ID,
			"count", len(notifications))
		return
	}

	n.publishSummary(event.ID, "event_cancellation", len(notifications))
}

// RefundDecision notifies the requester about an organizer decision
func (n *Notifier) RefundDecision(ctx context.Context, req *models.RefundRequest) {
	var title, message string
	switch req.Status {
	case models.RefundStatusApproved:
		title = "Refund request approved"
		message = fmt.Sprintf("Your refund request for %s has been approved and queued for processing.", req.RefundAmount.StringFixed(2))
	case models.RefundStatusRejected:
		title = "Refund request rejected"
		message = fmt.Sprintf("Your refund request was rejected: %s", req.RejectionReason)
	default:
		return
	}

	notification := &models.Notification{
		UserID:  req.UserID,
		Title:   title,
		Message: message,
		Type:    "refund_decision",
		Status:  "unread",
	}

	if err := n.store.Create(ctx, notification); err != nil {
		logger.WithContext(ctx).Error("Failed to create refund decision notification",
			"error", err,
			"request_id", req.ID)
		return
	}

	n.publishSummary("", "refund_decision", 1)
}

// RefundSettled notifies the requester that money is on its way
func (n *Notifier) RefundSettled(ctx context.Context, req *models.RefundRequest) {
	notification := &models.Notification{
		UserID:  req.UserID,
		Title:   "Refund processed",
		Message: fmt.Sprintf("Your refund of %s has been processed. Expect it within %s.", req.RefundAmount.StringFixed(2), refundETA),
		Type:    "refund_processed",
		Status:  "unread",
	}

	if err := n.store.Create(ctx, notification); err != nil {
		logger.WithContext(ctx).Error("Failed to create refund settled notification",
			"error", err,
			"request_id", req.ID)
		return
	}

	n.publishSummary("", "refund_processed", 1)
}

// Promoted notifies a waitlisted attendee who got a confirmed spot
func (n *Notifier) Promoted(ctx context.Context, event *models.Event, attendee *models.EventAttendee) {
	notification := &models.Notification{
		UserID:  attendee.UserID,
		Title:   "You're in!",
		Message: fmt.Sprintf("A spot opened up for %q and you have been moved off the waitlist.", event.Title),
		Type:    "waitlist_promotion",
		Status:  "unread",
	}

	if err := n.store.Create(ctx, notification); err != nil {
		logger.WithContext(ctx).Error("Failed to create promotion notification",
			"error", err,
			"event_id", event.ID,
			"attendee_id", attendee.ID)
		return
	}

	n.publishSummary(event.ID, "waitlist_promotion", 1)
}

func (n *Notifier) publishSummary(eventID, kind string, count int) {
	metrics.NotificationsSent.Add(float64(count))

	if n.publisher == nil {
		return
	}

	summary := models.NotificationsSentEvent{
		EventID:   eventID,
		Kind:      kind,
		Count:     count,
		Timestamp: time.Now(),
	}

	if err := n.publisher.Publish(models.EventNotificationsSent, summary); err != nil {
		logger.Get().Error("Failed to publish notification summary",
			"error", err,
			"kind", kind)
	}
}
