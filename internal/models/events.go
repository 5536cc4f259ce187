package models

import "time"

// NATS event types
const (
	EventEventApproved     = "event.approved"
	EventEventRejected     = "event.rejected"
	EventEventCancelled    = "event.cancelled"
	EventEventUpdated      = "event.updated"
	EventEventDeleted      = "event.deleted"
	EventRefundApproved    = "refund.approved"
	EventRefundRejected    = "refund.rejected"
	EventRefundProcessing  = "refund.processing"
	EventRefundProcessed   = "refund.processed"
	EventAttendeePromoted  = "attendee.promoted"
	EventNotificationsSent = "notifications.sent"
)

// EventStatusChangedEvent is published when an event is approved, rejected or cancelled
type EventStatusChangedEvent struct {
	EventID   string    `json:"event_id"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventCancelledEvent carries the cancellation side-effect counts
type EventCancelledEvent struct {
	EventID         string    `json:"event_id"`
	Reason          string    `json:"reason"`
	AffectedTickets int       `json:"affected_tickets"`
	RefundsCreated  int       `json:"refunds_created"`
	Timestamp       time.Time `json:"timestamp"`
}

// RefundTransitionEvent is published on every refund state machine transition
type RefundTransitionEvent struct {
	RequestID       string    `json:"request_id"`
	TicketID        string    `json:"ticket_id"`
	UserID          string    `json:"user_id"`
	FromStatus      string    `json:"from_status"`
	ToStatus        string    `json:"to_status"`
	ActorID         string    `json:"actor_id,omitempty"`
	GatewayRefundID string    `json:"gateway_refund_id,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// AttendeePromotedEvent is published when a waitlisted attendee is confirmed
type AttendeePromotedEvent struct {
	EventID    string    `json:"event_id"`
	AttendeeID string    `json:"attendee_id"`
	UserID     string    `json:"user_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// NotificationsSentEvent summarizes a fire-and-forget notification batch
type NotificationsSentEvent struct {
	EventID   string    `json:"event_id,omitempty"`
	Kind      string    `json:"kind"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}
