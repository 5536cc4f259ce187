package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/nats-io/stan.go"

	"bullpen/internal/apperrors"
	"bullpen/internal/entity"
	"bullpen/internal/models"
	"bullpen/internal/search"
)

type Handlers struct {
	stores *entity.Stores
	es     *search.ElasticsearchClient
}

func NewHandlers(stores *entity.Stores, esClient *search.ElasticsearchClient) *Handlers {
	return &Handlers{
		stores: stores,
		es:     esClient,
	}
}

// HandleEventChanged re-indexes an event after any status or content change.
// The entity record is the source of truth, so the payload only carries the id.
func (h *Handlers) HandleEventChanged(m *stan.Msg) {
	var event models.EventStatusChangedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal event change", "error", err)
		return
	}

	if h.es == nil {
		m.Ack()
		return
	}

	ctx := context.Background()
	record, err := h.stores.Events.GetByID(ctx, event.EventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Deleted between publish and consume; drop the doc instead
			if err := h.es.DeleteEvent(ctx, event.EventID); err != nil {
				slog.Error("Failed to remove stale event doc", "event_id", event.EventID, "error", err)
				return
			}
			m.Ack()
			return
		}
		slog.Error("Failed to load event for indexing", "event_id", event.EventID, "error", err)
		return
	}

	if err := h.es.IndexEvent(ctx, record); err != nil {
		slog.Error("Failed to index event", "event_id", event.EventID, "error", err)
		return
	}

	slog.Info("Event re-indexed", "event_id", event.EventID, "status", record.Status)
	m.Ack()
}

// HandleEventDeleted drops the event from the search index
func (h *Handlers) HandleEventDeleted(m *stan.Msg) {
	var event models.EventStatusChangedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal event deletion", "error", err)
		return
	}

	if h.es != nil {
		if err := h.es.DeleteEvent(context.Background(), event.EventID); err != nil {
			slog.Error("Failed to delete event doc", "event_id", event.EventID, "error", err)
			return
		}
	}

	slog.Info("Event removed from index", "event_id", event.EventID)
	m.Ack()
}

// HandleRefundProcessed is the audit tap for settled refunds
func (h *Handlers) HandleRefundProcessed(m *stan.Msg) {
	var transition models.RefundTransitionEvent
	if err := json.Unmarshal(m.Data, &transition); err != nil {
		slog.Error("Failed to unmarshal refund transition", "error", err)
		return
	}

	slog.Info("Refund settled",
		"request_id", transition.RequestID,
		"ticket_id", transition.TicketID,
		"user_id", transition.UserID,
		"gateway_refund_id", transition.GatewayRefundID)

	m.Ack()
}

// HandleAttendeePromoted logs waitlist promotions for the audit trail
func (h *Handlers) HandleAttendeePromoted(m *stan.Msg) {
	var promoted models.AttendeePromotedEvent
	if err := json.Unmarshal(m.Data, &promoted); err != nil {
		slog.Error("Failed to unmarshal promotion event", "error", err)
		return
	}

	slog.Info("Attendee promoted from waitlist",
		"event_id", promoted.EventID,
		"attendee_id", promoted.AttendeeID,
		"user_id", promoted.UserID)

	m.Ack()
}

// HandleNotificationsSent logs notification batch summaries
func (h *Handlers) HandleNotificationsSent(m *stan.Msg) {
	var summary models.NotificationsSentEvent
	if err := json.Unmarshal(m.Data, &summary); err != nil {
		slog.Error("Failed to unmarshal notification summary", "error", err)
		return
	}

	slog.Info("Notification batch sent",
		"kind", summary.Kind,
		"event_id", summary.EventID,
		"count", summary.Count)

	m.Ack()
}
