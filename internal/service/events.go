package service

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bullpen/internal/apperrors"
	"bullpen/internal/cache"
	"bullpen/internal/entity"
	"bullpen/internal/logger"
	"bullpen/internal/messaging"
	"bullpen/internal/models"
	"bullpen/internal/search"
	"bullpen/internal/view"
)

// EventService covers the back-office event list and moderation actions.
// Reads go through a short-lived Valkey cache; every mutation invalidates it.
type EventService struct {
	stores *entity.Stores
	nats   *messaging.NATSClient
	valkey *cache.ValkeyClient
	es     *search.ElasticsearchClient
}

func NewEventService(stores *entity.Stores, natsClient *messaging.NATSClient, valkeyClient *cache.ValkeyClient, esClient *search.ElasticsearchClient) *EventService {
	return &EventService{
		stores: stores,
		nats:   natsClient,
		valkey: valkeyClient,
		es:     esClient,
	}
}

// OverviewResponse is one page of the filtered event list
type OverviewResponse struct {
	Events   []models.Event `json:"events"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Overview returns one page of events matching the list state, as raw JSON
// so cache hits skip the marshal round trip
func (s *EventService) Overview(ctx context.Context, state view.ListState) (json.RawMessage, error) {
	key := overviewCacheKey(state)

	if s.valkey != nil {
		if raw, err := s.valkey.GetOverviewRaw(ctx, key); err == nil {
			return raw, nil
		}
	}

	events, err := s.load(ctx, state.Filters)
	if err != nil {
		return nil, err
	}

	response := OverviewResponse{
		Events:   view.Paginate(events, state.Page, state.PageSize),
		Total:    len(events),
		Page:     state.Page,
		PageSize: state.PageSize,
	}

	raw, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal overview: %w", err)
	}

	if s.valkey != nil {
		s.valkey.SetOverview(ctx, key, json.RawMessage(raw))
	}

	return raw, nil
}

// Filtered returns the full filtered set without paging, for exports
func (s *EventService) Filtered(ctx context.Context, filters view.EventFilters) ([]models.Event, error) {
	return s.load(ctx, filters)
}

// load resolves the event set for a filter state. Text queries go through
// Elasticsearch when it is available; the remaining predicates are applied
// in memory either way.
func (s *EventService) load(ctx context.Context, filters view.EventFilters) ([]models.Event, error) {
	if filters.Query != "" && s.es != nil {
		hits, err := s.es.Search(ctx, filters.Query, filters.Status, 500)
		if err == nil {
			rest := filters
			rest.Query = ""
			rest.Status = ""
			return rest.Apply(hits), nil
		}
		logger.WithContext(ctx).Warn("Search index unavailable, falling back to entity scan", "error", err)
	}

	events, err := s.stores.Events.List(ctx, "-created_at", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return filters.Apply(events), nil
}

func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	return s.stores.Events.GetByID(ctx, id)
}

// Approve moves a pending event to approved
func (s *EventService) Approve(ctx context.Context, eventID, actorID string) error {
	event, err := s.stores.Events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status != models.EventStatusPending {
		return apperrors.ErrInvalidTransition
	}

	if err := s.stores.Events.Update(ctx, eventID, map[string]any{"status": models.EventStatusApproved}); err != nil {
		return fmt.Errorf("failed to approve event: %w", err)
	}

	s.afterMutation(ctx, models.EventEventApproved, models.EventStatusChangedEvent{
		EventID:   eventID,
		Status:    models.EventStatusApproved,
		ActorID:   actorID,
		Timestamp: time.Now(),
	})
	return nil
}

// Reject moves a pending event to rejected. The reason is mandatory and is
// kept on the record.
func (s *EventService) Reject(ctx context.Context, eventID, reason, actorID string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperrors.ErrEmptyReason
	}

	event, err := s.stores.Events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status != models.EventStatusPending {
		return apperrors.ErrInvalidTransition
	}

	patch := map[string]any{
		"status":      models.EventStatusRejected,
		"admin_notes": reason,
	}
	if err := s.stores.Events.Update(ctx, eventID, patch); err != nil {
		return fmt.Errorf("failed to reject event: %w", err)
	}

	s.afterMutation(ctx, models.EventEventRejected, models.EventStatusChangedEvent{
		EventID:   eventID,
		Status:    models.EventStatusRejected,
		Reason:    reason,
		ActorID:   actorID,
		Timestamp: time.Now(),
	})
	return nil
}

// Feature toggles the featured flag and display rank
func (s *EventService) Feature(ctx context.Context, eventID string, featured bool, priority int) error {
	if _, err := s.stores.Events.GetByID(ctx, eventID); err != nil {
		return err
	}

	patch := map[string]any{
		"is_featured":       featured,
		"featured_priority": priority,
	}
	if !featured {
		patch["featured_priority"] = 0
	}
	if err := s.stores.Events.Update(ctx, eventID, patch); err != nil {
		return fmt.Errorf("failed to update featured flag: %w", err)
	}

	s.afterMutation(ctx, models.EventEventUpdated, models.EventStatusChangedEvent{
		EventID:   eventID,
		Timestamp: time.Now(),
	})
	return nil
}

// ReorderFeatured rewrites featured_priority so the first id gets rank 1.
// The writes are independent and run concurrently; a single failure fails
// the batch.
func (s *EventService) ReorderFeatured(ctx context.Context, eventIDs []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range eventIDs {
		rank := i + 1
		eventID := id
		g.Go(func() error {
			patch := map[string]any{
				"is_featured":       true,
				"featured_priority": rank,
			}
			if err := s.stores.Events.Update(gctx, eventID, patch); err != nil {
				return fmt.Errorf("failed to rank event %s: %w", eventID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if s.valkey != nil {
		s.valkey.InvalidateOverview(ctx)
	}
	return nil
}

// Delete removes an event record entirely
func (s *EventService) Delete(ctx context.Context, eventID string) error {
	if err := s.stores.Events.Delete(ctx, eventID); err != nil {
		return err
	}

	s.afterMutation(ctx, models.EventEventDeleted, models.EventStatusChangedEvent{
		EventID:   eventID,
		Timestamp: time.Now(),
	})
	return nil
}

// BulkApprove approves many pending events concurrently
func (s *EventService) BulkApprove(ctx context.Context, eventIDs []string, actorID string) error {
	return s.bulk(ctx, eventIDs, func(gctx context.Context, id string) error {
		return s.Approve(gctx, id, actorID)
	})
}

// BulkReject rejects many pending events with a shared reason
func (s *EventService) BulkReject(ctx context.Context, eventIDs []string, reason, actorID string) error {
	if strings.TrimSpace(reason) == "" {
		return apperrors.ErrEmptyReason
	}
	return s.bulk(ctx, eventIDs, func(gctx context.Context, id string) error {
		return s.Reject(gctx, id, reason, actorID)
	})
}

// BulkDelete deletes many events concurrently
func (s *EventService) BulkDelete(ctx context.Context, eventIDs []string) error {
	return s.bulk(ctx, eventIDs, func(gctx context.Context, id string) error {
		return s.Delete(gctx, id)
	})
}

func (s *EventService) bulk(ctx context.Context, eventIDs []string, op func(context.Context, string) error) error {
	if len(eventIDs) == 0 {
		return apperrors.ErrValidation
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range eventIDs {
		eventID := id
		g.Go(func() error {
			return op(gctx, eventID)
		})
	}
	return g.Wait()
}

func (s *EventService) afterMutation(ctx context.Context, subject string, payload any) {
	if s.valkey != nil {
		s.valkey.InvalidateOverview(ctx)
	}
	if s.nats != nil {
		if err := s.nats.Publish(subject, payload); err != nil {
			logger.WithContext(ctx).Error("Failed to publish event", "subject", subject, "error", err)
		}
	}
}

func overviewCacheKey(state view.ListState) string {
	raw, _ := json.Marshal(state.Filters)
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%x:%d:%d", sum[:8], state.Page, state.PageSize)
}
