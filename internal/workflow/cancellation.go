package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bullpen/internal/apperrors"
	"bullpen/internal/logger"
	"bullpen/internal/models"
	"bullpen/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const kindEventCancel = "event.cancel"

// CancellationWorkflow transitions an event to cancelled and runs its
// financial and notification side effects as one journaled saga. The steps
// are sequential, not atomic: a failed step leaves earlier writes in place,
// recorded in the journal rather than rolled back.
type CancellationWorkflow struct {
	events   EventStore
	tickets  TicketStore
	refunds  RefundStore
	notifier *Notifier
	journal  Journal
	pub      Publisher
}

func NewCancellationWorkflow(events EventStore, tickets TicketStore, refunds RefundStore, notifier *Notifier, journal Journal, pub Publisher) *CancellationWorkflow {
	return &CancellationWorkflow{
		events:   events,
		tickets:  tickets,
		refunds:  refunds,
		notifier: notifier,
		journal:  journal,
		pub:      pub,
	}
}

type CancellationInput struct {
	EventID         string
	Reason          string
	NotifyAttendees bool
	ProcessRefunds  bool
	ActorID         string
}

func (w *CancellationWorkflow) Cancel(ctx context.Context, in CancellationInput) (*models.CancelEventResponse, error) {
	// Reject before any mutation
	if strings.TrimSpace(in.Reason) == "" {
		return nil, apperrors.ErrEmptyReason
	}

	event, err := w.events.GetByID(ctx, in.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if event.Status == models.EventStatusCancelled {
		return &models.CancelEventResponse{EventID: event.ID, AlreadyCancelled: true}, nil
	}

	activeTickets, err := w.tickets.ActiveByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active tickets: %w", err)
	}

	// Hard business rule: a paid event with outstanding tickets always
	// refunds, whatever the caller asked for.
	processRefunds := in.ProcessRefunds
	if event.IsPremium && len(activeTickets) > 0 {
		processRefunds = true
	}

	run := &repository.WorkflowRun{
		RunID:          uuid.New().String(),
		Kind:           kindEventCancel,
		SubjectID:      event.ID,
		IdempotencyKey: kindEventCancel + ":" + event.ID,
	}
	started, err := w.journal.Begin(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal run: %w", err)
	}
	if !started {
		// A previous invocation already ran this saga; creating a second
		// batch of refunds would double-pay every ticket holder.
		return &models.CancelEventResponse{EventID: event.ID, AlreadyCancelled: true}, nil
	}

	log := logger.WithWorkflow(kindEventCancel, event.ID)

	// Step 1: flip the event itself
	patch := map[string]any{
		"status":      models.EventStatusCancelled,
		"admin_notes": in.Reason,
	}
	if err := w.events.Update(ctx, event.ID, patch); err != nil {
		w.journal.Fail(ctx, run.ID, err)
		return nil, fmt.Errorf("failed to cancel event: %w", err)
	}
	w.journal.Step(ctx, run.ID, 1)

	// Step 2: refunds for paid events
	refundsCreated := 0
	if processRefunds && event.IsPremium && len(activeTickets) > 0 {
		if err := w.createRefunds(ctx, event, activeTickets, in.Reason); err != nil {
			w.journal.Fail(ctx, run.ID, err)
			return nil, err
		}
		refundsCreated = len(activeTickets)

		if err := w.cancelTickets(ctx, activeTickets); err != nil {
			w.journal.Fail(ctx, run.ID, err)
			return nil, err
		}
	} else if len(activeTickets) > 0 {
		if err := w.cancelTickets(ctx, activeTickets); err != nil {
			w.journal.Fail(ctx, run.ID, err)
			return nil, err
		}
	}
	w.journal.Step(ctx, run.ID, 2)

	// Step 3: attendee notifications, fire-and-forget
	if in.NotifyAttendees && len(activeTickets) > 0 {
		w.notifier.EventCancelled(ctx, event, activeTickets, refundsCreated > 0)
	}
	w.journal.Step(ctx, run.ID, 3)

	if err := w.journal.Complete(ctx, run.ID, len(activeTickets)); err != nil {
		log.Error("Failed to close journal run", "error", err)
	}

	if w.pub != nil {
		cancelled := models.EventCancelledEvent{
			EventID:         event.ID,
			Reason:          in.Reason,
			AffectedTickets: len(activeTickets),
			RefundsCreated:  refundsCreated,
			Timestamp:       time.Now(),
		}
		if err := w.pub.Publish(models.EventEventCancelled, cancelled); err != nil {
			log.Error("Failed to publish cancellation event", "error", err)
		}
	}

	log.Info("Event cancelled",
		"affected_tickets", len(activeTickets),
		"refunds_created", refundsCreated,
		"notified", in.NotifyAttendees)

	return &models.CancelEventResponse{
		EventID:         event.ID,
		AffectedTickets: len(activeTickets),
		RefundsCreated:  refundsCreated,
	}, nil
}

// createRefunds synthesizes one pre-approved full refund per active ticket.
// Cancellation refunds skip the organizer review that user-initiated
// requests go through.
func (w *CancellationWorkflow) createRefunds(ctx context.Context, event *models.Event, tickets []models.EventTicket, reason string) error {
	requests := make([]models.RefundRequest, len(tickets))
	for i, ticket := range tickets {
		requests[i] = models.RefundRequest{
			RelatedEntityID: ticket.ID,
			UserID:          ticket.UserID,
			RefundAmount:    ticket.TicketPrice,
			RefundType:      "full",
			Status:          models.RefundStatusApproved,
			ReasonCategory:  "event_cancelled",
			AdminNotes:      reason,
			AutoTriggered:   true,
		}
	}

	if err := w.refunds.BulkCreate(ctx, requests); err != nil {
		return fmt.Errorf("failed to create refund requests: %w", err)
	}
	return nil
}

// cancelTickets flips every active ticket to cancelled. The updates are
// independent concurrent writes awaited together; one failure fails the
// batch with no per-ticket reporting.
func (w *CancellationWorkflow) cancelTickets(ctx context.Context, tickets []models.EventTicket) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, ticket := range tickets {
		id := ticket.ID
		g.Go(func() error {
			return w.tickets.Update(gctx, id, map[string]any{"status": models.TicketStatusCancelled})
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to cancel tickets: %w", err)
	}
	return nil
}
