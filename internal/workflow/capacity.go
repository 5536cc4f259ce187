package workflow

import (
	"context"
	"fmt"
	"time"

	"bullpen/internal/apperrors"
	"bullpen/internal/logger"
	"bullpen/internal/models"
)

// CapacityManager keeps the invariant that confirmed attendees never exceed
// event capacity (capacity <= 0 means unlimited), and promotes waitlisted
// attendees in join order when room opens up. Mutations run under a short
// per-event lock so two admins cannot both act on stale counts.
type CapacityManager struct {
	events    EventStore
	attendees AttendeeStore
	notifier  *Notifier
	locker    Locker
	pub       Publisher
}

func NewCapacityManager(events EventStore, attendees AttendeeStore, notifier *Notifier, locker Locker, pub Publisher) *CapacityManager {
	return &CapacityManager{
		events:    events,
		attendees: attendees,
		notifier:  notifier,
		locker:    locker,
		pub:       pub,
	}
}

// UpdateCapacity changes an event's capacity. Shrinking below the current
// confirmed count is rejected without a write.
func (m *CapacityManager) UpdateCapacity(ctx context.Context, eventID string, newCap int) error {
	if newCap < 0 {
		newCap = 0
	}

	attendees, err := m.attendees.ByEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load attendees: %w", err)
	}

	yes := confirmedCount(attendees)
	if newCap > 0 && newCap < yes {
		return apperrors.ErrCapacityTooLow
	}

	if err := m.events.Update(ctx, eventID, map[string]any{"capacity": newCap}); err != nil {
		return fmt.Errorf("failed to update capacity: %w", err)
	}

	return nil
}

// PromoteOne confirms a single waitlisted attendee. Promoting past capacity
// requires allowOverflow.
func (m *CapacityManager) PromoteOne(ctx context.Context, eventID, attendeeID string, allowOverflow bool) error {
	if _, err := m.locker.AcquireEventLock(ctx, eventID); err != nil {
		return err
	}
	defer m.locker.ReleaseEventLock(ctx, eventID)

	event, err := m.events.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}

	attendees, err := m.attendees.ByEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load attendees: %w", err)
	}

	var target *models.EventAttendee
	for i := range attendees {
		if attendees[i].ID == attendeeID {
			target = &attendees[i]
			break
		}
	}
	if target == nil {
		return apperrors.ErrNotFound
	}
	if target.RSVPStatus != models.RSVPWaitlist {
		return apperrors.ErrInvalidTransition
	}

	if !event.Unlimited() && !allowOverflow {
		if confirmedCount(attendees) >= event.Capacity {
			return apperrors.ErrCapacityFull
		}
	}

	return m.promote(ctx, event, target)
}

// PromoteMany confirms up to n waitlisted attendees in join order. The
// promoted count is min(n, waitlist length, available spots). Each
// promotion is followed by its notification before the next begins.
func (m *CapacityManager) PromoteMany(ctx context.Context, eventID string, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	if _, err := m.locker.AcquireEventLock(ctx, eventID); err != nil {
		return 0, err
	}
	defer m.locker.ReleaseEventLock(ctx, eventID)

	event, err := m.events.GetByID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to get event: %w", err)
	}

	attendees, err := m.attendees.ByEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to load attendees: %w", err)
	}

	// ByEvent returns join order, so the waitlist slice is already FIFO
	var waitlist []models.EventAttendee
	for _, a := range attendees {
		if a.RSVPStatus == models.RSVPWaitlist {
			waitlist = append(waitlist, a)
		}
	}

	quota := n
	if len(waitlist) < quota {
		quota = len(waitlist)
	}
	if !event.Unlimited() {
		available := event.Capacity - confirmedCount(attendees)
		if available < 0 {
			available = 0
		}
		if available < quota {
			quota = available
		}
	}

	promoted := 0
	for i := 0; i < quota; i++ {
		if err := m.promote(ctx, event, &waitlist[i]); err != nil {
			return promoted, fmt.Errorf("failed to promote attendee %s: %w", waitlist[i].ID, err)
		}
		promoted++
	}

	return promoted, nil
}

func (m *CapacityManager) promote(ctx context.Context, event *models.Event, attendee *models.EventAttendee) error {
	patch := map[string]any{
		"rsvp_status": models.RSVPYes,
		"confirmed":   true,
	}
	if err := m.attendees.Update(ctx, attendee.ID, patch); err != nil {
		return err
	}

	attendee.RSVPStatus = models.RSVPYes
	attendee.Confirmed = true
	m.notifier.Promoted(ctx, event, attendee)

	if m.pub != nil {
		promoted := models.AttendeePromotedEvent{
			EventID:    event.ID,
			AttendeeID: attendee.ID,
			UserID:     attendee.UserID,
			Timestamp:  time.Now(),
		}
		if err := m.pub.Publish(models.EventAttendeePromoted, promoted); err != nil {
			logger.WithWorkflow("capacity.promote", event.ID).Error("Failed to publish promotion event", "error", err)
		}
	}

	return nil
}

func confirmedCount(attendees []models.EventAttendee) int {
	count := 0
	for _, a := range attendees {
		if a.RSVPStatus == models.RSVPYes {
			count++
		}
	}
	return count
}
