package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullpen/internal/apperrors"
	"bullpen/internal/models"
)

func capacityFixture(capacity, confirmed, waitlisted int) (*fakeEventStore, *fakeAttendeeStore) {
	events := newFakeEventStore(&models.Event{
		ID:       "ev-1",
		Title:    "Earnings Call Watch Party",
		Status:   models.EventStatusApproved,
		Capacity: capacity,
	})

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var attendees []*models.EventAttendee
	for i := 0; i < confirmed; i++ {
		attendees = append(attendees, &models.EventAttendee{
			ID:         "yes-" + string(rune('a'+i)),
			EventID:    "ev-1",
			UserID:     "u-yes-" + string(rune('a'+i)),
			RSVPStatus: models.RSVPYes,
			Confirmed:  true,
			JoinedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}
	for i := 0; i < waitlisted; i++ {
		attendees = append(attendees, &models.EventAttendee{
			ID:         "wl-" + string(rune('a'+i)),
			EventID:    "ev-1",
			UserID:     "u-wl-" + string(rune('a'+i)),
			RSVPStatus: models.RSVPWaitlist,
			JoinedAt:   base.Add(time.Hour + time.Duration(i)*time.Minute),
		})
	}

	return events, newFakeAttendeeStore(attendees...)
}

func newCapacityManager(events *fakeEventStore, attendees *fakeAttendeeStore, locker *fakeLocker, notifications *fakeNotificationStore) *CapacityManager {
	return NewCapacityManager(events, attendees, NewNotifier(notifications, nil), locker, nil)
}

func TestPromoteManyFillsOnlyAvailableSpots(t *testing.T) {
	// capacity 10, 8 confirmed, 5 waitlisted: only 2 spots open
	events, attendees := capacityFixture(10, 8, 5)
	locker := &fakeLocker{}
	notifications := &fakeNotificationStore{}
	m := newCapacityManager(events, attendees, locker, notifications)

	promoted, err := m.PromoteMany(context.Background(), "ev-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, promoted)

	// Earliest joiners first
	all, _ := attendees.ByEvent(context.Background(), "ev-1")
	statuses := map[string]string{}
	for _, a := range all {
		statuses[a.ID] = a.RSVPStatus
	}
	assert.Equal(t, models.RSVPYes, statuses["wl-a"])
	assert.Equal(t, models.RSVPYes, statuses["wl-b"])
	assert.Equal(t, models.RSVPWaitlist, statuses["wl-c"])
	assert.Equal(t, models.RSVPWaitlist, statuses["wl-d"])
	assert.Equal(t, models.RSVPWaitlist, statuses["wl-e"])

	// One notification per promotion, lock released
	assert.Equal(t, 2, notifications.total())
	assert.Equal(t, 1, locker.acquired)
	assert.Equal(t, 1, locker.released)
}

func TestPromoteManyUnlimitedCapacity(t *testing.T) {
	events, attendees := capacityFixture(0, 8, 3)
	m := newCapacityManager(events, attendees, &fakeLocker{}, &fakeNotificationStore{})

	promoted, err := m.PromoteMany(context.Background(), "ev-1", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, promoted)
}

func TestPromoteManyLockDenied(t *testing.T) {
	events, attendees := capacityFixture(10, 0, 2)
	m := newCapacityManager(events, attendees, &fakeLocker{denied: true}, &fakeNotificationStore{})

	promoted, err := m.PromoteMany(context.Background(), "ev-1", 2)
	require.Error(t, err)
	assert.Equal(t, 0, promoted)
}

func TestPromoteOneRespectsCapacity(t *testing.T) {
	events, attendees := capacityFixture(8, 8, 2)
	m := newCapacityManager(events, attendees, &fakeLocker{}, &fakeNotificationStore{})

	err := m.PromoteOne(context.Background(), "ev-1", "wl-a", false)
	assert.ErrorIs(t, err, apperrors.ErrCapacityFull)

	// Overflow is an explicit organizer decision
	err = m.PromoteOne(context.Background(), "ev-1", "wl-a", true)
	require.NoError(t, err)
}

func TestPromoteOneRejectsNonWaitlisted(t *testing.T) {
	events, attendees := capacityFixture(10, 2, 1)
	m := newCapacityManager(events, attendees, &fakeLocker{}, &fakeNotificationStore{})

	err := m.PromoteOne(context.Background(), "ev-1", "yes-a", false)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestUpdateCapacityBelowConfirmedRejected(t *testing.T) {
	events, attendees := capacityFixture(10, 8, 0)
	m := newCapacityManager(events, attendees, &fakeLocker{}, &fakeNotificationStore{})

	err := m.UpdateCapacity(context.Background(), "ev-1", 5)
	assert.ErrorIs(t, err, apperrors.ErrCapacityTooLow)

	event, _ := events.GetByID(context.Background(), "ev-1")
	assert.Equal(t, 10, event.Capacity)
}

func TestUpdateCapacityShrinkToConfirmedAllowed(t *testing.T) {
	events, attendees := capacityFixture(10, 8, 0)
	m := newCapacityManager(events, attendees, &fakeLocker{}, &fakeNotificationStore{})

	require.NoError(t, m.UpdateCapacity(context.Background(), "ev-1", 8))

	event, _ := events.GetByID(context.Background(), "ev-1")
	assert.Equal(t, 8, event.Capacity)
}

func TestUpdateCapacityNegativeMeansUnlimited(t *testing.T) {
	events, attendees := capacityFixture(10, 8, 0)
	m := newCapacityManager(events, attendees, &fakeLocker{}, &fakeNotificationStore{})

	require.NoError(t, m.UpdateCapacity(context.Background(), "ev-1", -1))

	event, _ := events.GetByID(context.Background(), "ev-1")
	assert.True(t, event.Unlimited())
}
