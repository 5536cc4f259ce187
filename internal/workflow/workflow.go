package workflow

import (
	"context"

	"bullpen/internal/external"
	"bullpen/internal/models"
	"bullpen/internal/repository"

	"github.com/shopspring/decimal"
)

// The workflows accept narrow store interfaces so the state machines can be
// exercised without a live entity backend. The concrete implementations are
// the typed stores in internal/entity.

type EventStore interface {
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Update(ctx context.Context, id string, patch map[string]any) error
}

type TicketStore interface {
	GetByID(ctx context.Context, id string) (*models.EventTicket, error)
	ActiveByEvent(ctx context.Context, eventID string) ([]models.EventTicket, error)
	Update(ctx context.Context, id string, patch map[string]any) error
}

type RefundStore interface {
	GetByID(ctx context.Context, id string) (*models.RefundRequest, error)
	ByStatus(ctx context.Context, status string) ([]models.RefundRequest, error)
	BulkCreate(ctx context.Context, reqs []models.RefundRequest) error
	Update(ctx context.Context, id string, patch map[string]any) error
}

type AttendeeStore interface {
	ByEvent(ctx context.Context, eventID string) ([]models.EventAttendee, error)
	Update(ctx context.Context, id string, patch map[string]any) error
}

type NotificationStore interface {
	BulkCreate(ctx context.Context, notifications []models.Notification) error
	Create(ctx context.Context, n *models.Notification) error
}

// Journal is the workflow run log backed by postgres
type Journal interface {
	Begin(ctx context.Context, run *repository.WorkflowRun) (bool, error)
	Step(ctx context.Context, id int64, stepsCompleted int) error
	Complete(ctx context.Context, id int64, affected int) error
	Fail(ctx context.Context, id int64, cause error) error
}

// Publisher emits bus events on workflow transitions
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// Locker serializes capacity mutations per event
type Locker interface {
	AcquireEventLock(ctx context.Context, eventID string) (bool, error)
	ReleaseEventLock(ctx context.Context, eventID string)
}

// Gateway executes refunds at the payment provider
type Gateway interface {
	InitRefund(amount decimal.Decimal, requestID, currency, description string) (*external.RefundInitResponse, error)
	CheckRefund(requestID string) (*external.RefundStatusResponse, error)
}
