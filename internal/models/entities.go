package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event statuses
const (
	EventStatusPending   = "pending"
	EventStatusApproved  = "approved"
	EventStatusRejected  = "rejected"
	EventStatusCancelled = "cancelled"
	EventStatusCompleted = "completed"
)

// Ticket statuses
const (
	TicketStatusActive    = "active"
	TicketStatusCancelled = "cancelled"
	TicketStatusRefunded  = "refunded"
)

// Refund request statuses
const (
	RefundStatusPending    = "pending"
	RefundStatusApproved   = "approved"
	RefundStatusProcessing = "processing"
	RefundStatusProcessed  = "processed"
	RefundStatusRejected   = "rejected"
)

// RSVP statuses
const (
	RSVPYes      = "yes"
	RSVPNo       = "no"
	RSVPMaybe    = "maybe"
	RSVPWaitlist = "waitlist"
)

// Event represents a schedulable, possibly-paid gathering
type Event struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      *string         `json:"description,omitempty"`
	Category         string          `json:"category"`
	Status           string          `json:"status"`
	IsPremium        bool            `json:"is_premium"`
	TicketPrice      decimal.Decimal `json:"ticket_price"`
	Capacity         int             `json:"capacity"`
	OrganizerID      string          `json:"organizer_id"`
	IsFeatured       bool            `json:"is_featured"`
	FeaturedPriority int             `json:"featured_priority"`
	AdminNotes       string          `json:"admin_notes,omitempty"`
	StartTime        time.Time       `json:"start_time"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Unlimited reports whether the event has no capacity limit
func (e *Event) Unlimited() bool {
	return e.Capacity <= 0
}

// EventTicket represents one purchased admission
type EventTicket struct {
	ID            string          `json:"id"`
	EventID       string          `json:"event_id"`
	UserID        string          `json:"user_id"`
	TicketPrice   decimal.Decimal `json:"ticket_price"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	PurchasedAt   time.Time       `json:"purchased_at"`
}

// RefundRequest represents one claim for money back tied to a ticket
type RefundRequest struct {
	ID              string          `json:"id"`
	RelatedEntityID string          `json:"related_entity_id"`
	UserID          string          `json:"user_id"`
	RefundAmount    decimal.Decimal `json:"refund_amount"`
	RefundType      string          `json:"refund_type"`
	Status          string          `json:"status"`
	ReasonCategory  string          `json:"reason_category"`
	AdminNotes      string          `json:"admin_notes,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	AutoTriggered   bool            `json:"auto_triggered"`
	ProcessedBy     string          `json:"processed_by,omitempty"`
	ProcessedDate   *time.Time      `json:"processed_date,omitempty"`
	GatewayRefundID string          `json:"gateway_refund_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Terminal reports whether no further transition may leave the current status
func (r *RefundRequest) Terminal() bool {
	return r.Status == RefundStatusRejected || r.Status == RefundStatusProcessed
}

// EventAttendee represents an RSVP record, independent of payment
type EventAttendee struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	RSVPStatus string    `json:"rsvp_status"`
	Confirmed  bool      `json:"confirmed"`
	JoinedAt   time.Time `json:"joined_at"`
}

// EventCommissionTracking is the backend's per-event financial rollup (read-only here)
type EventCommissionTracking struct {
	ID                 string          `json:"id"`
	EventID            string          `json:"event_id"`
	GrossRevenue       decimal.Decimal `json:"gross_revenue"`
	PlatformCommission decimal.Decimal `json:"platform_commission"`
	OrganizerPayout    decimal.Decimal `json:"organizer_payout"`
	PayoutStatus       string          `json:"payout_status"`
}

// Notification is a one-way message to a user
type Notification struct {
	ID      string `json:"id,omitempty"`
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Status  string `json:"status"`
}

// User represents a platform user
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Stock represents a listed security
type Stock struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	LastPrice decimal.Decimal `json:"last_price"`
}

// Watchlist is a named, ordered set of stock symbols owned by a user
type Watchlist struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Symbols   []string  `json:"symbols"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Investment is a manually tracked buy or sell of a security
type Investment struct {
	ID       string          `json:"id"`
	UserID   string          `json:"user_id"`
	Symbol   string          `json:"symbol"`
	Side     string          `json:"side"`
	Shares   decimal.Decimal `json:"shares"`
	Price    decimal.Decimal `json:"price"`
	TradedAt time.Time       `json:"traded_at"`
}

// SentimentPoll is a community bull/bear poll attached to a stock
type SentimentPoll struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Question  string    `json:"question"`
	BullVotes int       `json:"bull_votes"`
	BearVotes int       `json:"bear_votes"`
	Status    string    `json:"status"`
	ClosesAt  time.Time `json:"closes_at"`
}

// PollVote is a single user's vote on a sentiment poll
type PollVote struct {
	ID     string `json:"id,omitempty"`
	PollID string `json:"poll_id"`
	UserID string `json:"user_id"`
	Choice string `json:"choice"`
}

// AlertRule is a user-configured price alert
type AlertRule struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Symbol    string          `json:"symbol"`
	Condition string          `json:"condition"`
	Threshold decimal.Decimal `json:"threshold"`
	Enabled   bool            `json:"enabled"`
	CreatedAt time.Time       `json:"created_at"`
}
