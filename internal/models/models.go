package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CancelEventRequest - request to cancel an event with its side effects
type CancelEventRequest struct {
	Reason          string `json:"reason" binding:"required"`
	NotifyAttendees *bool  `json:"notify_attendees,omitempty"`
	ProcessRefunds  *bool  `json:"process_refunds,omitempty"`
}

// CancelEventResponse reports the outcome of a cancellation
type CancelEventResponse struct {
	EventID          string `json:"event_id"`
	AffectedTickets  int    `json:"affected_tickets"`
	RefundsCreated   int    `json:"refunds_created"`
	AlreadyCancelled bool   `json:"already_cancelled"`
}

// RejectRefundRequest - organizer rejection with mandatory reason
type RejectRefundRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RejectEventRequest - admin rejection of a pending event
type RejectEventRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// UpdateCapacityRequest - change an event's capacity
type UpdateCapacityRequest struct {
	Capacity int `json:"capacity"`
}

// PromoteRequest - promote waitlisted attendees
type PromoteRequest struct {
	Count         int    `json:"count,omitempty"`
	AttendeeID    string `json:"attendee_id,omitempty"`
	AllowOverflow bool   `json:"allow_overflow,omitempty"`
}

// PromoteResponse reports how many attendees were promoted
type PromoteResponse struct {
	Promoted int `json:"promoted"`
}

// BulkEventsRequest - ids for a bulk approve/reject/delete/feature action
type BulkEventsRequest struct {
	EventIDs []string `json:"event_ids" binding:"required"`
	Reason   string   `json:"reason,omitempty"`
}

// FeatureEventRequest - mark an event featured with a display rank
type FeatureEventRequest struct {
	Featured bool `json:"featured"`
	Priority int  `json:"priority,omitempty"`
}

// ReorderFeaturedRequest - new featured_priority order, first id = rank 1
type ReorderFeaturedRequest struct {
	EventIDs []string `json:"event_ids" binding:"required"`
}

// EventAnalyticsResponse - per-event financial and attendance rollup
type EventAnalyticsResponse struct {
	EventID            string          `json:"event_id"`
	TicketsSold        int             `json:"tickets_sold"`
	TicketsRefunded    int             `json:"tickets_refunded"`
	GrossRevenue       decimal.Decimal `json:"gross_revenue"`
	PlatformCommission decimal.Decimal `json:"platform_commission"`
	OrganizerPayout    decimal.Decimal `json:"organizer_payout"`
	RefundedTotal      decimal.Decimal `json:"refunded_total"`
	AmountField        string          `json:"amount_field,omitempty"`
	PayoutStatus       string          `json:"payout_status,omitempty"`
}

// FilterPreset - a named, saved filter configuration
type FilterPreset struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Filters   map[string]any `json:"filters"`
	CreatedAt time.Time      `json:"createdAt"`
}

// SavePresetRequest - create a filter preset
type SavePresetRequest struct {
	Name    string         `json:"name" binding:"required"`
	Filters map[string]any `json:"filters" binding:"required"`
}

// CreateWatchlistRequest - create a watchlist
type CreateWatchlistRequest struct {
	Name    string   `json:"name" binding:"required"`
	Symbols []string `json:"symbols,omitempty"`
}

// WatchlistSymbolRequest - add or remove one symbol
type WatchlistSymbolRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// ReorderWatchlistRequest - new symbol order for a watchlist
type ReorderWatchlistRequest struct {
	Symbols []string `json:"symbols" binding:"required"`
}

// RecordInvestmentRequest - record a manual buy or sell
type RecordInvestmentRequest struct {
	Symbol   string          `json:"symbol" binding:"required"`
	Side     string          `json:"side" binding:"required"`
	Shares   decimal.Decimal `json:"shares" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	TradedAt *time.Time      `json:"traded_at,omitempty"`
}

// PositionResponse - computed holding for one symbol
type PositionResponse struct {
	Symbol        string          `json:"symbol"`
	Shares        decimal.Decimal `json:"shares"`
	CostBasis     decimal.Decimal `json:"cost_basis"`
	MarketValue   decimal.Decimal `json:"market_value"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
}

// VoteRequest - cast a sentiment poll vote
type VoteRequest struct {
	Choice string `json:"choice" binding:"required"`
}

// PollTallyResponse - current poll standings
type PollTallyResponse struct {
	PollID    string `json:"poll_id"`
	BullVotes int    `json:"bull_votes"`
	BearVotes int    `json:"bear_votes"`
}

// CreateAlertRequest - configure a price alert
type CreateAlertRequest struct {
	Symbol    string          `json:"symbol" binding:"required"`
	Condition string          `json:"condition" binding:"required"`
	Threshold decimal.Decimal `json:"threshold" binding:"required"`
}
