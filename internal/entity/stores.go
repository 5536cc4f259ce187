package entity

import (
	"context"

	"bullpen/internal/models"
)

// Entity names as registered in the backend
const (
	nameEvent        = "Event"
	nameTicket       = "EventTicket"
	nameRefund       = "RefundRequest"
	nameAttendee     = "EventAttendee"
	nameCommission   = "EventCommissionTracking"
	nameNotification = "Notification"
	nameUser         = "User"
	nameStock        = "Stock"
	nameWatchlist    = "Watchlist"
	nameInvestment   = "Investment"
	namePoll         = "SentimentPoll"
	namePollVote     = "PollVote"
	nameAlertRule    = "AlertRule"
)

// Stores bundles the typed accessors for every entity the service touches
type Stores struct {
	Events        *EventStore
	Tickets       *TicketStore
	Refunds       *RefundStore
	Attendees     *AttendeeStore
	Commissions   *CommissionStore
	Notifications *NotificationStore
	Users         *UserStore
	Stocks        *StockStore
	Watchlists    *WatchlistStore
	Investments   *InvestmentStore
	Polls         *PollStore
	Alerts        *AlertStore
}

func NewStores(c *Client) *Stores {
	return &Stores{
		Events:        &EventStore{c},
		Tickets:       &TicketStore{c},
		Refunds:       &RefundStore{c},
		Attendees:     &AttendeeStore{c},
		Commissions:   &CommissionStore{c},
		Notifications: &NotificationStore{c},
		Users:         &UserStore{c},
		Stocks:        &StockStore{c},
		Watchlists:    &WatchlistStore{c},
		Investments:   &InvestmentStore{c},
		Polls:         &PollStore{c},
		Alerts:        &AlertStore{c},
	}
}

type EventStore struct{ c *Client }

func (s *EventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := s.c.Get(ctx, nameEvent, id, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventStore) List(ctx context.Context, sort string, limit int) ([]models.Event, error) {
	var events []models.Event
	if err := s.c.List(ctx, nameEvent, sort, limit, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventStore) Filter(ctx context.Context, filter map[string]any, sort string, limit int) ([]models.Event, error) {
	var events []models.Event
	if err := s.c.Filter(ctx, nameEvent, filter, sort, limit, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventStore) Update(ctx context.Context, id string, patch map[string]any) error {
	return s.c.Update(ctx, nameEvent, id, patch)
}

func (s *EventStore) Delete(ctx context.Context, id string) error {
	return s.c.Delete(ctx, nameEvent, id)
}

type TicketStore struct{ c *Client }

func (s *TicketStore) GetByID(ctx context.Context, id string) (*models.EventTicket, error) {
	var ticket models.EventTicket
	if err := s.c.Get(ctx, nameTicket, id, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *TicketStore) ByEvent(ctx context.Context, eventID string) ([]models.EventTicket, error) {
	var tickets []models.EventTicket
	if err := s.c.Filter(ctx, nameTicket, map[string]any{"event_id": eventID}, "purchased_at", 0, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *TicketStore) ActiveByEvent(ctx context.Context, eventID string) ([]models.EventTicket, error) {
	var tickets []models.EventTicket
	filter := map[string]any{"event_id": eventID, "status": models.TicketStatusActive}
	if err := s.c.Filter(ctx, nameTicket, filter, "purchased_at", 0, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// RawByEvent returns tickets as loose maps. Used by analytics, where the
// paid-amount field name is not consistent across backend records.
func (s *TicketStore) RawByEvent(ctx context.Context, eventID string) ([]map[string]any, error) {
	var tickets []map[string]any
	if err := s.c.Filter(ctx, nameTicket, map[string]any{"event_id": eventID}, "", 0, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *TicketStore) Update(ctx context.Context, id string, patch map[string]any) error {
	return s.c.Update(ctx, nameTicket, id, patch)
}

type RefundStore struct{ c *Client }

func (s *RefundStore) GetByID(ctx context.Context, id string) (*models.RefundRequest, error) {
	var req models.RefundRequest
	if err := s.c.Get(ctx, nameRefund, id, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *RefundStore) ByStatus(ctx context.Context, status string) ([]models.RefundRequest, error) {
	var reqs []models.RefundRequest
	if err := s.c.Filter(ctx, nameRefund, map[string]any{"status": status}, "created_at", 0, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *RefundStore) List(ctx context.Context, limit int) ([]models.RefundRequest, error) {
	var reqs []models.RefundRequest
	if err := s.c.List(ctx, nameRefund, "-created_at", limit, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *RefundStore) BulkCreate(ctx context.Context, reqs []models.RefundRequest) error {
	return s.c.BulkCreate(ctx, nameRefund, reqs)
}

func (s *RefundStore) Update(ctx context.Context, id string, patch map[string]any) error {
	return s.c.Update(ctx, nameRefund, id, patch)
}

type AttendeeStore struct{ c *Client }

// ByEvent returns attendees in join order, which is the waitlist FIFO order
func (s *AttendeeStore) ByEvent(ctx context.Context, eventID string) ([]models.EventAttendee, error) {
	var attendees []models.EventAttendee
	if err := s.c.Filter(ctx, nameAttendee, map[string]any{"event_id": eventID}, "joined_at", 0, &attendees); err != nil {
		return nil, err
	}
	return attendees, nil
}

func (s *AttendeeStore) Update(ctx context.Context, id string, patch map[string]any) error {
	return s.c.Update(ctx, nameAttendee, id, patch)
}

type CommissionStore struct{ c *Client }

func (s *CommissionStore) ByEvent(ctx context.Context, eventID string) (*models.EventCommissionTracking, error) {
	var rows []models.EventCommissionTracking
	if err := s.c.Filter(ctx, nameCommission, map[string]any{"event_id": eventID}, "", 1, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

type NotificationStore struct{ c *Client }

func (s *NotificationStore) BulkCreate(ctx context.Context, notifications []models.Notification) error {
	return s.c.BulkCreate(ctx, nameNotification, notifications)
}

func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	return s.c.Create(ctx, nameNotification, n, nil)
}

type UserStore struct{ c *Client }

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var users []models.User
	if err := s.c.Filter(ctx, nameUser, map[string]any{"email": email}, "", 1, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

type StockStore struct{ c *Client }

func (s *StockStore) BySymbol(ctx context.Context, symbol string) (*models.Stock, error) {
	var stocks []models.Stock
	if err := s.c.Filter(ctx, nameStock, map[string]any{"symbol": symbol}, "", 1, &stocks); err != nil {
		return nil, err
	}
	if len(stocks) == 0 {
		return nil, nil
	}
	return &stocks[0], nil
}

func (s *StockStore) List(ctx context.Context) ([]models.Stock, error) {
	var stocks []models.Stock
	if err := s.c.List(ctx, nameStock, "symbol", 0, &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}

type WatchlistStore struct{ c *Client }

func (s *WatchlistStore) GetByID(ctx context.Context, id string) (*models.Watchlist, error) {
	var w models.Watchlist
	if err := s.c.Get(ctx, nameWatchlist, id, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *WatchlistStore) ByUser(ctx context.Context, userID string) ([]models.Watchlist, error) {
	var lists []models.Watchlist
	if err := s.c.Filter(ctx, nameWatchlist, map[string]any{"user_id": userID}, "position", 0, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (s *WatchlistStore) Create(ctx context.Context, w *models.Watchlist) (*models.Watchlist, error) {
	var created models.Watchlist
	if err := s.c.Create(ctx, nameWatchlist, w, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *WatchlistStore) Update(ctx context.Context, id string, patch map[string]any) error {
	return s.c.Update(ctx, nameWatchlist, id, patch)
}

func (s *WatchlistStore) Delete(ctx context.Context, id string) error {
	return s.c.Delete(ctx, nameWatchlist, id)
}

type InvestmentStore struct{ c *Client }

func (s *InvestmentStore) ByUser(ctx context.Context, userID string) ([]models.Investment, error) {
	var rows []models.Investment
	if err := s.c.Filter(ctx, nameInvestment, map[string]any{"user_id": userID}, "traded_at", 0, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *InvestmentStore) Create(ctx context.Context, inv *models.Investment) (*models.Investment, error) {
	var created models.Investment
	if err := s.c.Create(ctx, nameInvestment, inv, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type PollStore struct{ c *Client }

func (s *PollStore) GetByID(ctx context.Context, id string) (*models.SentimentPoll, error) {
	var poll models.SentimentPoll
	if err := s.c.Get(ctx, namePoll, id, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

func (s *PollStore) Update(ctx context.Context, id string, patch map[string]any) error {
	return s.c.Update(ctx, namePoll, id, patch)
}

func (s *PollStore) VoteByUser(ctx context.Context, pollID, userID string) (*models.PollVote, error) {
	var votes []models.PollVote
	filter := map[string]any{"poll_id": pollID, "user_id": userID}
	if err := s.c.Filter(ctx, namePollVote, filter, "", 1, &votes); err != nil {
		return nil, err
	}
	if len(votes) == 0 {
		return nil, nil
	}
	return &votes[0], nil
}

func (s *PollStore) CreateVote(ctx context.Context, vote *models.PollVote) error {
	return s.c.Create(ctx, namePollVote, vote, nil)
}

type AlertStore struct{ c *Client }

func (s *AlertStore) GetByID(ctx context.Context, id string) (*models.AlertRule, error) {
	var rule models.AlertRule
	if err := s.c.Get(ctx, nameAlertRule, id, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *AlertStore) ByUser(ctx context.Context, userID string) ([]models.AlertRule, error) {
	var rules []models.AlertRule
	if err := s.c.Filter(ctx, nameAlertRule, map[string]any{"user_id": userID}, "created_at", 0, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *AlertStore) Create(ctx context.Context, rule *models.AlertRule) (*models.AlertRule, error) {
	var created models.AlertRule
	if err := s.c.Create(ctx, nameAlertRule, rule, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *AlertStore) Update(ctx context.Context, id string, patch map[string]any) error {
	return s.c.Update(ctx, nameAlertRule, id, patch)
}

func (s *AlertStore) Delete(ctx context.Context, id string) error {
	return s.c.Delete(ctx, nameAlertRule, id)
}
