package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bullpen/internal/entity"
	"bullpen/internal/logger"
	"bullpen/internal/models"
)

// amountFieldCandidates are the ticket field names that may carry the paid
// amount. Backend records are not consistent, so the rollup probes them in
// order and uses the first field present on the data.
var amountFieldCandidates = []string{
	"ticket_price", "price_paid", "amount", "paid_amount", "total_price",
}

// AnalyticsService computes per-event financial rollups from raw ticket
// records, falling back to the configured commission rate when the backend
// has no tracking row.
type AnalyticsService struct {
	stores         *entity.Stores
	commissionRate decimal.Decimal
}

func NewAnalyticsService(stores *entity.Stores, commissionRatePct string) *AnalyticsService {
	rate, err := decimal.NewFromString(commissionRatePct)
	if err != nil {
		logger.Get().Warn("Invalid commission rate, using 10%", "value", commissionRatePct)
		rate = decimal.NewFromInt(10)
	}
	return &AnalyticsService{
		stores:         stores,
		commissionRate: rate.Div(decimal.NewFromInt(100)),
	}
}

// EventAnalytics returns the financial and attendance rollup for one event
func (s *AnalyticsService) EventAnalytics(ctx context.Context, eventID string) (*models.EventAnalyticsResponse, error) {
	if _, err := s.stores.Events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	tickets, err := s.stores.Tickets.RawByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}

	field := detectAmountField(tickets)
	if field == "" && len(tickets) > 0 {
		logger.WithContext(ctx).Warn("No amount field found on tickets, revenue will be zero",
			"event_id", eventID, "candidates", amountFieldCandidates)
	}

	resp := &models.EventAnalyticsResponse{
		EventID:     eventID,
		AmountField: field,
	}

	for _, t := range tickets {
		status, _ := t["status"].(string)
		amount := amountOf(t, field)

		switch status {
		case models.TicketStatusCancelled:
			// cancelled tickets never counted as sold
		case models.TicketStatusRefunded:
			resp.TicketsSold++
			resp.TicketsRefunded++
			resp.GrossRevenue = resp.GrossRevenue.Add(amount)
			resp.RefundedTotal = resp.RefundedTotal.Add(amount)
		default:
			resp.TicketsSold++
			resp.GrossRevenue = resp.GrossRevenue.Add(amount)
		}
	}

	resp.PlatformCommission = resp.GrossRevenue.Mul(s.commissionRate).Round(2)
	resp.OrganizerPayout = resp.GrossRevenue.Sub(resp.PlatformCommission)

	// Prefer the backend rollup when one exists. A mismatch is logged but
	// the backend numbers win: payouts are settled against them.
	tracking, err := s.stores.Commissions.ByEvent(ctx, eventID)
	if err != nil {
		logger.WithContext(ctx).Warn("Failed to load commission tracking", "event_id", eventID, "error", err)
	} else if tracking != nil {
		if !tracking.GrossRevenue.Equal(resp.GrossRevenue) {
			logger.WithContext(ctx).Warn("Computed revenue differs from backend rollup",
				"event_id", eventID,
				"computed", resp.GrossRevenue.String(),
				"tracked", tracking.GrossRevenue.String())
		}
		resp.GrossRevenue = tracking.GrossRevenue
		resp.PlatformCommission = tracking.PlatformCommission
		resp.OrganizerPayout = tracking.OrganizerPayout
		resp.PayoutStatus = tracking.PayoutStatus
	}

	return resp, nil
}

// detectAmountField returns the first candidate field that appears with a
// usable value on any ticket
func detectAmountField(tickets []map[string]any) string {
	for _, field := range amountFieldCandidates {
		for _, t := range tickets {
			if v, ok := t[field]; ok {
				if _, ok := toDecimal(v); ok {
					return field
				}
			}
		}
	}
	return ""
}

func amountOf(ticket map[string]any, field string) decimal.Decimal {
	if field == "" {
		return decimal.Zero
	}
	if d, ok := toDecimal(ticket[field]); ok {
		return d
	}
	return decimal.Zero
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	default:
		return decimal.Zero, false
	}
}
