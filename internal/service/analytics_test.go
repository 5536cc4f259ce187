package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullpen/internal/entity"
	"bullpen/internal/models"
)

// entityBackend is a minimal in-process stand-in for the entity API
func entityBackend(t *testing.T, routes map[string]any) *entity.Stores {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return entity.NewStores(entity.NewClient(entity.Config{BaseURL: srv.URL}))
}

func TestDetectAmountFieldProbesInOrder(t *testing.T) {
	tickets := []map[string]any{
		{"id": "t1", "status": "active", "price_paid": 40.0},
		{"id": "t2", "status": "active", "price_paid": "35.50"},
	}
	assert.Equal(t, "price_paid", detectAmountField(tickets))

	// ticket_price wins when both are present
	tickets[0]["ticket_price"] = 42.0
	assert.Equal(t, "ticket_price", detectAmountField(tickets))

	assert.Equal(t, "", detectAmountField([]map[string]any{{"id": "t1", "cost": 10.0}}))
	assert.Equal(t, "", detectAmountField(nil))
}

func TestToDecimalAcceptsNumbersAndStrings(t *testing.T) {
	d, ok := toDecimal(12.5)
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))

	d, ok = toDecimal("99.99")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("99.99")))

	_, ok = toDecimal("not a number")
	assert.False(t, ok)

	_, ok = toDecimal(nil)
	assert.False(t, ok)
}

func TestEventAnalyticsRollup(t *testing.T) {
	stores := entityBackend(t, map[string]any{
		"/Event/ev-1": models.Event{ID: "ev-1", IsPremium: true},
		"/EventTicket/query": []map[string]any{
			{"id": "t1", "status": "active", "price_paid": 100.0},
			{"id": "t2", "status": "active", "price_paid": 100.0},
			{"id": "t3", "status": "refunded", "price_paid": 100.0},
			{"id": "t4", "status": "cancelled", "price_paid": 100.0},
		},
		"/EventCommissionTracking/query": []models.EventCommissionTracking{},
	})

	svc := NewAnalyticsService(stores, "10")
	resp, err := svc.EventAnalytics(context.Background(), "ev-1")
	require.NoError(t, err)

	assert.Equal(t, "price_paid", resp.AmountField)
	assert.Equal(t, 3, resp.TicketsSold)
	assert.Equal(t, 1, resp.TicketsRefunded)
	assert.True(t, resp.GrossRevenue.Equal(decimal.NewFromInt(300)), "gross %s", resp.GrossRevenue)
	assert.True(t, resp.PlatformCommission.Equal(decimal.NewFromInt(30)), "commission %s", resp.PlatformCommission)
	assert.True(t, resp.OrganizerPayout.Equal(decimal.NewFromInt(270)), "payout %s", resp.OrganizerPayout)
	assert.True(t, resp.RefundedTotal.Equal(decimal.NewFromInt(100)), "refunded %s", resp.RefundedTotal)
}

func TestEventAnalyticsPrefersBackendRollup(t *testing.T) {
	stores := entityBackend(t, map[string]any{
		"/Event/ev-1": models.Event{ID: "ev-1"},
		"/EventTicket/query": []map[string]any{
			{"id": "t1", "status": "active", "ticket_price": 100.0},
		},
		"/EventCommissionTracking/query": []models.EventCommissionTracking{{
			ID:                 "ct-1",
			EventID:            "ev-1",
			GrossRevenue:       decimal.NewFromInt(120),
			PlatformCommission: decimal.NewFromInt(12),
			OrganizerPayout:    decimal.NewFromInt(108),
			PayoutStatus:       "paid",
		}},
	})

	svc := NewAnalyticsService(stores, "10")
	resp, err := svc.EventAnalytics(context.Background(), "ev-1")
	require.NoError(t, err)

	// Backend numbers win over the computed ones
	assert.True(t, resp.GrossRevenue.Equal(decimal.NewFromInt(120)))
	assert.True(t, resp.PlatformCommission.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, "paid", resp.PayoutStatus)

	// Attendance counters still come from the tickets themselves
	assert.Equal(t, 1, resp.TicketsSold)
}

func TestEventAnalyticsNoTickets(t *testing.T) {
	stores := entityBackend(t, map[string]any{
		"/Event/ev-1":                    models.Event{ID: "ev-1"},
		"/EventTicket/query":             []map[string]any{},
		"/EventCommissionTracking/query": []models.EventCommissionTracking{},
	})

	svc := NewAnalyticsService(stores, "10")
	resp, err := svc.EventAnalytics(context.Background(), "ev-1")
	require.NoError(t, err)

	assert.Equal(t, 0, resp.TicketsSold)
	assert.True(t, resp.GrossRevenue.IsZero())
	assert.Equal(t, "", resp.AmountField)
}
