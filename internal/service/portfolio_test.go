package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullpen/internal/apperrors"
	"bullpen/internal/entity"
	"bullpen/internal/models"
)

// portfolioBackend serves trades for one user and resolves stocks by the
// symbol in the query filter
func portfolioBackend(t *testing.T, trades []models.Investment, stocks map[string]models.Stock) *entity.Stores {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Investment/query":
			json.NewEncoder(w).Encode(trades)
		case "/Stock/query":
			var q entity.Query
			require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
			symbol, _ := q.Filter["symbol"].(string)
			if stock, ok := stocks[symbol]; ok {
				json.NewEncoder(w).Encode([]models.Stock{stock})
				return
			}
			json.NewEncoder(w).Encode([]models.Stock{})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return entity.NewStores(entity.NewClient(entity.Config{BaseURL: srv.URL}))
}

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestPositionsAverageCost(t *testing.T) {
	trades := []models.Investment{
		{UserID: "u-1", Symbol: "AAPL", Side: "buy", Shares: decimal.NewFromInt(10), Price: decimal.NewFromInt(100), TradedAt: day(1)},
		{UserID: "u-1", Symbol: "AAPL", Side: "buy", Shares: decimal.NewFromInt(10), Price: decimal.NewFromInt(200), TradedAt: day(2)},
		// sell half at avg cost 150: basis drops from 3000 to 1500
		{UserID: "u-1", Symbol: "AAPL", Side: "sell", Shares: decimal.NewFromInt(10), Price: decimal.NewFromInt(250), TradedAt: day(3)},
	}
	stocks := map[string]models.Stock{
		"AAPL": {Symbol: "AAPL", LastPrice: decimal.NewFromInt(300)},
	}

	svc := NewPortfolioService(portfolioBackend(t, trades, stocks))
	positions, err := svc.Positions(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	assert.Equal(t, "AAPL", p.Symbol)
	assert.True(t, p.Shares.Equal(decimal.NewFromInt(10)), "shares %s", p.Shares)
	assert.True(t, p.CostBasis.Equal(decimal.NewFromInt(1500)), "basis %s", p.CostBasis)
	assert.True(t, p.MarketValue.Equal(decimal.NewFromInt(3000)), "market %s", p.MarketValue)
	assert.True(t, p.UnrealizedPnL.Equal(decimal.NewFromInt(1500)), "pnl %s", p.UnrealizedPnL)
}

func TestPositionsFullySoldSymbolDropped(t *testing.T) {
	trades := []models.Investment{
		{UserID: "u-1", Symbol: "GME", Side: "buy", Shares: decimal.NewFromInt(5), Price: decimal.NewFromInt(20), TradedAt: day(1)},
		{UserID: "u-1", Symbol: "GME", Side: "sell", Shares: decimal.NewFromInt(5), Price: decimal.NewFromInt(400), TradedAt: day(2)},
	}

	svc := NewPortfolioService(portfolioBackend(t, trades, nil))
	positions, err := svc.Positions(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestPositionsOversellClampedToHeldShares(t *testing.T) {
	trades := []models.Investment{
		{UserID: "u-1", Symbol: "TSLA", Side: "buy", Shares: decimal.NewFromInt(3), Price: decimal.NewFromInt(100), TradedAt: day(1)},
		{UserID: "u-1", Symbol: "TSLA", Side: "sell", Shares: decimal.NewFromInt(10), Price: decimal.NewFromInt(100), TradedAt: day(2)},
	}

	svc := NewPortfolioService(portfolioBackend(t, trades, nil))
	positions, err := svc.Positions(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestRecordInvestmentValidation(t *testing.T) {
	svc := NewPortfolioService(portfolioBackend(t, nil, map[string]models.Stock{
		"AAPL": {Symbol: "AAPL", LastPrice: decimal.NewFromInt(300)},
	}))
	ctx := context.Background()

	_, err := svc.RecordInvestment(ctx, "u-1", &models.RecordInvestmentRequest{
		Symbol: "AAPL", Side: "hold", Shares: decimal.NewFromInt(1), Price: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.RecordInvestment(ctx, "u-1", &models.RecordInvestmentRequest{
		Symbol: "AAPL", Side: "buy", Shares: decimal.Zero, Price: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// unknown symbol
	_, err = svc.RecordInvestment(ctx, "u-1", &models.RecordInvestmentRequest{
		Symbol: "ZZZZ", Side: "buy", Shares: decimal.NewFromInt(1), Price: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSamePermutation(t *testing.T) {
	assert.True(t, samePermutation([]string{"A", "B", "C"}, []string{"C", "A", "B"}))
	assert.True(t, samePermutation(nil, nil))
	assert.False(t, samePermutation([]string{"A", "B"}, []string{"A"}))
	assert.False(t, samePermutation([]string{"A", "B"}, []string{"A", "A"}))
	assert.False(t, samePermutation([]string{"A", "B"}, []string{"A", "C"}))
}
