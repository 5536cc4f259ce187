package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bullpen/internal/apperrors"
	"bullpen/internal/entity"
	"bullpen/internal/models"
)

// PortfolioService covers watchlists and manually tracked investments
type PortfolioService struct {
	stores *entity.Stores
}

func NewPortfolioService(stores *entity.Stores) *PortfolioService {
	return &PortfolioService{stores: stores}
}

func (s *PortfolioService) Watchlists(ctx context.Context, userID string) ([]models.Watchlist, error) {
	return s.stores.Watchlists.ByUser(ctx, userID)
}

func (s *PortfolioService) CreateWatchlist(ctx context.Context, userID string, req *models.CreateWatchlistRequest) (*models.Watchlist, error) {
	existing, err := s.stores.Watchlists.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(req.Symbols))
	for _, sym := range req.Symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		if err := s.checkSymbol(ctx, sym); err != nil {
			return nil, err
		}
		symbols = append(symbols, sym)
	}

	list := &models.Watchlist{
		UserID:    userID,
		Name:      req.Name,
		Symbols:   symbols,
		Position:  len(existing) + 1,
		CreatedAt: time.Now(),
	}
	return s.stores.Watchlists.Create(ctx, list)
}

func (s *PortfolioService) DeleteWatchlist(ctx context.Context, userID, listID string) error {
	if _, err := s.owned(ctx, userID, listID); err != nil {
		return err
	}
	return s.stores.Watchlists.Delete(ctx, listID)
}

// AddSymbol appends one symbol. The symbol must exist as a listed stock and
// not already be on the list.
func (s *PortfolioService) AddSymbol(ctx context.Context, userID, listID, symbol string) (*models.Watchlist, error) {
	list, err := s.owned(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.ErrValidation
	}
	if err := s.checkSymbol(ctx, symbol); err != nil {
		return nil, err
	}
	for _, sym := range list.Symbols {
		if sym == symbol {
			return nil, apperrors.ErrAlreadyExists
		}
	}

	list.Symbols = append(list.Symbols, symbol)
	if err := s.stores.Watchlists.Update(ctx, listID, map[string]any{"symbols": list.Symbols}); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *PortfolioService) RemoveSymbol(ctx context.Context, userID, listID, symbol string) (*models.Watchlist, error) {
	list, err := s.owned(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	kept := make([]string, 0, len(list.Symbols))
	found := false
	for _, sym := range list.Symbols {
		if sym == symbol {
			found = true
			continue
		}
		kept = append(kept, sym)
	}
	if !found {
		return nil, apperrors.ErrNotFound
	}

	list.Symbols = kept
	if err := s.stores.Watchlists.Update(ctx, listID, map[string]any{"symbols": kept}); err != nil {
		return nil, err
	}
	return list, nil
}

// ReorderSymbols replaces the symbol order. The new order must be a
// permutation of the current set.
func (s *PortfolioService) ReorderSymbols(ctx context.Context, userID, listID string, symbols []string) (*models.Watchlist, error) {
	list, err := s.owned(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	normalized := make([]string, len(symbols))
	for i, sym := range symbols {
		normalized[i] = strings.ToUpper(strings.TrimSpace(sym))
	}
	if !samePermutation(list.Symbols, normalized) {
		return nil, apperrors.ErrValidation
	}

	list.Symbols = normalized
	if err := s.stores.Watchlists.Update(ctx, listID, map[string]any{"symbols": normalized}); err != nil {
		return nil, err
	}
	return list, nil
}

// RecordInvestment stores one manual buy or sell
func (s *PortfolioService) RecordInvestment(ctx context.Context, userID string, req *models.RecordInvestmentRequest) (*models.Investment, error) {
	side := strings.ToLower(req.Side)
	if side != "buy" && side != "sell" {
		return nil, apperrors.ErrValidation
	}
	if !req.Shares.IsPositive() || req.Price.IsNegative() {
		return nil, apperrors.ErrValidation
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := s.checkSymbol(ctx, symbol); err != nil {
		return nil, err
	}

	tradedAt := time.Now()
	if req.TradedAt != nil {
		tradedAt = *req.TradedAt
	}

	inv := &models.Investment{
		UserID:   userID,
		Symbol:   symbol,
		Side:     side,
		Shares:   req.Shares,
		Price:    req.Price,
		TradedAt: tradedAt,
	}
	return s.stores.Investments.Create(ctx, inv)
}

func (s *PortfolioService) Investments(ctx context.Context, userID string) ([]models.Investment, error) {
	return s.stores.Investments.ByUser(ctx, userID)
}

// Positions aggregates a user's trades into per-symbol holdings using
// average cost. Sells reduce the cost basis proportionally; a fully sold
// symbol is dropped.
func (s *PortfolioService) Positions(ctx context.Context, userID string) ([]models.PositionResponse, error) {
	trades, err := s.stores.Investments.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	type holding struct {
		shares decimal.Decimal
		cost   decimal.Decimal
	}
	holdings := make(map[string]*holding)

	// trades arrive in traded_at order
	for _, t := range trades {
		h := holdings[t.Symbol]
		if h == nil {
			h = &holding{}
			holdings[t.Symbol] = h
		}
		switch t.Side {
		case "buy":
			h.shares = h.shares.Add(t.Shares)
			h.cost = h.cost.Add(t.Shares.Mul(t.Price))
		case "sell":
			if h.shares.IsZero() {
				continue
			}
			sold := t.Shares
			if sold.GreaterThan(h.shares) {
				sold = h.shares
			}
			h.cost = h.cost.Sub(h.cost.Mul(sold).Div(h.shares))
			h.shares = h.shares.Sub(sold)
		}
	}

	symbols := make([]string, 0, len(holdings))
	for sym, h := range holdings {
		if h.shares.IsPositive() {
			symbols = append(symbols, sym)
		}
	}
	sort.Strings(symbols)

	positions := make([]models.PositionResponse, 0, len(symbols))
	for _, sym := range symbols {
		h := holdings[sym]

		var lastPrice decimal.Decimal
		stock, err := s.stores.Stocks.BySymbol(ctx, sym)
		if err != nil {
			return nil, fmt.Errorf("failed to price %s: %w", sym, err)
		}
		if stock != nil {
			lastPrice = stock.LastPrice
		}

		market := h.shares.Mul(lastPrice)
		positions = append(positions, models.PositionResponse{
			Symbol:        sym,
			Shares:        h.shares,
			CostBasis:     h.cost.Round(2),
			MarketValue:   market.Round(2),
			UnrealizedPnL: market.Sub(h.cost).Round(2),
		})
	}

	return positions, nil
}

func (s *PortfolioService) owned(ctx context.Context, userID, listID string) (*models.Watchlist, error) {
	list, err := s.stores.Watchlists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return list, nil
}

func (s *PortfolioService) checkSymbol(ctx context.Context, symbol string) error {
	stock, err := s.stores.Stocks.BySymbol(ctx, symbol)
	if err != nil {
		return err
	}
	if stock == nil {
		return apperrors.ErrNotFound
	}
	return nil
}

func samePermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
		if counts[s] < 0 {
			return false
		}
	}
	return true
}
