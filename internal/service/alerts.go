package service

import (
	"context"
	"strings"
	"time"

	"bullpen/internal/apperrors"
	"bullpen/internal/entity"
	"bullpen/internal/models"
)

const (
	AlertConditionAbove = "above"
	AlertConditionBelow = "below"
)

// AlertService manages user-configured price alert rules. Evaluation against
// market data happens elsewhere; this is the rule CRUD.
type AlertService struct {
	stores *entity.Stores
}

func NewAlertService(stores *entity.Stores) *AlertService {
	return &AlertService{stores: stores}
}

func (s *AlertService) List(ctx context.Context, userID string) ([]models.AlertRule, error) {
	return s.stores.Alerts.ByUser(ctx, userID)
}

func (s *AlertService) Create(ctx context.Context, userID string, req *models.CreateAlertRequest) (*models.AlertRule, error) {
	condition := strings.ToLower(req.Condition)
	if condition != AlertConditionAbove && condition != AlertConditionBelow {
		return nil, apperrors.ErrValidation
	}
	if !req.Threshold.IsPositive() {
		return nil, apperrors.ErrValidation
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	stock, err := s.stores.Stocks.BySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, apperrors.ErrNotFound
	}

	rule := &models.AlertRule{
		UserID:    userID,
		Symbol:    symbol,
		Condition: condition,
		Threshold: req.Threshold,
		Enabled:   true,
		CreatedAt: time.Now(),
	}
	return s.stores.Alerts.Create(ctx, rule)
}

func (s *AlertService) SetEnabled(ctx context.Context, userID, ruleID string, enabled bool) error {
	if _, err := s.owned(ctx, userID, ruleID); err != nil {
		return err
	}
	return s.stores.Alerts.Update(ctx, ruleID, map[string]any{"enabled": enabled})
}

func (s *AlertService) Delete(ctx context.Context, userID, ruleID string) error {
	if _, err := s.owned(ctx, userID, ruleID); err != nil {
		return err
	}
	return s.stores.Alerts.Delete(ctx, ruleID)
}

func (s *AlertService) owned(ctx context.Context, userID, ruleID string) (*models.AlertRule, error) {
	rule, err := s.stores.Alerts.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return rule, nil
}
