package service

import (
	"context"

	"bullpen/internal/entity"
	"bullpen/internal/models"
)

// RefundQueryService is the read side of refund requests. Transitions run
// through the refund workflow, not here.
type RefundQueryService struct {
	stores *entity.Stores
}

func NewRefundQueryService(stores *entity.Stores) *RefundQueryService {
	return &RefundQueryService{stores: stores}
}

func (s *RefundQueryService) Get(ctx context.Context, id string) (*models.RefundRequest, error) {
	return s.stores.Refunds.GetByID(ctx, id)
}

func (s *RefundQueryService) List(ctx context.Context, status string, limit int) ([]models.RefundRequest, error) {
	if status != "" {
		return s.stores.Refunds.ByStatus(ctx, status)
	}
	return s.stores.Refunds.List(ctx, limit)
}
