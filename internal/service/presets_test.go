package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"bullpen/internal/apperrors"
	"bullpen/internal/models"
)

func TestPresetsWithoutValkeyAreUnavailable(t *testing.T) {
	svc := NewPresetService(nil)
	ctx := context.Background()

	_, err := svc.List(ctx, "u-1")
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)

	_, err = svc.Save(ctx, "u-1", &models.SavePresetRequest{
		Name:    "premium only",
		Filters: map[string]any{"premium": true},
	})
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)

	assert.ErrorIs(t, svc.Delete(ctx, "u-1", "p-1"), apperrors.ErrUnavailable)
}
