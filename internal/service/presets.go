package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bullpen/internal/apperrors"
	"bullpen/internal/cache"
	"bullpen/internal/models"
)

// PresetService stores per-user saved filter configurations in Valkey under
// one key per user, replacing what the frontend used to keep in local storage.
type PresetService struct {
	valkey *cache.ValkeyClient
}

func NewPresetService(valkeyClient *cache.ValkeyClient) *PresetService {
	return &PresetService{valkey: valkeyClient}
}

func (s *PresetService) List(ctx context.Context, userID string) ([]models.FilterPreset, error) {
	if s.valkey == nil {
		return nil, apperrors.ErrUnavailable
	}
	return s.valkey.GetPresets(ctx, userID)
}

// Save appends a new named preset. Saving under an existing name replaces it.
func (s *PresetService) Save(ctx context.Context, userID string, req *models.SavePresetRequest) (*models.FilterPreset, error) {
	if s.valkey == nil {
		return nil, apperrors.ErrUnavailable
	}
	if req.Name == "" {
		return nil, apperrors.ErrValidation
	}

	presets, err := s.valkey.GetPresets(ctx, userID)
	if err != nil {
		return nil, err
	}

	preset := models.FilterPreset{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Filters:   req.Filters,
		CreatedAt: time.Now(),
	}

	kept := presets[:0]
	for _, p := range presets {
		if p.Name != req.Name {
			kept = append(kept, p)
		}
	}
	kept = append(kept, preset)

	if err := s.valkey.SavePresets(ctx, userID, kept); err != nil {
		return nil, err
	}
	return &preset, nil
}

func (s *PresetService) Delete(ctx context.Context, userID, presetID string) error {
	if s.valkey == nil {
		return apperrors.ErrUnavailable
	}
	presets, err := s.valkey.GetPresets(ctx, userID)
	if err != nil {
		return err
	}

	kept := presets[:0]
	found := false
	for _, p := range presets {
		if p.ID == presetID {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return apperrors.ErrNotFound
	}

	return s.valkey.SavePresets(ctx, userID, kept)
}
