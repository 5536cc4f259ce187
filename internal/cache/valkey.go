package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bullpen/internal/apperrors"
	"bullpen/internal/models"
)

const (
	presetsKeyPrefix  = "eventFilterPresets:"
	overviewKeyPrefix = "events:overview:"
	authHashKey       = "users:auth"
	lockKeyPrefix     = "lock:event:"

	overviewTTL = 30 * time.Second
	authTTL     = 5 * time.Minute
	lockTTL     = 10 * time.Second
)

type ValkeyClient struct {
	client *redis.Client
}

type Config struct {
	Addr     string
	Password string
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{client: rdb}, nil
}

// GetUserIDByAuth resolves a cached basic-auth credential pair to a user id
func (v *ValkeyClient) GetUserIDByAuth(ctx context.Context, email, passwordHash string) (string, error) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	userID, err := v.client.HGet(ctx, authHashKey, cacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("user not found in cache")
		}
		return "", fmt.Errorf("cache lookup error: %w", err)
	}

	return userID, nil
}

// StoreUserAuth caches a verified credential pair so the next request skips
// the entity API round trip
func (v *ValkeyClient) StoreUserAuth(ctx context.Context, email, passwordHash, userID string) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	v.client.HSet(ctx, authHashKey, cacheKey, userID)
	v.client.Expire(ctx, authHashKey, authTTL)
}

// GetPresets loads a user's saved filter presets
func (v *ValkeyClient) GetPresets(ctx context.Context, userID string) ([]models.FilterPreset, error) {
	raw, err := v.client.Get(ctx, presetsKeyPrefix+userID).Result()
	if err != nil {
		if err == redis.Nil {
			return []models.FilterPreset{}, nil
		}
		return nil, fmt.Errorf("preset lookup error: %w", err)
	}

	var presets []models.FilterPreset
	if err := json.Unmarshal([]byte(raw), &presets); err != nil {
		return nil, fmt.Errorf("invalid preset payload: %w", err)
	}
	return presets, nil
}

// SavePresets stores the full preset list for a user
func (v *ValkeyClient) SavePresets(ctx context.Context, userID string, presets []models.FilterPreset) error {
	raw, err := json.Marshal(presets)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}
	return v.client.Set(ctx, presetsKeyPrefix+userID, raw, 0).Err()
}

// GetOverviewRaw returns the cached events overview page as raw JSON,
// avoiding an unmarshal/marshal round trip on the hot path
func (v *ValkeyClient) GetOverviewRaw(ctx context.Context, key string) ([]byte, error) {
	raw, err := v.client.Get(ctx, overviewKeyPrefix+key).Bytes()
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// SetOverview caches an events overview page
func (v *ValkeyClient) SetOverview(ctx context.Context, key string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	v.client.Set(ctx, overviewKeyPrefix+key, raw, overviewTTL)
}

// InvalidateOverview drops all cached overview pages after a mutation
func (v *ValkeyClient) InvalidateOverview(ctx context.Context) {
	iter := v.client.Scan(ctx, 0, overviewKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		v.client.Del(ctx, iter.Val())
	}
}

// AcquireEventLock takes a short-lived exclusive lock on one event so that
// concurrent capacity mutations cannot act on stale counts
func (v *ValkeyClient) AcquireEventLock(ctx context.Context, eventID string) (bool, error) {
	ok, err := v.client.SetNX(ctx, lockKeyPrefix+eventID, "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("lock error: %w", err)
	}
	if !ok {
		return false, apperrors.ErrLocked
	}
	return true, nil
}

// ReleaseEventLock releases the per-event lock
func (v *ValkeyClient) ReleaseEventLock(ctx context.Context, eventID string) {
	v.client.Del(ctx, lockKeyPrefix+eventID)
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
