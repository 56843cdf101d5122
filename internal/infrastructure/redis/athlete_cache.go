package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/athlete"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

const athleteByIDKey = "athlete:id:%d"

// DefaultTTL is used when the cache is built with a zero TTL.
const DefaultTTL = 15 * time.Minute

// Store is the key-value subset of Client used by the caches.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// AthleteCache decorates an athlete.Repository with a read-through cache of
// single athletes. Writes go to the wrapped repository and evict the entry.
// Cache faults are logged and never fail a call.
type AthleteCache struct {
	athlete.Repository
	store Store
	ttl   time.Duration
}

// NewAthleteCache wraps repo.
func NewAthleteCache(repo athlete.Repository, store Store, ttl time.Duration) *AthleteCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &AthleteCache{Repository: repo, store: store, ttl: ttl}
}

// Verify interface implementation at compile time.
var _ athlete.Repository = (*AthleteCache)(nil)

// GetByID serves from the cache, falling back to the repository.
func (c *AthleteCache) GetByID(ctx context.Context, id int64) (*athlete.Athlete, bool, error) {
	key := fmt.Sprintf(athleteByIDKey, id)
	if data, err := c.store.Get(ctx, key); err == nil {
		var cached athlete.Athlete
		if err := json.Unmarshal([]byte(data), &cached); err == nil {
			return &cached, true, nil
		}
		log.Warn().Str("key", key).Msg("Discarding unreadable cached athlete")
	} else if !errors.Is(err, ErrMiss) {
		log.Warn().Err(err).Str("key", key).Msg("Athlete cache read failed")
	}

	a, found, err := c.Repository.GetByID(ctx, id)
	if err != nil || !found {
		return a, found, err
	}
	c.put(ctx, a)
	return a, true, nil
}

// Update writes through and evicts the entry.
func (c *AthleteCache) Update(ctx context.Context, id int64, fields shared.Fields) (*athlete.Athlete, bool, error) {
	a, found, err := c.Repository.Update(ctx, id, fields)
	c.evict(ctx, id)
	return a, found, err
}

// SoftDelete writes through and evicts the entry.
func (c *AthleteCache) SoftDelete(ctx context.Context, id int64, flagField string) (bool, error) {
	changed, err := c.Repository.SoftDelete(ctx, id, flagField)
	c.evict(ctx, id)
	return changed, err
}

// Restore writes through and evicts the entry.
func (c *AthleteCache) Restore(ctx context.Context, id int64, flagField string) (bool, error) {
	changed, err := c.Repository.Restore(ctx, id, flagField)
	c.evict(ctx, id)
	return changed, err
}

func (c *AthleteCache) put(ctx context.Context, a *athlete.Athlete) {
	data, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, fmt.Sprintf(athleteByIDKey, a.ID), string(data), c.ttl); err != nil {
		log.Warn().Err(err).Int64("id", a.ID).Msg("Athlete cache write failed")
	}
}

func (c *AthleteCache) evict(ctx context.Context, id int64) {
	if err := c.store.Delete(ctx, fmt.Sprintf(athleteByIDKey, id)); err != nil {
		log.Warn().Err(err).Int64("id", id).Msg("Athlete cache eviction failed")
	}
}
