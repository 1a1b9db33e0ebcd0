package design

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/valveworks/valve-design-suite/internal/models"
)

// DefaultBase is the fallback design context used before any valve
// design has been saved or activated.
var DefaultBase = models.Base{
	NPSIn:       2,
	ASMEClass:   600,
	BoreMM:      62.30,
	PressureMPa: 10.21,
}

const baseTTL = 7 * 24 * time.Hour

// BaseStore keeps the per-session active design context in Redis,
// keyed by the bearer token so it lives and dies with the login.
type BaseStore struct {
	rdb *redis.Client
}

func NewBaseStore(rdb *redis.Client) *BaseStore {
	return &BaseStore{rdb: rdb}
}

// Set stores the active base for a session.
func (s *BaseStore) Set(ctx context.Context, token string, base models.Base) error {
	if s.rdb == nil {
		return errors.New("session store unavailable")
	}
	b, err := json.Marshal(base)
	if err != nil {
		return fmt.Errorf("encode base: %w", err)
	}
	return s.rdb.Set(ctx, "base:"+token, b, baseTTL).Err()
}

// Get returns the explicitly activated base, if any.
func (s *BaseStore) Get(ctx context.Context, token string) (*models.Base, error) {
	if s.rdb == nil {
		return nil, nil
	}
	val, err := s.rdb.Get(ctx, "base:"+token).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get base: %w", err)
	}
	var base models.Base
	if err := json.Unmarshal([]byte(val), &base); err != nil {
		return nil, fmt.Errorf("decode base: %w", err)
	}
	return &base, nil
}

// Clear drops the explicitly activated base.
func (s *BaseStore) Clear(ctx context.Context, token string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, "base:"+token).Err()
}

// BaseFromDesign derives the design context from a saved valve design
// document.
func BaseFromDesign(d *models.ValveDesign) models.Base {
	var doc struct {
		NPSIn       float64 `json:"nps_in"`
		ASMEClass   int     `json:"asme_class"`
		PressureMPa float64 `json:"calc_operating_pressure_mpa"`
		Calculated  struct {
			BoreMM float64 `json:"bore_diameter_mm"`
		} `json:"calculated"`
	}
	json.Unmarshal(d.Data, &doc)
	return models.Base{
		DesignID:    d.ID,
		DesignName:  d.Name,
		NPSIn:       doc.NPSIn,
		ASMEClass:   doc.ASMEClass,
		BoreMM:      doc.Calculated.BoreMM,
		PressureMPa: doc.PressureMPa,
	}
}

// Resolve returns the design context for a session: the explicitly
// activated base if one is set, else the user's latest saved design,
// else the defaults.
func (s *BaseStore) Resolve(ctx context.Context, repo *Repo, token, userID string) (models.Base, error) {
	if base, err := s.Get(ctx, token); err != nil {
		return DefaultBase, err
	} else if base != nil {
		return *base, nil
	}

	latest, err := repo.Latest(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return DefaultBase, nil
	}
	if err != nil {
		return DefaultBase, err
	}
	return BaseFromDesign(latest), nil
}
