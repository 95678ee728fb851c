package prefs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the preference service.
type ServiceConfig struct {
	Repository   Repository
	Logger       zerolog.Logger
	CacheTTL     time.Duration // How long to cache preferences in memory
	DefaultPrefs map[string]*Pref
}

// Service provides preference evaluation with caching and defaults.
type Service struct {
	repo         Repository
	logger       zerolog.Logger
	cacheTTL     time.Duration
	defaultPrefs map[string]*Pref

	mu          sync.RWMutex
	cache       map[string]*Pref
	cacheExpiry time.Time
}

// NewService creates a new preference service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 1 * time.Minute
	}

	defaults := cfg.DefaultPrefs
	if defaults == nil {
		defaults = DefaultPrefs()
	}

	return &Service{
		repo:         cfg.Repository,
		logger:       cfg.Logger,
		cacheTTL:     cacheTTL,
		defaultPrefs: defaults,
		cache:        make(map[string]*Pref),
	}
}

// GetPref retrieves a preference by key: cache first, then the repository,
// then the built-in default.
func (s *Service) GetPref(ctx context.Context, key string) *Pref {
	if pref := s.getCached(key); pref != nil {
		return pref
	}

	pref, err := s.repo.GetPref(ctx, key)
	if err == nil {
		s.setCached(key, pref)
		return pref
	}

	if !errors.Is(err, ErrPrefNotFound) {
		s.logger.Warn().Err(err).Str("pref", key).Msg("failed to get preference from repository")
	}

	if def, ok := s.defaultPrefs[key]; ok {
		return def
	}
	return nil
}

// GetAllPrefs returns stored preferences merged over the defaults.
func (s *Service) GetAllPrefs(ctx context.Context) map[string]*Pref {
	result := make(map[string]*Pref, len(s.defaultPrefs))
	for k, v := range s.defaultPrefs {
		result[k] = v
	}

	stored, err := s.repo.GetAllPrefs(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to get preferences from repository, using defaults")
		return result
	}

	for k, v := range stored {
		result[k] = v
	}

	s.mu.Lock()
	s.cache = stored
	s.cacheExpiry = time.Now().Add(s.cacheTTL)
	s.mu.Unlock()

	return result
}

// SetPref updates a preference.
func (s *Service) SetPref(ctx context.Context, pref *Pref) error {
	pref.UpdatedAt = time.Now()
	if err := s.repo.SetPref(ctx, pref); err != nil {
		return err
	}

	s.setCached(pref.Key, pref)
	return nil
}

// InvalidateCache clears the cached preferences, forcing a refresh on next
// access.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*Pref)
	s.cacheExpiry = time.Time{}
}

// Convenience accessors for well-known preferences.

// ShowHeatmap reports whether the population heatmap layer is enabled.
func (s *Service) ShowHeatmap(ctx context.Context) bool {
	return s.GetPref(ctx, PrefShowHeatmap).BoolValue(true)
}

// ShowFlowMask reports whether flow-mask sampling is enabled.
func (s *Service) ShowFlowMask(ctx context.Context) bool {
	return s.GetPref(ctx, PrefShowFlowMask).BoolValue(true)
}

// Theme returns the configured map theme.
func (s *Service) Theme(ctx context.Context) string {
	return s.GetPref(ctx, PrefTheme).StringValue("light")
}

// DefaultBucket returns the time bucket shown on first render.
func (s *Service) DefaultBucket(ctx context.Context) string {
	return s.GetPref(ctx, PrefDefaultBucket).StringValue("08:00")
}

// HeatmapOpacity returns the heatmap layer's maximum opacity.
func (s *Service) HeatmapOpacity(ctx context.Context) float64 {
	return s.GetPref(ctx, PrefHeatmapOpacity).Float64Value(0.6)
}

// getCached retrieves a preference from cache if valid.
func (s *Service) getCached(key string) *Pref {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if time.Now().After(s.cacheExpiry) {
		return nil
	}

	pref, ok := s.cache[key]
	if !ok {
		return nil
	}
	return pref
}

// setCached stores a preference in the cache.
func (s *Service) setCached(key string, pref *Pref) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[key] = pref
	if s.cacheExpiry.Before(time.Now()) {
		s.cacheExpiry = time.Now().Add(s.cacheTTL)
	}
}
