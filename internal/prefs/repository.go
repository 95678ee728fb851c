package prefs

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrPrefNotFound is returned when a preference is not stored.
var ErrPrefNotFound = errors.New("preference not found")

// Repository defines the interface for preference storage.
type Repository interface {
	// GetPref retrieves a single preference by key.
	GetPref(ctx context.Context, key string) (*Pref, error)

	// GetAllPrefs retrieves all stored preferences.
	GetAllPrefs(ctx context.Context) (map[string]*Pref, error)

	// SetPref creates or updates a preference.
	SetPref(ctx context.Context, pref *Pref) error

	// DeletePref removes a preference by key.
	DeletePref(ctx context.Context, key string) error
}

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	prefs map[string]*Pref
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		prefs: make(map[string]*Pref),
	}
}

// GetPref retrieves a single preference by key.
func (r *InMemoryRepository) GetPref(ctx context.Context, key string) (*Pref, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pref, ok := r.prefs[key]
	if !ok {
		return nil, ErrPrefNotFound
	}
	return pref, nil
}

// GetAllPrefs retrieves all stored preferences.
func (r *InMemoryRepository) GetAllPrefs(ctx context.Context) (map[string]*Pref, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Pref, len(r.prefs))
	for k, v := range r.prefs {
		result[k] = v
	}
	return result, nil
}

// SetPref creates or updates a preference.
func (r *InMemoryRepository) SetPref(ctx context.Context, pref *Pref) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pref.UpdatedAt = time.Now()
	r.prefs[pref.Key] = pref
	return nil
}

// DeletePref removes a preference by key.
func (r *InMemoryRepository) DeletePref(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.prefs, key)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
