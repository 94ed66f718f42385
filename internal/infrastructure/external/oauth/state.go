package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	stateTTL    = 15 * time.Minute
	statePrefix = "oauth:state:"
	loginMarker = "login"
)

// ErrInvalidState is returned for unknown, expired or already used states
var ErrInvalidState = errors.New("invalid oauth state")

// Store is the key-value backend for states (Redis or in-memory)
type Store interface {
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Take(ctx context.Context, key string) (string, bool, error)
}

// StateManager hands out one-time OAuth state tokens. Each token can be
// taken exactly once before it expires.
type StateManager struct {
	store Store
	ttl   time.Duration
}

// NewStateManager creates a StateManager whose states expire after 15 minutes
func NewStateManager(store Store) *StateManager {
	return &StateManager{store: store, ttl: stateTTL}
}

// GenerateState issues a bare state for the login flow
func (sm *StateManager) GenerateState(ctx context.Context) (string, error) {
	return sm.issue(ctx, loginMarker)
}

// GenerateStateFor issues a state that carries payload through to the callback
func (sm *StateManager) GenerateStateFor(ctx context.Context, payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode state payload: %w", err)
	}
	return sm.issue(ctx, string(b))
}

// ValidateState takes a login state
func (sm *StateManager) ValidateState(ctx context.Context, state string) bool {
	value, err := sm.take(ctx, state)
	return err == nil && value == loginMarker
}

// Consume takes a state from GenerateStateFor and decodes its payload into out
func (sm *StateManager) Consume(ctx context.Context, state string, out interface{}) error {
	value, err := sm.take(ctx, state)
	if err != nil {
		return err
	}
	if json.Unmarshal([]byte(value), out) != nil {
		return ErrInvalidState
	}
	return nil
}

func (sm *StateManager) issue(ctx context.Context, value string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(raw)
	if err := sm.store.Set(ctx, statePrefix+state, value, sm.ttl); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}
	return state, nil
}

func (sm *StateManager) take(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", ErrInvalidState
	}
	value, ok, err := sm.store.Take(ctx, statePrefix+state)
	if err != nil {
		return "", fmt.Errorf("read state: %w", err)
	}
	if !ok {
		return "", ErrInvalidState
	}
	return value, nil
}
