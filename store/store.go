// Package store keeps the persistent data blob of each game.
//
// Blobs are opaque to the host. A game that never saved has no blob and
// Load returns nil without an error.
package store

import (
	"bytes"
	"context"
	"sync"

	"github.com/wippyai/tardis-games/errors"
)

// Store loads and saves persistent data keyed by app id.
type Store interface {
	Load(ctx context.Context, app string) ([]byte, error)
	Save(ctx context.Context, app string, data []byte) error
}

// Memory is an in-process Store. Data is lost when the process exits.
type Memory struct {
	blobs map[string][]byte
	mu    sync.RWMutex
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Load(ctx context.Context, app string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if app == "" {
		return nil, errors.InvalidInput(errors.PhaseStorage, "app id is required")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[app]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(data), nil
}

func (m *Memory) Save(ctx context.Context, app string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if app == "" {
		return errors.InvalidInput(errors.PhaseStorage, "app id is required")
	}

	m.mu.Lock()
	m.blobs[app] = append([]byte{}, data...)
	m.mu.Unlock()
	return nil
}
