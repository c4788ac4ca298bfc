// Package media owns the binary blobs extracted from an export archive.
// Blobs are reachable only through revocable handles scoped to one import
// generation; superseding or clearing a chat revokes the whole generation.
package media

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrRevoked is returned when a handle's generation has been released.
var ErrRevoked = errors.New("media: handle revoked")

type blob struct {
	generation uint64
	data       []byte
}

// Arena issues handles over media blobs. Each handle belongs to exactly one
// generation; ReleaseGeneration revokes every handle of that generation and
// frees the backing bytes.
type Arena struct {
	mu    sync.RWMutex
	gen   uint64
	blobs map[string]*blob
}

// NewArena creates an empty arena at generation zero.
func NewArena() *Arena {
	return &Arena{blobs: make(map[string]*blob)}
}

// NextGeneration starts a new import cycle and returns its tag.
func (a *Arena) NextGeneration() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	return a.gen
}

// Acquire registers data under the given generation and returns the handle
// token used to read it back.
func (a *Arena) Acquire(generation uint64, data []byte) string {
	handle := uuid.NewString()
	a.mu.Lock()
	a.blobs[handle] = &blob{generation: generation, data: data}
	a.mu.Unlock()
	return handle
}

// Open returns the bytes behind a handle, or ErrRevoked if the handle's
// generation has been released (or the handle never existed).
func (a *Arena) Open(handle string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	b, ok := a.blobs[handle]
	if !ok {
		return nil, ErrRevoked
	}
	return b.data, nil
}

// ReleaseGeneration revokes every handle of the given generation and
// returns how many were released. Releasing twice is a no-op. Generations
// are released individually so rolling back a failed import cannot touch
// the handles of the still-current chat.
func (a *Arena) ReleaseGeneration(generation uint64) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	released := 0
	for h, b := range a.blobs {
		if b.generation == generation {
			delete(a.blobs, h)
			released++
		}
	}
	return released
}

// Len reports the number of live handles.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.blobs)
}
