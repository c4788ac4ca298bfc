// Package status tracks the viewer's import lifecycle state.
package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/bus"
)

// State represents the current-chat slot's runtime state.
type State string

const (
	// Empty means no chat is loaded.
	Empty State = "EMPTY"
	// Importing means an import is running against the slot.
	Importing State = "IMPORTING"
	// Ready means a chat is loaded and queryable.
	Ready State = "READY"
	// Failed means the last import failed; a previously loaded chat, if
	// any, is still authoritative.
	Failed State = "FAILED"
)

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Empty:     {Importing},
	Importing: {Ready, Failed, Empty},
	Ready:     {Importing, Empty},
	Failed:    {Importing, Ready, Empty},
}

// StatusChange is the payload of a "chat.status_changed" event.
type StatusChange struct {
	From State
	To   State
}

// Machine tracks and enforces slot state transitions, publishing each
// change on the bus.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a state machine starting in Empty.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{current: Empty, bus: b}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns an error if the
// transition is not allowed.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Contains(validTransitions[m.current], to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish("chat.status_changed", StatusChange{From: from, To: to})
	}
	return nil
}
