// Package confirm implements the staged confirmation gate that must be
// fully traversed before a migration transaction is signed and
// submitted.
//
// The gate is deliberately heavy on friction: adding an owner to a
// Safe is irreversible and moves control over funds, so every stage
// requires an explicit affirmative response for the exact transaction
// parameters on display. The gate is a plain value with no I/O so it
// can be driven by synthetic responses in tests.
package confirm

import (
	"errors"
	"strings"
)

// State identifies a position in the confirmation sequence.
type State uint8

const (
	StateStart State = iota
	StateConfirmOwnerAddition
	StateConfirmSafeTarget
	StateConfirmAbsolutely
	StateConfirmStillSure
	StateConfirmPositively
	StateArmed
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateConfirmOwnerAddition:
		return "confirm owner addition"
	case StateConfirmSafeTarget:
		return "confirm Safe target"
	case StateConfirmAbsolutely:
		return "confirm absolutely"
	case StateConfirmStillSure:
		return "confirm still sure"
	case StateConfirmPositively:
		return "confirm positively"
	case StateArmed:
		return "armed"
	case StateAborted:
		return "aborted"
	default:
		return "invalid"
	}
}

// Affirmative is the only response that advances the gate.
const Affirmative = "yes"

// ErrClosed is returned when confirming a gate that is already armed
// or aborted.
var ErrClosed = errors.New("confirmation gate is closed")

// stages is the strict forward order of confirmation stages.
var stages = [...]State{
	StateConfirmOwnerAddition,
	StateConfirmSafeTarget,
	StateConfirmAbsolutely,
	StateConfirmStillSure,
	StateConfirmPositively,
}

// Gate is a single-use confirmation state machine. The zero value is
// not usable; construct with NewGate.
type Gate struct {
	state State
	next  int
}

func NewGate() *Gate {
	return &Gate{state: StateStart}
}

// State returns the last stage passed, or StateArmed/StateAborted once
// the gate is closed.
func (g *Gate) State() State {
	return g.state
}

// Pending returns the stage awaiting confirmation. Once the gate is
// armed or aborted it returns that terminal state.
func (g *Gate) Pending() State {
	if g.state == StateArmed || g.state == StateAborted {
		return g.state
	}
	return stages[g.next]
}

// Confirm feeds the user's response to the pending stage. Any response
// other than exactly "yes" (modulo surrounding whitespace) aborts the
// gate permanently. Stages advance only in order; there is no path out
// of StateArmed or StateAborted.
func (g *Gate) Confirm(response string) (State, error) {
	if g.state == StateArmed || g.state == StateAborted {
		return g.state, ErrClosed
	}

	if strings.TrimSpace(response) != Affirmative {
		g.state = StateAborted
		return g.state, nil
	}

	g.state = stages[g.next]
	g.next++
	if g.next == len(stages) {
		g.state = StateArmed
	}
	return g.state, nil
}

func (g *Gate) Armed() bool {
	return g.state == StateArmed
}

func (g *Gate) Aborted() bool {
	return g.state == StateAborted
}
