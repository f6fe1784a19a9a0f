package confirm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_FullSequenceArms(t *testing.T) {
	t.Parallel()

	gate := NewGate()
	assert.Equal(t, StateStart, gate.State())

	expected := []State{
		StateConfirmOwnerAddition,
		StateConfirmSafeTarget,
		StateConfirmAbsolutely,
		StateConfirmStillSure,
		StateConfirmPositively,
	}
	for i, want := range expected {
		assert.Equal(t, want, gate.Pending())

		state, err := gate.Confirm("yes")
		require.NoError(t, err)
		if i == len(expected)-1 {
			assert.Equal(t, StateArmed, state)
		} else {
			assert.Equal(t, want, state)
		}
	}

	assert.True(t, gate.Armed())
	assert.False(t, gate.Aborted())
	assert.Equal(t, StateArmed, gate.Pending())
}

func TestGate_AbortsAtEveryStage(t *testing.T) {
	t.Parallel()

	for abortAt := 0; abortAt < 5; abortAt++ {
		gate := NewGate()
		for i := 0; i < abortAt; i++ {
			_, err := gate.Confirm("yes")
			require.NoError(t, err)
		}

		state, err := gate.Confirm("no")
		require.NoError(t, err)
		assert.Equal(t, StateAborted, state, "abort at stage %d", abortAt)
		assert.True(t, gate.Aborted())
		assert.False(t, gate.Armed())
	}
}

func TestGate_TerminalStatesAreClosed(t *testing.T) {
	t.Parallel()

	armed := NewGate()
	for i := 0; i < 5; i++ {
		_, err := armed.Confirm("yes")
		require.NoError(t, err)
	}
	state, err := armed.Confirm("yes")
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, StateArmed, state)

	aborted := NewGate()
	_, err = aborted.Confirm("nope")
	require.NoError(t, err)
	state, err = aborted.Confirm("yes")
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, StateAborted, state)
}

func TestGate_ResponseMatching(t *testing.T) {
	t.Parallel()

	// Surrounding whitespace is forgiven, nothing else is.
	gate := NewGate()
	state, err := gate.Confirm("  yes\n")
	require.NoError(t, err)
	assert.Equal(t, StateConfirmOwnerAddition, state)

	for _, response := range []string{"y", "Yes", "YES", "yes please", ""} {
		gate := NewGate()
		state, err := gate.Confirm(response)
		require.NoError(t, err)
		assert.Equal(t, StateAborted, state, "response %q", response)
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "start", StateStart.String())
	assert.Equal(t, "armed", StateArmed.String())
	assert.Equal(t, "aborted", StateAborted.String())
	assert.Equal(t, "invalid", State(0xff).String())
}
