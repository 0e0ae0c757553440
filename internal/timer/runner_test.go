package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRunner(t *testing.T, mode Mode, customMinutes int, ledger Ledger) *Runner {
	t.Helper()
	session, err := NewSession(mustConfig(t, mode, customMinutes), "math")
	require.NoError(t, err)
	return NewRunner(session, NewBridge(ledger), time.Millisecond, zap.NewNop())
}

func TestRunnerTicksWhileStudying(t *testing.T) {
	r := newTestRunner(t, ModeCustom, 10, &fakeLedger{})
	snap, err := r.Start()
	require.NoError(t, err)
	assert.Equal(t, PhaseStudying, snap.Phase)
	assert.Equal(t, 600, snap.RemainingStudySeconds)

	assert.Eventually(t, func() bool {
		current, _ := r.Snapshot()
		return current.RemainingStudySeconds < 600
	}, time.Second, 5*time.Millisecond)

	_, _, err = r.Stop(context.Background())
	require.NoError(t, err)
}

func TestRunnerStopIsIdempotent(t *testing.T) {
	ledger := &fakeLedger{}
	r := newTestRunner(t, ModeCustom, 10, ledger)
	_, err := r.Start()
	require.NoError(t, err)

	snap, _, err := r.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, snap.Phase)

	snap2, hours2, err := r.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, snap2.Phase)
	assert.Zero(t, hours2)

	// A short run rounds to 0.0h, so the ledger must never be touched.
	assert.Empty(t, ledger.calls)
}

func TestRunnerDiscardCommitsNothing(t *testing.T) {
	ledger := &fakeLedger{}
	r := newTestRunner(t, ModeStopwatch, 0, ledger)
	_, err := r.Start()
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		snap, _ := r.Snapshot()
		return snap.ElapsedStopwatch > 0
	}, time.Second, 5*time.Millisecond)

	r.Discard()

	snap, _ := r.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Empty(t, ledger.calls)
}

func TestRunnerRestartAfterStop(t *testing.T) {
	r := newTestRunner(t, ModeStopwatch, 0, &fakeLedger{})
	_, err := r.Start()
	require.NoError(t, err)

	_, _, err = r.Stop(context.Background())
	require.NoError(t, err)

	snap, err := r.Start()
	require.NoError(t, err)
	assert.Equal(t, PhaseStudying, snap.Phase)
	assert.Equal(t, 0, snap.ElapsedStopwatch)

	r.Discard()
}

func TestRunnerStartWhileRunningFails(t *testing.T) {
	r := newTestRunner(t, ModePomodoro, 0, &fakeLedger{})
	_, err := r.Start()
	require.NoError(t, err)

	_, err = r.Start()
	assert.ErrorIs(t, err, ErrNotIdle)

	r.Discard()
}
