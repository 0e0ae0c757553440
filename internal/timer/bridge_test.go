package timer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerCall struct {
	Subject string
	Date    string
	Hours   float64
}

type fakeLedger struct {
	calls []ledgerCall
	err   error
}

func (l *fakeLedger) AddStudyTime(_ context.Context, subject, date string, hours float64) error {
	l.calls = append(l.calls, ledgerCall{Subject: subject, Date: date, Hours: hours})
	return l.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestHours(t *testing.T) {
	assert.InDelta(t, 0.4, Hours(1500), 1e-9)
	assert.InDelta(t, 0.1, Hours(360), 1e-9)
	assert.InDelta(t, 0.1, Hours(180), 1e-9) // 0.05h rounds up
	assert.InDelta(t, 0.0, Hours(125), 1e-9)
	assert.InDelta(t, 0.0, Hours(0), 1e-9)
	assert.InDelta(t, 1.0, Hours(3600), 1e-9)
	assert.InDelta(t, 3.0, Hours(MaxCustomStudySeconds), 1e-9)
}

func TestCommitWritesRoundedHours(t *testing.T) {
	ledger := &fakeLedger{}
	bridge := NewBridgeAt(ledger, fixedClock(time.Date(2026, 8, 29, 23, 30, 0, 0, time.UTC)))

	hours, err := bridge.Commit(context.Background(), "math", 1500)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, hours, 1e-9)

	require.Len(t, ledger.calls, 1)
	assert.Equal(t, "math", ledger.calls[0].Subject)
	assert.Equal(t, "2026-08-29", ledger.calls[0].Date)
	assert.InDelta(t, 0.4, ledger.calls[0].Hours, 1e-9)
}

func TestCommitDropsZeroHourSegments(t *testing.T) {
	ledger := &fakeLedger{}
	bridge := NewBridge(ledger)

	hours, err := bridge.Commit(context.Background(), "math", 125)
	require.NoError(t, err)
	assert.Zero(t, hours)
	assert.Empty(t, ledger.calls)

	hours, err = bridge.Commit(context.Background(), "math", 0)
	require.NoError(t, err)
	assert.Zero(t, hours)
	assert.Empty(t, ledger.calls)
}

func TestCommitSurfacesLedgerFailure(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("ledger down")}
	bridge := NewBridge(ledger)

	hours, err := bridge.Commit(context.Background(), "math", 1500)
	assert.Error(t, err)
	// The hours are still reported: the study happened regardless.
	assert.InDelta(t, 0.4, hours, 1e-9)
}
