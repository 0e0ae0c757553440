package timer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Runner owns one Session and drives it with a 1-second ticker. At
// most one ticking goroutine is alive per Runner: arming a new loop
// always supersedes the previous one, and the loop exits on its own
// when the session returns to idle. Ledger commits triggered from the
// tick path are dispatched in their own goroutine so they never block
// the next tick; their errors are kept for the next state read.
type Runner struct {
	mu      sync.Mutex
	session *Session
	bridge  *Bridge
	logger  *zap.Logger

	interval time.Duration
	stopCh   chan struct{}

	lastCommitErr string
}

// NewRunner wraps a session. interval is the tick period; production
// callers pass time.Second.
func NewRunner(session *Session, bridge *Bridge, interval time.Duration, logger *zap.Logger) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{
		session:  session,
		bridge:   bridge,
		logger:   logger,
		interval: interval,
	}
}

// Start arms the study interval and the tick loop.
func (r *Runner) Start() (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.session.Start(); err != nil {
		return r.session.Snapshot(), err
	}
	r.armLoopLocked()
	return r.session.Snapshot(), nil
}

// Pause ends the study interval early and begins the earned break.
// The already-running loop keeps ticking through the break; if the
// break is skipped (nothing earned), the pending credit is committed
// synchronously and the loop is cancelled.
func (r *Runner) Pause(ctx context.Context) (Snapshot, float64, error) {
	r.mu.Lock()
	ev, err := r.session.Pause()
	if err != nil {
		snap := r.session.Snapshot()
		r.mu.Unlock()
		return snap, 0, err
	}
	if ev.Phase == PhaseIdle {
		r.cancelLoopLocked()
	}
	subject := r.session.Subject()
	snap := r.session.Snapshot()
	r.mu.Unlock()

	if ev.Kind == EventCommitted && ev.CreditSeconds > 0 {
		hours, commitErr := r.bridge.Commit(ctx, subject, ev.CreditSeconds)
		return snap, hours, commitErr
	}
	return snap, 0, nil
}

// Stop cancels all ticking, commits any outstanding study credit
// synchronously and returns the session to idle. Stopping an
// already-idle runner does nothing.
func (r *Runner) Stop(ctx context.Context) (Snapshot, float64, error) {
	r.mu.Lock()
	credit := r.session.Stop()
	r.cancelLoopLocked()
	subject := r.session.Subject()
	snap := r.session.Snapshot()
	r.mu.Unlock()

	if credit > 0 {
		hours, err := r.bridge.Commit(ctx, subject, credit)
		return snap, hours, err
	}
	return snap, 0, nil
}

// Discard tears the session down without committing anything. Used
// when the user switches modes mid-session.
func (r *Runner) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session.Stop()
	r.cancelLoopLocked()
}

// Snapshot returns the current counters plus the last asynchronous
// commit failure, if any.
func (r *Runner) Snapshot() (Snapshot, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Snapshot(), r.lastCommitErr
}

func (r *Runner) armLoopLocked() {
	if r.stopCh != nil {
		return
	}
	r.stopCh = make(chan struct{})
	go r.loop(r.stopCh)
}

func (r *Runner) cancelLoopLocked() {
	if r.stopCh != nil {
		close(r.stopCh)
		r.stopCh = nil
	}
}

func (r *Runner) loop(stopCh chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			r.mu.Lock()
			if r.stopCh != stopCh {
				// Superseded or cancelled between ticks.
				r.mu.Unlock()
				return
			}
			ev := r.session.Tick()
			subject := r.session.Subject()
			idle := r.session.Phase() == PhaseIdle
			if idle {
				r.stopCh = nil
			}
			r.mu.Unlock()

			if ev.Kind == EventCommitted && ev.CreditSeconds > 0 {
				go r.commitAsync(subject, ev.CreditSeconds)
			}
			if idle {
				return
			}
		}
	}
}

func (r *Runner) commitAsync(subject string, seconds int) {
	hours, err := r.bridge.Commit(context.Background(), subject, seconds)
	r.mu.Lock()
	if err != nil {
		r.lastCommitErr = err.Error()
	} else {
		r.lastCommitErr = ""
	}
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn("study time commit failed",
			zap.String("subject", subject),
			zap.Int("seconds", seconds),
			zap.Error(err),
		)
		return
	}
	if hours > 0 {
		r.logger.Info("study time committed",
			zap.String("subject", subject),
			zap.Float64("hours", hours),
		)
	}
}
