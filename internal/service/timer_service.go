package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "studytrack/backend/internal/errors"
	"studytrack/backend/internal/repository"
	"studytrack/backend/internal/timer"
)

// TimerService owns one in-memory timer per user. Sessions live only
// as long as the process: a restart loses a running timer, which is an
// accepted limitation. The service mutex guards the user map; each
// userTimer carries its own lock, held for the whole of an operation,
// so concurrent calls for the same user serialize against each other.
type TimerService struct {
	mu         sync.Mutex
	users      map[string]*userTimer
	prefs      *PreferencesService
	ledgerRepo *repository.LedgerRepository
	logger     *zap.Logger
	interval   time.Duration
}

type userTimer struct {
	mu     sync.Mutex
	config timer.Config
	runner *timer.Runner
}

// TimerStateView is the wire shape of a user's timer.
type TimerStateView struct {
	Mode                    string  `json:"mode"`
	Subject                 string  `json:"subject,omitempty"`
	Phase                   string  `json:"phase"`
	InitialStudySeconds     int     `json:"initialStudySeconds"`
	RemainingStudySeconds   int     `json:"remainingStudySeconds"`
	ElapsedStopwatchSeconds int     `json:"elapsedStopwatchSeconds"`
	BreakSeconds            int     `json:"breakSeconds"`
	RemainingBreakSeconds   int     `json:"remainingBreakSeconds"`
	CommittedHours          float64 `json:"committedHours,omitempty"`
	Warning                 string  `json:"warning,omitempty"`
	LastCommitError         string  `json:"lastCommitError,omitempty"`
}

func NewTimerService(
	prefs *PreferencesService,
	ledgerRepo *repository.LedgerRepository,
	interval time.Duration,
	logger *zap.Logger,
) *TimerService {
	if interval <= 0 {
		interval = time.Second
	}
	return &TimerService{
		users:      make(map[string]*userTimer),
		prefs:      prefs,
		ledgerRepo: ledgerRepo,
		logger:     logger,
		interval:   interval,
	}
}

// userLedger binds the ledger repository to one user so the timer core
// only sees the narrow subject/date/hours interface.
type userLedger struct {
	repo   *repository.LedgerRepository
	userID string
}

func (l userLedger) AddStudyTime(ctx context.Context, subject, date string, hours float64) error {
	return l.repo.AddStudyTime(ctx, l.userID, date, subject, hours)
}

// SelectMode configures the session kind. An active session is torn
// down without saving partial credit: switching modes always discards.
func (s *TimerService) SelectMode(ctx context.Context, userID, mode string, customMinutes int) (*TimerStateView, *apperrors.APIError) {
	cfg, err := timer.NewConfig(timer.Mode(mode), customMinutes)
	if err != nil {
		return nil, configError(err)
	}

	ut := s.user(userID)
	ut.mu.Lock()
	defer ut.mu.Unlock()

	if ut.runner != nil {
		ut.runner.Discard()
		ut.runner = nil
	}
	ut.config = cfg
	return ut.viewLocked(), nil
}

// Start begins a study interval for the user's configured mode.
// Configuration errors (missing or unknown subject) block the start
// and leave the timer untouched.
func (s *TimerService) Start(ctx context.Context, userID, subject string) (*TimerStateView, *apperrors.APIError) {
	if subject == "" {
		return nil, apperrors.BadRequest("missing_subject", "a subject is required to start studying")
	}
	known, apiErr := s.prefs.HasSubject(ctx, userID, subject)
	if apiErr != nil {
		return nil, apiErr
	}
	if !known {
		return nil, apperrors.BadRequest("unknown_subject", "subject is not in your preferences")
	}

	ut := s.user(userID)
	ut.mu.Lock()
	defer ut.mu.Unlock()

	if ut.runner != nil {
		// A session that finished its break on the tick path parks here
		// in idle. A fresh start replaces it, it never resumes it.
		if snap, _ := ut.runner.Snapshot(); snap.Phase == timer.PhaseIdle {
			ut.runner.Discard()
			ut.runner = nil
		}
	}
	if ut.runner == nil {
		session, err := timer.NewSession(ut.config, normalizeSubject(subject))
		if err != nil {
			return nil, configError(err)
		}
		bridge := timer.NewBridge(userLedger{repo: s.ledgerRepo, userID: userID})
		ut.runner = timer.NewRunner(session, bridge, s.interval, s.logger)
	}

	if _, err := ut.runner.Start(); err != nil {
		return nil, configError(err)
	}
	return ut.viewLocked(), nil
}

// Pause ends the study interval early. Custom and stopwatch sessions
// move into their earned break; pomodoro and reverse pomodoro have no
// mid-session pause, so pausing them stops the session outright.
func (s *TimerService) Pause(ctx context.Context, userID string) (*TimerStateView, *apperrors.APIError) {
	ut := s.user(userID)
	ut.mu.Lock()
	defer ut.mu.Unlock()

	if ut.runner == nil {
		return nil, apperrors.BadRequest("no_session", "no study session in progress")
	}

	if !ut.config.Mode.Pausable() {
		return s.stopLocked(ctx, ut), nil
	}

	snap, hours, err := ut.runner.Pause(ctx)
	if err == timer.ErrNotStudying {
		return nil, apperrors.BadRequest("no_session", "no study interval in progress")
	}
	if snap.Phase == timer.PhaseIdle {
		ut.runner = nil
	}
	return s.viewFromSnapshot(snap, hours, err), nil
}

// Stop cancels the session, committing any pending credit
// synchronously. Stopping with no session is a no-op.
func (s *TimerService) Stop(ctx context.Context, userID string) (*TimerStateView, *apperrors.APIError) {
	ut := s.user(userID)
	ut.mu.Lock()
	defer ut.mu.Unlock()
	return s.stopLocked(ctx, ut), nil
}

// State returns the current timer snapshot without mutating anything.
func (s *TimerService) State(ctx context.Context, userID string) (*TimerStateView, *apperrors.APIError) {
	ut := s.user(userID)
	ut.mu.Lock()
	defer ut.mu.Unlock()
	return ut.viewLocked(), nil
}

func (s *TimerService) user(userID string) *userTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	ut, ok := s.users[userID]
	if !ok {
		cfg, _ := timer.NewConfig(timer.ModePomodoro, 0)
		ut = &userTimer{config: cfg}
		s.users[userID] = ut
	}
	return ut
}

// stopLocked stops and releases the user's runner. Caller holds ut.mu.
func (s *TimerService) stopLocked(ctx context.Context, ut *userTimer) *TimerStateView {
	if ut.runner == nil {
		return ut.viewLocked()
	}
	snap, hours, err := ut.runner.Stop(ctx)
	if snap.Phase == timer.PhaseIdle {
		ut.runner = nil
	}
	return s.viewFromSnapshot(snap, hours, err)
}

func (ut *userTimer) viewLocked() *TimerStateView {
	if ut.runner == nil {
		return &TimerStateView{
			Mode:                ut.config.Mode.String(),
			Phase:               string(timer.PhaseIdle),
			InitialStudySeconds: ut.config.StudySeconds,
		}
	}
	snap, lastErr := ut.runner.Snapshot()
	view := snapshotView(snap)
	view.LastCommitError = lastErr
	return view
}

func (s *TimerService) viewFromSnapshot(snap timer.Snapshot, hours float64, commitErr error) *TimerStateView {
	view := snapshotView(snap)
	view.CommittedHours = hours
	if commitErr != nil {
		// The session already moved on; the missing record is the only
		// consequence.
		view.Warning = "study time could not be recorded: " + commitErr.Error()
		s.logger.Warn("synchronous study time commit failed", zap.Error(commitErr))
	}
	return view
}

func snapshotView(snap timer.Snapshot) *TimerStateView {
	return &TimerStateView{
		Mode:                    snap.Mode.String(),
		Subject:                 snap.Subject,
		Phase:                   string(snap.Phase),
		InitialStudySeconds:     snap.InitialStudySeconds,
		RemainingStudySeconds:   snap.RemainingStudySeconds,
		ElapsedStopwatchSeconds: snap.ElapsedStopwatch,
		BreakSeconds:            snap.BreakSeconds,
		RemainingBreakSeconds:   snap.RemainingBreakSeconds,
	}
}

func configError(err error) *apperrors.APIError {
	switch err {
	case timer.ErrInvalidMode:
		return apperrors.BadRequest("invalid_mode", "mode must be one of pomodoro, reverse_pomodoro, custom, stopwatch")
	case timer.ErrInvalidCustomMinutes:
		return apperrors.BadRequest("invalid_custom_minutes", "custom minutes must be a positive number")
	case timer.ErrNoSubject:
		return apperrors.BadRequest("missing_subject", "a subject is required to start studying")
	case timer.ErrNotIdle:
		return apperrors.Conflict("already_running", "a study session is already in progress", nil)
	case timer.ErrPauseUnsupported:
		return apperrors.BadRequest("pause_unsupported", "this mode has no mid-session pause")
	default:
		return apperrors.Internal("timer error")
	}
}
