package timer

// Phase is the state-machine position of a session.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseStudying Phase = "studying"
	PhaseOnBreak  Phase = "on_break"
)

// EventKind classifies what a transition produced.
type EventKind int

const (
	// EventTicked is an ordinary tick with no phase change.
	EventTicked EventKind = iota
	// EventBreakStarted means a study interval finished and a break
	// interval was armed.
	EventBreakStarted
	// EventCommitted means a study segment's credit is ready for the
	// ledger. CreditSeconds carries the amount exactly once.
	EventCommitted
)

// Event describes the outcome of a tick or pause. CreditSeconds is
// non-zero only for EventCommitted, and each completed study segment
// yields its credit exactly once.
type Event struct {
	Kind          EventKind
	CreditSeconds int
	Phase         Phase
}

// Session is one run of the timer, from start until it returns to
// idle. It is a pure state machine: callers own the single mutable
// instance and drive it via Start, Pause, Stop and Tick. Exactly one
// of the study counters is authoritative, selected by the mode.
type Session struct {
	mode    Mode
	subject string
	phase   Phase

	initialStudySeconds   int
	remainingStudySeconds int
	elapsedStopwatch      int

	breakSeconds          int
	remainingBreakSeconds int

	// preBreakStudySeconds holds the just-completed study duration
	// across the break so an interrupted break cannot lose the credit.
	preBreakStudySeconds int
}

// Snapshot is a read-only copy of the session counters.
type Snapshot struct {
	Mode                  Mode   `json:"mode"`
	Subject               string `json:"subject"`
	Phase                 Phase  `json:"phase"`
	InitialStudySeconds   int    `json:"initialStudySeconds"`
	RemainingStudySeconds int    `json:"remainingStudySeconds"`
	ElapsedStopwatch      int    `json:"elapsedStopwatchSeconds"`
	BreakSeconds          int    `json:"breakSeconds"`
	RemainingBreakSeconds int    `json:"remainingBreakSeconds"`
}

// NewSession creates an idle session for the given configuration.
// The subject must be non-empty; it is the caller's job to check it
// against the user's preference set.
func NewSession(cfg Config, subject string) (*Session, error) {
	if subject == "" {
		return nil, ErrNoSubject
	}
	if cfg.Mode.Countdown() && cfg.StudySeconds <= 0 {
		return nil, ErrInvalidCustomMinutes
	}
	return &Session{
		mode:                cfg.Mode,
		subject:             subject,
		phase:               PhaseIdle,
		initialStudySeconds: cfg.StudySeconds,
	}, nil
}

func (s *Session) Mode() Mode      { return s.mode }
func (s *Session) Subject() string { return s.subject }
func (s *Session) Phase() Phase    { return s.phase }

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Mode:                  s.mode,
		Subject:               s.subject,
		Phase:                 s.phase,
		InitialStudySeconds:   s.initialStudySeconds,
		RemainingStudySeconds: s.remainingStudySeconds,
		ElapsedStopwatch:      s.elapsedStopwatch,
		BreakSeconds:          s.breakSeconds,
		RemainingBreakSeconds: s.remainingBreakSeconds,
	}
}

// Start arms a study interval from idle.
func (s *Session) Start() error {
	if s.phase != PhaseIdle {
		return ErrNotIdle
	}
	s.armStudy()
	return nil
}

func (s *Session) armStudy() {
	s.phase = PhaseStudying
	s.remainingStudySeconds = s.initialStudySeconds
	s.elapsedStopwatch = 0
	s.breakSeconds = 0
	s.remainingBreakSeconds = 0
}

// Tick advances the session by one second. It must only be called
// while the session is studying or on break; an idle tick is a no-op.
func (s *Session) Tick() Event {
	switch s.phase {
	case PhaseStudying:
		return s.tickStudy()
	case PhaseOnBreak:
		return s.tickBreak()
	default:
		return Event{Kind: EventTicked, Phase: s.phase}
	}
}

func (s *Session) tickStudy() Event {
	if s.mode == ModeStopwatch {
		s.elapsedStopwatch++
		return Event{Kind: EventTicked, Phase: s.phase}
	}

	s.remainingStudySeconds--
	if s.remainingStudySeconds > 0 {
		return Event{Kind: EventTicked, Phase: s.phase}
	}
	s.remainingStudySeconds = 0

	// Countdown reached zero: the full target was met.
	return s.beginBreak(s.initialStudySeconds)
}

func (s *Session) tickBreak() Event {
	s.remainingBreakSeconds--
	if s.remainingBreakSeconds > 0 {
		return Event{Kind: EventTicked, Phase: s.phase}
	}
	s.remainingBreakSeconds = 0
	return s.finishBreak()
}

// beginBreak transitions into the break phase for a completed study
// segment, or skips the break entirely when none is earned.
func (s *Session) beginBreak(actualStudySeconds int) Event {
	dur := BreakSeconds(s.mode, actualStudySeconds)
	if dur <= 0 {
		credit := actualStudySeconds
		s.reset()
		return Event{Kind: EventCommitted, CreditSeconds: credit, Phase: s.phase}
	}

	s.phase = PhaseOnBreak
	s.preBreakStudySeconds = actualStudySeconds
	s.breakSeconds = dur
	s.remainingBreakSeconds = dur
	return Event{Kind: EventBreakStarted, Phase: s.phase}
}

// finishBreak releases the pending study credit and either re-arms the
// next study interval (countdown modes auto-cycle) or returns to idle
// (stopwatch has no natural interval boundary).
func (s *Session) finishBreak() Event {
	credit := s.preBreakStudySeconds
	s.preBreakStudySeconds = 0

	if s.mode.Countdown() {
		s.armStudy()
	} else {
		s.reset()
	}
	return Event{Kind: EventCommitted, CreditSeconds: credit, Phase: s.phase}
}

// Pause ends the current study interval early and starts the earned
// break. Only custom and stopwatch sessions support it; for pomodoro
// and reverse pomodoro callers must treat pause as Stop.
func (s *Session) Pause() (Event, error) {
	if s.phase != PhaseStudying {
		return Event{}, ErrNotStudying
	}
	if !s.mode.Pausable() {
		return Event{}, ErrPauseUnsupported
	}
	return s.beginBreak(s.elapsedStudySeconds()), nil
}

// Stop cancels any active interval and returns the study credit, in
// seconds, that still needs committing. Zero means nothing is owed to
// the ledger. Stopping an idle session is a no-op, so Stop is
// idempotent and a credit can never be handed out twice.
func (s *Session) Stop() int {
	var credit int
	switch s.phase {
	case PhaseStudying:
		credit = s.elapsedStudySeconds()
	case PhaseOnBreak:
		credit = s.preBreakStudySeconds
	}
	s.reset()
	return credit
}

func (s *Session) elapsedStudySeconds() int {
	if s.mode == ModeStopwatch {
		return s.elapsedStopwatch
	}
	return s.initialStudySeconds - s.remainingStudySeconds
}

func (s *Session) reset() {
	s.phase = PhaseIdle
	s.remainingStudySeconds = 0
	s.elapsedStopwatch = 0
	s.breakSeconds = 0
	s.remainingBreakSeconds = 0
	s.preBreakStudySeconds = 0
}
