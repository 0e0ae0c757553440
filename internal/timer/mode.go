package timer

import "errors"

// Mode identifies one of the four session kinds. It is fixed for the
// lifetime of a Session; switching modes tears the session down.
type Mode string

const (
	ModePomodoro  Mode = "pomodoro"
	ModeReverse   Mode = "reverse_pomodoro"
	ModeCustom    Mode = "custom"
	ModeStopwatch Mode = "stopwatch"
)

const (
	PomodoroStudySeconds = 25 * 60
	ReverseStudySeconds  = 5 * 60

	PomodoroBreakSeconds = 5 * 60
	ReverseBreakSeconds  = 25 * 60

	MinCustomStudySeconds = 60
	MaxCustomStudySeconds = 3 * 60 * 60
)

var (
	ErrInvalidMode          = errors.New("unknown timer mode")
	ErrInvalidCustomMinutes = errors.New("custom minutes must be positive")
	ErrNoSubject            = errors.New("subject is required")
	ErrNotIdle              = errors.New("session already running")
	ErrNotStudying          = errors.New("no study interval in progress")
	ErrPauseUnsupported     = errors.New("mode does not support pause")
)

// Config is the output of mode selection: the session kind plus the
// study duration fixed at session start. StudySeconds is 0 for
// stopwatch, which counts up without a target.
type Config struct {
	Mode         Mode
	StudySeconds int
}

// NewConfig resolves a mode choice into a session configuration.
// customMinutes is only consulted for ModeCustom; values that parse to
// zero or below are rejected rather than silently defaulted, and valid
// values are clamped to [1 minute, 3 hours].
func NewConfig(mode Mode, customMinutes int) (Config, error) {
	switch mode {
	case ModePomodoro:
		return Config{Mode: mode, StudySeconds: PomodoroStudySeconds}, nil
	case ModeReverse:
		return Config{Mode: mode, StudySeconds: ReverseStudySeconds}, nil
	case ModeCustom:
		if customMinutes <= 0 {
			return Config{}, ErrInvalidCustomMinutes
		}
		return Config{Mode: mode, StudySeconds: clamp(customMinutes*60, MinCustomStudySeconds, MaxCustomStudySeconds)}, nil
	case ModeStopwatch:
		return Config{Mode: mode}, nil
	default:
		return Config{}, ErrInvalidMode
	}
}

func (m Mode) String() string { return string(m) }

// Countdown reports whether the mode has a fixed target duration.
func (m Mode) Countdown() bool {
	return m == ModePomodoro || m == ModeReverse || m == ModeCustom
}

// Pausable reports whether the mode supports a mid-session pause.
// Pomodoro and reverse pomodoro do not; pausing them ends the session.
func (m Mode) Pausable() bool {
	return m == ModeCustom || m == ModeStopwatch
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
