package timer

// BreakSeconds computes the break interval earned by a completed study
// segment. Pomodoro and reverse pomodoro have fixed breaks regardless
// of the actual study time; custom and stopwatch earn a third of the
// time studied. A result of 0 means the break phase is skipped.
func BreakSeconds(mode Mode, actualStudySeconds int) int {
	switch mode {
	case ModePomodoro:
		return PomodoroBreakSeconds
	case ModeReverse:
		return ReverseBreakSeconds
	default:
		if actualStudySeconds <= 0 {
			return 0
		}
		return actualStudySeconds / 3
	}
}
