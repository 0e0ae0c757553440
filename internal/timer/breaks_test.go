package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakSeconds(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		studied int
		want    int
	}{
		{"pomodoro fixed", ModePomodoro, 1500, 300},
		{"pomodoro ignores actual time", ModePomodoro, 17, 300},
		{"reverse fixed", ModeReverse, 300, 1500},
		{"custom third", ModeCustom, 300, 100},
		{"custom floors", ModeCustom, 125, 41},
		{"stopwatch third", ModeStopwatch, 125, 41},
		{"stopwatch nothing earned", ModeStopwatch, 2, 0},
		{"zero study", ModeCustom, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BreakSeconds(tt.mode, tt.studied))
		})
	}
}
