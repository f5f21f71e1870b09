// Package instr implements the instruction primitives: timers,
// counters, and bistable latches, each a pure function from an old
// instance plus inputs and a clock to a new instance (spec §4.4).
package instr

import "github.com/go-plc/ladderscan/internal/tagvalue"

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// TimerInputs carries IN and PT for one timer step.
type TimerInputs struct {
	IN bool
	PT int64
}

// StepTimer advances old (never mutated) by one scan and returns a
// fresh instance (spec §4.4 TON/TOF/TP).
func StepTimer(old *tagvalue.TimerInstance, in TimerInputs, now int64) *tagvalue.TimerInstance {
	t := *old
	t.IN = in.IN
	t.PT = in.PT

	switch old.Kind {
	case tagvalue.TimerTON:
		stepTON(&t, old, now)
	case tagvalue.TimerTOF:
		stepTOF(&t, old, now)
	case tagvalue.TimerTP:
		stepTP(&t, old, now)
	}
	return &t
}

func stepTON(t *tagvalue.TimerInstance, old *tagvalue.TimerInstance, now int64) {
	if t.IN {
		if !old.IN {
			t.StartTime = now
			t.ET = 0
			t.Q = false
			t.Running = true
		} else if t.Running {
			t.ET = min64(now-t.StartTime, t.PT)
			t.Q = t.ET >= t.PT
		}
	} else {
		t.ET = 0
		t.Q = false
		t.Running = false
	}
}

func stepTOF(t *tagvalue.TimerInstance, old *tagvalue.TimerInstance, now int64) {
	if t.IN {
		t.ET = 0
		t.Q = true
		t.Running = false
	} else {
		if old.IN {
			t.StartTime = now
			t.Running = true
		}
		if t.Running {
			t.ET = min64(now-t.StartTime, t.PT)
			t.Q = !(t.ET >= t.PT)
		}
	}
}

func stepTP(t *tagvalue.TimerInstance, old *tagvalue.TimerInstance, now int64) {
	risingIN := t.IN && !old.IN
	switch {
	case risingIN && !old.Triggered:
		t.StartTime = now
		t.ET = 0
		t.Q = true
		t.Triggered = true
	case old.Triggered:
		t.ET = min64(now-t.StartTime, t.PT)
		if t.ET >= t.PT {
			t.Q = false
			t.Triggered = false
		} else {
			t.Q = true
		}
	default:
		t.Q = false
	}
}
