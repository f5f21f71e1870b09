package instr

import "github.com/go-plc/ladderscan/internal/tagvalue"

// LatchInputs carries S and R for one latch step.
type LatchInputs struct {
	S bool
	R bool
}

// StepLatch advances an SR (set-dominant) or RS (reset-dominant) latch
// by one scan (spec §4.4 SR/RS).
func StepLatch(old *tagvalue.LatchInstance, in LatchInputs) *tagvalue.LatchInstance {
	l := *old
	switch old.Kind {
	case tagvalue.LatchSR:
		switch {
		case in.S:
			l.Q = true
		case in.R:
			l.Q = false
		}
	case tagvalue.LatchRS:
		switch {
		case in.R:
			l.Q = false
		case in.S:
			l.Q = true
		}
	}
	return &l
}
