package instr

import (
	"testing"

	"github.com/go-plc/ladderscan/internal/tagvalue"
)

func TestTONRisingEdgeStartsAndElapses(t *testing.T) {
	timer := tagvalue.NewTimer(tagvalue.TimerTON)

	timer = StepTimer(timer, TimerInputs{IN: true, PT: 100}, 0)
	if timer.Q || timer.ET != 0 {
		t.Fatalf("expected ET=0,Q=false immediately on rising edge, got ET=%d Q=%v", timer.ET, timer.Q)
	}

	timer = StepTimer(timer, TimerInputs{IN: true, PT: 100}, 50)
	if timer.Q || timer.ET != 50 {
		t.Fatalf("expected ET=50,Q=false mid-delay, got ET=%d Q=%v", timer.ET, timer.Q)
	}

	timer = StepTimer(timer, TimerInputs{IN: true, PT: 100}, 150)
	if !timer.Q || timer.ET != 100 {
		t.Fatalf("expected ET clamped to PT=100, Q=true, got ET=%d Q=%v", timer.ET, timer.Q)
	}

	timer = StepTimer(timer, TimerInputs{IN: false, PT: 100}, 200)
	if timer.Q || timer.ET != 0 {
		t.Fatalf("expected IN false to reset ET/Q, got ET=%d Q=%v", timer.ET, timer.Q)
	}
}

func TestTOFFallingEdgeStartsAndElapses(t *testing.T) {
	timer := tagvalue.NewTimer(tagvalue.TimerTOF)

	timer = StepTimer(timer, TimerInputs{IN: true, PT: 100}, 0)
	if !timer.Q || timer.ET != 0 {
		t.Fatalf("expected Q=true while IN true, got ET=%d Q=%v", timer.ET, timer.Q)
	}

	timer = StepTimer(timer, TimerInputs{IN: false, PT: 100}, 10)
	if !timer.Q {
		t.Fatal("expected Q still true immediately after falling edge")
	}

	timer = StepTimer(timer, TimerInputs{IN: false, PT: 100}, 60)
	if !timer.Q || timer.ET != 50 {
		t.Fatalf("expected ET=50 Q=true mid-delay, got ET=%d Q=%v", timer.ET, timer.Q)
	}

	timer = StepTimer(timer, TimerInputs{IN: false, PT: 100}, 200)
	if timer.Q {
		t.Fatal("expected Q=false once delay elapses")
	}
}

func TestTPPulseAndNoRetriggerUntilComplete(t *testing.T) {
	timer := tagvalue.NewTimer(tagvalue.TimerTP)

	timer = StepTimer(timer, TimerInputs{IN: true, PT: 100}, 0)
	if !timer.Q || !timer.Triggered {
		t.Fatal("expected pulse to start on rising edge")
	}

	// IN drops mid-pulse; Q must keep running for the full PT regardless.
	timer = StepTimer(timer, TimerInputs{IN: false, PT: 100}, 50)
	if !timer.Q {
		t.Fatal("expected pulse to continue after IN drops mid-pulse")
	}

	// IN rises again before the pulse completes: must not retrigger.
	timer = StepTimer(timer, TimerInputs{IN: true, PT: 100}, 60)
	if timer.ET != 60 {
		t.Fatalf("expected ET to keep tracking the original pulse, got %d", timer.ET)
	}

	timer = StepTimer(timer, TimerInputs{IN: true, PT: 100}, 150)
	if timer.Q || timer.Triggered {
		t.Fatal("expected pulse to end once PT elapses")
	}
}

func TestTPRetriggerAfterCompletion(t *testing.T) {
	timer := tagvalue.NewTimer(tagvalue.TimerTP)
	timer = StepTimer(timer, TimerInputs{IN: true, PT: 10}, 0)
	timer = StepTimer(timer, TimerInputs{IN: false, PT: 10}, 20) // completes
	if timer.Q || timer.Triggered {
		t.Fatal("expected pulse complete")
	}

	timer = StepTimer(timer, TimerInputs{IN: true, PT: 10}, 100)
	if !timer.Q || !timer.Triggered {
		t.Fatal("expected a fresh rising edge to retrigger the pulse")
	}
}

func TestTimerStepDoesNotMutateInput(t *testing.T) {
	original := tagvalue.NewTimer(tagvalue.TimerTON)
	snapshotBefore := *original
	_ = StepTimer(original, TimerInputs{IN: true, PT: 10}, 5)
	if *original != snapshotBefore {
		t.Fatal("StepTimer must not mutate its input instance")
	}
}
