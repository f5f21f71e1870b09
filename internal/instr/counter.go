package instr

import (
	"github.com/go-plc/ladderscan/internal/constants"
	"github.com/go-plc/ladderscan/internal/tagvalue"
)

const (
	maxCounterValue int32 = constants.MaxCounterValue
	minCounterValue int32 = constants.MinCounterValue
)

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CTUInputs carries CTU's inputs for one step.
type CTUInputs struct {
	CU bool
	R  bool
	PV int32
}

// StepCTU advances a CTU counter by one scan (spec §4.4 CTU).
func StepCTU(old *tagvalue.CounterInstance, in CTUInputs) *tagvalue.CounterInstance {
	c := *old
	c.PV = in.PV
	if in.R {
		c.CV = 0
		c.Q = false
	} else {
		if in.CU && !old.PrevCU {
			c.CV = clampInt32(c.CV+1, minCounterValue, maxCounterValue)
		}
		c.Q = c.CV >= c.PV
	}
	c.PrevCU = in.CU
	return &c
}

// CTDInputs carries CTD's inputs for one step.
type CTDInputs struct {
	CD bool
	LD bool
	PV int32
}

// StepCTD advances a CTD counter by one scan (spec §4.4 CTD).
func StepCTD(old *tagvalue.CounterInstance, in CTDInputs) *tagvalue.CounterInstance {
	c := *old
	c.PV = in.PV
	if in.LD {
		c.CV = in.PV
		c.Q = c.CV <= 0
	} else {
		if in.CD && !old.PrevCD {
			c.CV = clampInt32(c.CV-1, minCounterValue, maxCounterValue)
		}
		c.Q = c.CV <= 0
	}
	c.PrevCD = in.CD
	return &c
}

// CTUDInputs carries CTUD's inputs for one step.
type CTUDInputs struct {
	CU bool
	CD bool
	R  bool
	LD bool
	PV int32
}

// StepCTUD advances a CTUD counter by one scan. Priority: R > LD >
// count operations; simultaneous CU/CD rising edges cancel (spec §4.4
// CTUD).
func StepCTUD(old *tagvalue.CounterInstance, in CTUDInputs) *tagvalue.CounterInstance {
	c := *old
	c.PV = in.PV

	cuRising := in.CU && !old.PrevCU
	cdRising := in.CD && !old.PrevCD

	switch {
	case in.R:
		c.CV = 0
	case in.LD:
		c.CV = in.PV
	case cuRising && cdRising:
		// cancel: no change
	case cuRising:
		c.CV = clampInt32(c.CV+1, minCounterValue, maxCounterValue)
	case cdRising:
		c.CV = clampInt32(c.CV-1, minCounterValue, maxCounterValue)
	}

	c.QU = c.CV >= c.PV
	c.QD = c.CV <= 0
	c.PrevCU = in.CU
	c.PrevCD = in.CD
	c.PrevR = in.R
	c.PrevLD = in.LD
	return &c
}
