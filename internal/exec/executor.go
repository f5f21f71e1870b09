// Package exec implements the statement executor: dispatches
// assignment, function-block call, if, and comment statements,
// writing all effects to the pending tag layer (spec §4.3).
package exec

import (
	"fmt"

	"github.com/go-plc/ladderscan/internal/eval"
	"github.com/go-plc/ladderscan/internal/instr"
	"github.com/go-plc/ladderscan/internal/ir"
	"github.com/go-plc/ladderscan/internal/tagvalue"
)

// TagReadWriter is the tag store surface the executor needs: eval's
// read side plus pending writes (spec §4.1, §4.3).
type TagReadWriter interface {
	eval.TagReader
	WritePending(tag string, value tagvalue.Value)
}

// UnknownFunctionError reports a Call statement naming a function the
// executor does not recognize (spec §4.3).
type UnknownFunctionError struct {
	Function string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("exec: unknown function %q", e.Function)
}

// Executor executes ir.Statement values against a TagReadWriter,
// using the clock supplied for the current scan to step instruction
// primitives (spec §4.3, §4.6).
type Executor struct {
	store     TagReadWriter
	evaluator *eval.Evaluator
	now       int64
}

// New returns an Executor bound to store, with its own Evaluator.
func New(store TagReadWriter) *Executor {
	return &Executor{store: store, evaluator: eval.New(store)}
}

// SetClock publishes the current scan's start_time for timers to use
// (spec §4.6 phase 3).
func (x *Executor) SetClock(now int64) {
	x.now = now
}

// Execute dispatches on the statement's variant (spec §4.3).
func (x *Executor) Execute(s ir.Statement) error {
	switch s.Type {
	case ir.StmtAssignment:
		return x.execAssignment(s.Assignment)
	case ir.StmtCall:
		return x.execCall(s.Call)
	case ir.StmtIf:
		return x.execIf(s.If)
	case ir.StmtComment:
		return nil
	default:
		return fmt.Errorf("exec: unknown statement type %q", s.Type)
	}
}

func (x *Executor) execAssignment(a *ir.Assignment) error {
	v, err := x.evaluator.Evaluate(a.Expression)
	if err != nil {
		return err
	}
	tagID, err := a.Target.TagID()
	if err != nil {
		return err
	}
	x.store.WritePending(tagID, v)
	return nil
}

func (x *Executor) execIf(s *ir.IfStatement) error {
	cond, err := x.evaluator.Evaluate(s.Condition)
	if err != nil {
		return err
	}
	if cond.ToBool() {
		return x.execBlock(s.Then)
	}
	for _, branch := range s.ElsIf {
		v, err := x.evaluator.Evaluate(branch.Condition)
		if err != nil {
			return err
		}
		if v.ToBool() {
			return x.execBlock(branch.Block)
		}
	}
	return x.execBlock(s.Else)
}

func (x *Executor) execBlock(stmts []ir.Statement) error {
	for _, s := range stmts {
		if err := x.Execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (x *Executor) execCall(c *ir.Call) error {
	instanceTag, err := c.Instance.TagID()
	if err != nil {
		return err
	}

	inputs := make(map[string]tagvalue.Value, len(c.Inputs))
	for name, expr := range c.Inputs {
		v, err := x.evaluator.Evaluate(expr)
		if err != nil {
			return err
		}
		inputs[name] = v
	}

	switch c.Function {
	case "TON", "TOF", "TP":
		return x.execTimerCall(c, instanceTag, inputs)
	case "CTU":
		return x.execCTUCall(c, instanceTag, inputs)
	case "CTD":
		return x.execCTDCall(c, instanceTag, inputs)
	case "CTUD":
		return x.execCTUDCall(c, instanceTag, inputs)
	case "SR", "RS":
		return x.execLatchCall(c, instanceTag, inputs)
	default:
		return &UnknownFunctionError{Function: c.Function}
	}
}

func (x *Executor) currentInstance(tag string) (tagvalue.Value, bool) {
	return x.store.ReadPendingOrSnapshot(tag)
}

func (x *Executor) writeOutputs(c *ir.Call, values map[string]bool, numbers map[string]float64) error {
	for name, op := range c.Outputs {
		var v tagvalue.Value
		if n, ok := numbers[name]; ok {
			v = tagvalue.Number(n)
		} else if b, ok := values[name]; ok {
			v = tagvalue.Bool(b)
		} else {
			continue
		}
		tagID, err := op.TagID()
		if err != nil {
			return err
		}
		x.store.WritePending(tagID, v)
	}
	return nil
}

func (x *Executor) execTimerCall(c *ir.Call, instanceTag string, inputs map[string]tagvalue.Value) error {
	cur, ok := x.currentInstance(instanceTag)
	var timer *tagvalue.TimerInstance
	if ok && cur.Kind == tagvalue.KindTimer && cur.Timer != nil {
		timer = cur.Timer
	} else {
		timer = tagvalue.NewTimer(tagvalue.TimerKind(c.Function))
	}

	in := instr.TimerInputs{
		IN: inputs["IN"].ToBool(),
		PT: int64(inputs["PT"].ToNumber()),
	}
	next := instr.StepTimer(timer, in, x.now)
	x.store.WritePending(instanceTag, tagvalue.FromTimer(next))

	return x.writeOutputs(c, map[string]bool{"Q": next.Q}, map[string]float64{"ET": float64(next.ET)})
}

func (x *Executor) execCTUCall(c *ir.Call, instanceTag string, inputs map[string]tagvalue.Value) error {
	cur, ok := x.currentInstance(instanceTag)
	var counter *tagvalue.CounterInstance
	if ok && cur.Kind == tagvalue.KindCounter && cur.Counter != nil {
		counter = cur.Counter
	} else {
		counter = tagvalue.NewCounter(tagvalue.CounterCTU)
	}

	in := instr.CTUInputs{
		CU: inputs["CU"].ToBool(),
		R:  inputs["R"].ToBool(),
		PV: int32(inputs["PV"].ToNumber()),
	}
	next := instr.StepCTU(counter, in)
	x.store.WritePending(instanceTag, tagvalue.FromCounter(next))

	return x.writeOutputs(c, map[string]bool{"Q": next.Q}, map[string]float64{"CV": float64(next.CV)})
}

func (x *Executor) execCTDCall(c *ir.Call, instanceTag string, inputs map[string]tagvalue.Value) error {
	cur, ok := x.currentInstance(instanceTag)
	var counter *tagvalue.CounterInstance
	if ok && cur.Kind == tagvalue.KindCounter && cur.Counter != nil {
		counter = cur.Counter
	} else {
		counter = tagvalue.NewCounter(tagvalue.CounterCTD)
	}

	in := instr.CTDInputs{
		CD: inputs["CD"].ToBool(),
		LD: inputs["LD"].ToBool(),
		PV: int32(inputs["PV"].ToNumber()),
	}
	next := instr.StepCTD(counter, in)
	x.store.WritePending(instanceTag, tagvalue.FromCounter(next))

	return x.writeOutputs(c, map[string]bool{"Q": next.Q}, map[string]float64{"CV": float64(next.CV)})
}

func (x *Executor) execCTUDCall(c *ir.Call, instanceTag string, inputs map[string]tagvalue.Value) error {
	cur, ok := x.currentInstance(instanceTag)
	var counter *tagvalue.CounterInstance
	if ok && cur.Kind == tagvalue.KindCounter && cur.Counter != nil {
		counter = cur.Counter
	} else {
		counter = tagvalue.NewCounter(tagvalue.CounterCTUD)
	}

	in := instr.CTUDInputs{
		CU: inputs["CU"].ToBool(),
		CD: inputs["CD"].ToBool(),
		R:  inputs["R"].ToBool(),
		LD: inputs["LD"].ToBool(),
		PV: int32(inputs["PV"].ToNumber()),
	}
	next := instr.StepCTUD(counter, in)
	x.store.WritePending(instanceTag, tagvalue.FromCounter(next))

	return x.writeOutputs(c,
		map[string]bool{"QU": next.QU, "QD": next.QD},
		map[string]float64{"CV": float64(next.CV)})
}

func (x *Executor) execLatchCall(c *ir.Call, instanceTag string, inputs map[string]tagvalue.Value) error {
	cur, ok := x.currentInstance(instanceTag)
	var latch *tagvalue.LatchInstance
	if ok && cur.Kind == tagvalue.KindLatch && cur.Latch != nil {
		latch = cur.Latch
	} else {
		latch = tagvalue.NewLatch(tagvalue.LatchKind(c.Function))
	}

	in := instr.LatchInputs{
		S: inputs["S"].ToBool(),
		R: inputs["R"].ToBool(),
	}
	next := instr.StepLatch(latch, in)
	x.store.WritePending(instanceTag, tagvalue.FromLatch(next))

	return x.writeOutputs(c, map[string]bool{"Q": next.Q}, nil)
}
