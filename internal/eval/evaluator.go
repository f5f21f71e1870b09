// Package eval implements the recursive expression evaluator: a pure
// function from an expression tree and tag store state to a value,
// save for the intentional edge-memory side effect (spec §4.2).
package eval

import (
	"fmt"

	"github.com/go-plc/ladderscan/internal/ir"
	"github.com/go-plc/ladderscan/internal/tagvalue"
)

// TagReader is the read side of a tag store an Evaluator needs:
// pending-first reads plus edge memory (spec §4.1, §4.2).
type TagReader interface {
	ReadPendingOrSnapshot(tag string) (tagvalue.Value, bool)
	GetEdgeMemory(tag, edge string) bool
	SetEdgeMemory(tag, edge string, v bool)
}

// UnsupportedCallError reports an evaluation of a reserved call
// expression (spec §4.2).
type UnsupportedCallError struct {
	Name string
}

func (e *UnsupportedCallError) Error() string {
	return fmt.Sprintf("eval: unsupported call expression %q", e.Name)
}

// DivisionByZeroError reports a DIV or MOD by a zero right operand
// (spec §4.2).
type DivisionByZeroError struct {
	Op ir.BinaryOp
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("eval: division by zero in %s", e.Op)
}

// Evaluator evaluates ir.Expression trees against a TagReader.
type Evaluator struct {
	store TagReader
}

// New returns an Evaluator reading through store.
func New(store TagReader) *Evaluator {
	return &Evaluator{store: store}
}

// Evaluate implements the evaluate(expression) contract (spec §4.2).
func (e *Evaluator) Evaluate(expr *ir.Expression) (tagvalue.Value, error) {
	if expr == nil {
		return tagvalue.Value{}, fmt.Errorf("eval: nil expression")
	}
	switch expr.ExprType {
	case ir.ExprLiteral:
		return e.evalLiteral(expr.Literal), nil
	case ir.ExprOperand:
		return e.evalOperand(expr.Operand)
	case ir.ExprUnary:
		return e.evalUnary(expr.Unary)
	case ir.ExprBinary:
		return e.evalBinary(expr.Binary)
	case ir.ExprCall:
		name := ""
		if expr.Call != nil {
			name = expr.Call.Name
		}
		return tagvalue.Value{}, &UnsupportedCallError{Name: name}
	default:
		return tagvalue.Value{}, fmt.Errorf("eval: unknown expression type %q", expr.ExprType)
	}
}

func (e *Evaluator) evalLiteral(lit *ir.Literal) tagvalue.Value {
	switch lit.DataType {
	case ir.DataTypeBool:
		return tagvalue.Bool(lit.Bool)
	case ir.DataTypeNumber:
		return tagvalue.Number(lit.Number)
	case ir.DataTypeString:
		return tagvalue.String(lit.String)
	default:
		return tagvalue.Value{}
	}
}

// evalOperand resolves the operand's tag id, reads its pending-or-snapshot
// value (absent defaults to false), and applies the edge rule if the operand
// carries an edge marker (spec §4.1, §4.2 Edge rule).
func (e *Evaluator) evalOperand(op *ir.Operand) (tagvalue.Value, error) {
	tagID, err := op.TagID()
	if err != nil {
		return tagvalue.Value{}, err
	}
	raw, ok := e.store.ReadPendingOrSnapshot(tagID)
	if !ok {
		raw = tagvalue.Bool(false)
	}
	if op.Edge == ir.EdgeNone {
		return raw, nil
	}

	edgeStr := string(op.Edge)
	cur := raw.ToBool()
	prev := e.store.GetEdgeMemory(tagID, edgeStr)
	e.store.SetEdgeMemory(tagID, edgeStr, cur)

	var result bool
	switch op.Edge {
	case ir.EdgeRising:
		result = cur && !prev
	case ir.EdgeFalling:
		result = !cur && prev
	default:
		return tagvalue.Value{}, fmt.Errorf("eval: unknown edge kind %q", op.Edge)
	}
	return tagvalue.Bool(result), nil
}

func (e *Evaluator) evalUnary(u *ir.UnaryExpr) (tagvalue.Value, error) {
	operand, err := e.Evaluate(u.Operand)
	if err != nil {
		return tagvalue.Value{}, err
	}
	switch u.Op {
	case ir.OpNot:
		return tagvalue.Bool(!operand.ToBool()), nil
	case ir.OpNeg:
		return tagvalue.Number(-operand.ToNumber()), nil
	default:
		return tagvalue.Value{}, fmt.Errorf("eval: unknown unary op %q", u.Op)
	}
}

// evalBinary evaluates both sides, left before right, unconditionally
// (no short-circuit), then applies the operator (spec §4.2).
func (e *Evaluator) evalBinary(b *ir.BinaryExpr) (tagvalue.Value, error) {
	left, err := e.Evaluate(b.Left)
	if err != nil {
		return tagvalue.Value{}, err
	}
	right, err := e.Evaluate(b.Right)
	if err != nil {
		return tagvalue.Value{}, err
	}

	switch b.Op {
	case ir.OpAnd:
		return tagvalue.Bool(left.ToBool() && right.ToBool()), nil
	case ir.OpOr:
		return tagvalue.Bool(left.ToBool() || right.ToBool()), nil
	case ir.OpXor:
		return tagvalue.Bool(left.ToBool() != right.ToBool()), nil
	case ir.OpEq:
		return tagvalue.Bool(left.Equal(right)), nil
	case ir.OpNe:
		return tagvalue.Bool(!left.Equal(right)), nil
	case ir.OpLt:
		return tagvalue.Bool(left.ToNumber() < right.ToNumber()), nil
	case ir.OpGt:
		return tagvalue.Bool(left.ToNumber() > right.ToNumber()), nil
	case ir.OpLe:
		return tagvalue.Bool(left.ToNumber() <= right.ToNumber()), nil
	case ir.OpGe:
		return tagvalue.Bool(left.ToNumber() >= right.ToNumber()), nil
	case ir.OpAdd:
		return tagvalue.Number(left.ToNumber() + right.ToNumber()), nil
	case ir.OpSub:
		return tagvalue.Number(left.ToNumber() - right.ToNumber()), nil
	case ir.OpMul:
		return tagvalue.Number(left.ToNumber() * right.ToNumber()), nil
	case ir.OpDiv:
		rn := right.ToNumber()
		if rn == 0 {
			return tagvalue.Value{}, &DivisionByZeroError{Op: b.Op}
		}
		return tagvalue.Number(left.ToNumber() / rn), nil
	case ir.OpMod:
		rn := right.ToNumber()
		if rn == 0 {
			return tagvalue.Value{}, &DivisionByZeroError{Op: b.Op}
		}
		ln := left.ToNumber()
		return tagvalue.Number(ln - rn*float64(int64(ln/rn))), nil
	default:
		return tagvalue.Value{}, fmt.Errorf("eval: unknown binary op %q", b.Op)
	}
}
