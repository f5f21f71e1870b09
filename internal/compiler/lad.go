// Package compiler lowers a LAD (ladder diagram) program into the IR
// the runtime executes (spec §4.5).
package compiler

import (
	"fmt"

	"github.com/go-plc/ladderscan/internal/ir"
)

// CompileError reports a per-rung lowering failure, tagged with the
// failing rung's id (spec §4.5 "Compiler diagnostics are reported per
// rung id").
type CompileError struct {
	RungID string
	Msg    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiler: rung %s: %s", e.RungID, e.Msg)
}

// Compile lowers a validated LADProgram into an ir.Program, failing
// fast on the first rung that does not compile (spec §4.5). The
// resulting program carries a single cyclic organization block, one
// network per LAD network, and one assignment statement per rung.
func Compile(lp *ir.LADProgram) (*ir.Program, error) {
	if err := lp.Validate(); err != nil {
		return nil, err
	}

	ob := ir.OrganizationBlock{ID: "ob_main", Name: "Main", Type: ir.OBCyclic}
	for _, ladNet := range lp.Networks {
		net := ir.Network{ID: ladNet.ID, Title: ladNet.Title}
		for _, rung := range ladNet.Rungs {
			stmt, err := compileRung(rung)
			if err != nil {
				return nil, err
			}
			net.Statements = append(net.Statements, stmt)
		}
		ob.Networks = append(ob.Networks, net)
	}

	return &ir.Program{
		Version:            lp.Version,
		OrganizationBlocks: []ir.OrganizationBlock{ob},
	}, nil
}

// compileRung lowers one rung to a single assignment statement whose
// target is the rung's coil operand (spec §4.5).
func compileRung(rung ir.Rung) (ir.Statement, error) {
	coilIdx := -1
	for i, el := range rung.Elements {
		if el.Type == ir.ElementCoil {
			coilIdx = i
		}
	}
	if coilIdx == -1 {
		return ir.Statement{}, &CompileError{RungID: rung.ID, Msg: "rung has no coil"}
	}
	if coilIdx != len(rung.Elements)-1 {
		return ir.Statement{}, &CompileError{RungID: rung.ID, Msg: "coil must be the last element in the rung"}
	}

	coil := rung.Elements[coilIdx]
	body := rung.Elements[:coilIdx]

	expr, err := compileSeries(rung.ID, body)
	if err != nil {
		return ir.Statement{}, err
	}

	target := coil.ResolvedOperand(ir.EdgeNone)
	return ir.Statement{
		ID:   rung.ID,
		Type: ir.StmtAssignment,
		Assignment: &ir.Assignment{
			Target:     target,
			Expression: expr,
		},
	}, nil
}

// compileSeries composes elems left-to-right with AND, producing a
// left-leaning tree. A rung with no elements before the coil compiles
// to the literal true (spec §4.5).
func compileSeries(rungID string, elems []ir.LADElement) (*ir.Expression, error) {
	if len(elems) == 0 {
		return ir.BoolLiteral(true), nil
	}

	expr, err := compileElement(rungID, elems[0])
	if err != nil {
		return nil, err
	}
	for _, el := range elems[1:] {
		next, err := compileElement(rungID, el)
		if err != nil {
			return nil, err
		}
		expr = ir.BinaryExprNode(ir.OpAnd, expr, next)
	}
	return expr, nil
}

// compileElement lowers a single contact or branch element to an
// expression (spec §4.5).
func compileElement(rungID string, el ir.LADElement) (*ir.Expression, error) {
	switch el.Type {
	case ir.ElementContact:
		return compileContact(rungID, el)
	case ir.ElementBranch:
		return compileBranch(rungID, el)
	case ir.ElementCoil:
		return nil, &CompileError{RungID: rungID, Msg: "coil may only appear as the rung's final element"}
	default:
		return nil, &CompileError{RungID: rungID, Msg: fmt.Sprintf("unknown element type %q", el.Type)}
	}
}

// compileContact lowers NO/NC/P/N per spec §4.5: NO is a bare operand
// read, NC is NOT(operand), P and N carry rising/falling edge markers.
func compileContact(rungID string, el ir.LADElement) (*ir.Expression, error) {
	switch el.Contact {
	case ir.ContactNO:
		return ir.OperandExpr(el.ResolvedOperand(ir.EdgeNone)), nil
	case ir.ContactNC:
		return ir.UnaryExprNode(ir.OpNot, ir.OperandExpr(el.ResolvedOperand(ir.EdgeNone))), nil
	case ir.ContactP:
		return ir.OperandExpr(el.ResolvedOperand(ir.EdgeRising)), nil
	case ir.ContactN:
		return ir.OperandExpr(el.ResolvedOperand(ir.EdgeFalling)), nil
	default:
		return nil, &CompileError{RungID: rungID, Msg: fmt.Sprintf("unknown contact type %q", el.Contact)}
	}
}

// compileBranch lowers each parallel path with the series rule, then
// combines paths left-to-right with OR. An empty path is the literal
// true (spec §4.5).
func compileBranch(rungID string, el ir.LADElement) (*ir.Expression, error) {
	if len(el.Branches) == 0 {
		return nil, &CompileError{RungID: rungID, Msg: "branch has no paths"}
	}

	expr, err := compileSeries(rungID, el.Branches[0])
	if err != nil {
		return nil, err
	}
	for _, path := range el.Branches[1:] {
		next, err := compileSeries(rungID, path)
		if err != nil {
			return nil, err
		}
		expr = ir.BinaryExprNode(ir.OpOr, expr, next)
	}
	return expr, nil
}
