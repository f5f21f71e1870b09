package ir

import "fmt"

// Validate walks a Program checking discriminator consistency and operand
// syntax, returning the first *ValidationError found (spec §6, §7).
func (p *Program) Validate() error {
	if p.Version == "" {
		return newValidationError("program", "missing version")
	}
	seenOB := map[string]bool{}
	for _, ob := range p.OrganizationBlocks {
		if ob.ID == "" {
			return newValidationError("program", "organization block missing id")
		}
		if seenOB[ob.ID] {
			return newValidationError(ob.ID, "duplicate organization block id")
		}
		seenOB[ob.ID] = true
		switch ob.Type {
		case OBCyclic, OBStartup, OBInterrupt:
		default:
			return newValidationError(ob.ID, fmt.Sprintf("unknown organization block type %q", ob.Type))
		}
		seenNet := map[string]bool{}
		for _, net := range ob.Networks {
			if net.ID == "" {
				return newValidationError(ob.ID, "network missing id")
			}
			if seenNet[net.ID] {
				return newValidationError(net.ID, "duplicate network id")
			}
			seenNet[net.ID] = true
			if err := validateStatements(net.ID, net.Statements); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateStatements(context string, stmts []Statement) error {
	seen := map[string]bool{}
	for _, s := range stmts {
		if s.ID == "" {
			return newValidationError(context, "statement missing id")
		}
		if seen[s.ID] {
			return newValidationError(s.ID, "duplicate statement id")
		}
		seen[s.ID] = true
		if err := validateStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func validateStatement(s Statement) error {
	switch s.Type {
	case StmtAssignment:
		if s.Assignment == nil {
			return newValidationError(s.ID, "assignment statement missing assignment body")
		}
		if err := validateOperand(s.ID, s.Assignment.Target); err != nil {
			return err
		}
		return validateExpr(s.ID, s.Assignment.Expression)
	case StmtCall:
		if s.Call == nil {
			return newValidationError(s.ID, "call statement missing call body")
		}
		if s.Call.Function == "" {
			return newValidationError(s.ID, "call statement missing function name")
		}
		if err := validateOperand(s.ID, s.Call.Instance); err != nil {
			return err
		}
		for name, expr := range s.Call.Inputs {
			if err := validateExpr(s.ID, expr); err != nil {
				return wrapValidationError(s.ID, "input "+name, err)
			}
		}
		for name, op := range s.Call.Outputs {
			if err := validateOperand(s.ID, op); err != nil {
				return wrapValidationError(s.ID, "output "+name, err)
			}
		}
		return nil
	case StmtIf:
		if s.If == nil {
			return newValidationError(s.ID, "if statement missing if body")
		}
		if err := validateExpr(s.ID, s.If.Condition); err != nil {
			return err
		}
		if err := validateStatements(s.ID, s.If.Then); err != nil {
			return err
		}
		for _, ei := range s.If.ElsIf {
			if err := validateExpr(s.ID, ei.Condition); err != nil {
				return err
			}
			if err := validateStatements(s.ID, ei.Block); err != nil {
				return err
			}
		}
		return validateStatements(s.ID, s.If.Else)
	case StmtComment:
		return nil
	default:
		return newValidationError(s.ID, fmt.Sprintf("unknown statement type %q", s.Type))
	}
}

func validateExpr(context string, e *Expression) error {
	if e == nil {
		return newValidationError(context, "missing expression")
	}
	switch e.ExprType {
	case ExprOperand:
		if e.Operand == nil {
			return newValidationError(context, "operand expression missing operand")
		}
		return validateOperand(context, *e.Operand)
	case ExprLiteral:
		if e.Literal == nil {
			return newValidationError(context, "literal expression missing literal")
		}
		switch e.Literal.DataType {
		case DataTypeBool, DataTypeNumber, DataTypeString:
			return nil
		default:
			return newValidationError(context, fmt.Sprintf("unknown literal data type %q", e.Literal.DataType))
		}
	case ExprUnary:
		if e.Unary == nil {
			return newValidationError(context, "unary expression missing body")
		}
		switch e.Unary.Op {
		case OpNot, OpNeg:
		default:
			return newValidationError(context, fmt.Sprintf("unknown unary op %q", e.Unary.Op))
		}
		return validateExpr(context, e.Unary.Operand)
	case ExprBinary:
		if e.Binary == nil {
			return newValidationError(context, "binary expression missing body")
		}
		switch e.Binary.Op {
		case OpAnd, OpOr, OpXor, OpEq, OpNe, OpLt, OpGt, OpLe, OpGe, OpAdd, OpSub, OpMul, OpDiv, OpMod:
		default:
			return newValidationError(context, fmt.Sprintf("unknown binary op %q", e.Binary.Op))
		}
		if err := validateExpr(context, e.Binary.Left); err != nil {
			return err
		}
		return validateExpr(context, e.Binary.Right)
	case ExprCall:
		return newValidationError(context, "call expressions are not supported")
	default:
		return newValidationError(context, fmt.Sprintf("unknown expression type %q", e.ExprType))
	}
}

func validateOperand(context string, op Operand) error {
	if op.Tag == "" && op.Address == "" {
		return wrapValidationError(context, "operand unresolved", ErrOperandUnresolved)
	}
	if op.Tag != "" && !ValidTagName(op.Tag) {
		return newValidationError(context, fmt.Sprintf("invalid tag name %q", op.Tag))
	}
	if op.Address != "" && !ValidAddress(op.Address) {
		return newValidationError(context, fmt.Sprintf("invalid address %q", op.Address))
	}
	switch op.Edge {
	case EdgeNone, EdgeRising, EdgeFalling:
	default:
		return newValidationError(context, fmt.Sprintf("unknown edge kind %q", op.Edge))
	}
	return nil
}

// Validate checks a LADProgram's structural consistency prior to
// compilation (spec §4.5, §6).
func (lp *LADProgram) Validate() error {
	if lp.Version == "" {
		return newValidationError("lad_program", "missing version")
	}
	seenNet := map[string]bool{}
	for _, net := range lp.Networks {
		if net.ID == "" {
			return newValidationError("lad_program", "network missing id")
		}
		if seenNet[net.ID] {
			return newValidationError(net.ID, "duplicate network id")
		}
		seenNet[net.ID] = true
		seenRung := map[string]bool{}
		for _, rung := range net.Rungs {
			if rung.ID == "" {
				return newValidationError(net.ID, "rung missing id")
			}
			if seenRung[rung.ID] {
				return newValidationError(rung.ID, "duplicate rung id")
			}
			seenRung[rung.ID] = true
			if err := validateElements(rung.ID, rung.Elements); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateElements(context string, elems []LADElement) error {
	for _, el := range elems {
		switch el.Type {
		case ElementContact:
			if err := validateOperandRef(context, el.Operand); err != nil {
				return err
			}
			switch el.Contact {
			case ContactNO, ContactNC, ContactP, ContactN:
			default:
				return newValidationError(context, fmt.Sprintf("unknown contact type %q", el.Contact))
			}
		case ElementCoil:
			if err := validateOperandRef(context, el.Operand); err != nil {
				return err
			}
			switch el.Coil {
			case CoilOutput, CoilSet, CoilReset:
			default:
				return newValidationError(context, fmt.Sprintf("unknown coil type %q", el.Coil))
			}
		case ElementBranch:
			if len(el.Branches) < 2 {
				return newValidationError(context, "branch must have at least 2 parallel paths")
			}
			for _, leg := range el.Branches {
				if err := validateElements(context, leg); err != nil {
					return err
				}
			}
		default:
			return newValidationError(context, fmt.Sprintf("unknown element type %q", el.Type))
		}
	}
	return nil
}

func validateOperandRef(context, ref string) error {
	if ref == "" {
		return wrapValidationError(context, "operand unresolved", ErrOperandUnresolved)
	}
	if ValidAddress(ref) {
		return nil
	}
	if !ValidTagName(ref) {
		return newValidationError(context, fmt.Sprintf("invalid operand reference %q", ref))
	}
	return nil
}
