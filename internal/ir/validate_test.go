package ir

import (
	"errors"
	"testing"
)

func validProgram() *Program {
	return &Program{
		Version: "1.0",
		OrganizationBlocks: []OrganizationBlock{
			{
				ID:   "ob1",
				Type: OBCyclic,
				Networks: []Network{
					{
						ID: "n1",
						Statements: []Statement{
							{
								ID:   "s1",
								Type: StmtAssignment,
								Assignment: &Assignment{
									Target:     Operand{Tag: "motor"},
									Expression: OperandExpr(Operand{Tag: "start_button"}),
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestProgramValidateAccepts(t *testing.T) {
	if err := validProgram().Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestProgramValidateMissingVersion(t *testing.T) {
	p := validProgram()
	p.Version = ""
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestProgramValidateDuplicateNetworkID(t *testing.T) {
	p := validProgram()
	p.OrganizationBlocks[0].Networks = append(p.OrganizationBlocks[0].Networks, p.OrganizationBlocks[0].Networks[0])
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for duplicate network id")
	}
}

func TestProgramValidateUnresolvedOperand(t *testing.T) {
	p := validProgram()
	p.OrganizationBlocks[0].Networks[0].Statements[0].Assignment.Target = Operand{}
	err := p.Validate()
	if err == nil {
		t.Fatal("expected error for unresolved operand")
	}
	if !errors.Is(err, ErrOperandUnresolved) {
		t.Errorf("expected ErrOperandUnresolved in chain, got %v", err)
	}
}

func TestProgramValidateUnknownBinaryOp(t *testing.T) {
	p := validProgram()
	p.OrganizationBlocks[0].Networks[0].Statements[0].Assignment.Expression = BinaryExprNode(
		BinaryOp("NOPE"), BoolLiteral(true), BoolLiteral(false))
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for unknown binary op")
	}
}

func TestProgramValidateIfStatement(t *testing.T) {
	p := validProgram()
	p.OrganizationBlocks[0].Networks[0].Statements = []Statement{
		{
			ID:   "s1",
			Type: StmtIf,
			If: &IfStatement{
				Condition: OperandExpr(Operand{Tag: "start_button"}),
				Then: []Statement{
					{ID: "s1.1", Type: StmtAssignment, Assignment: &Assignment{
						Target:     Operand{Tag: "motor"},
						Expression: BoolLiteral(true),
					}},
				},
				ElsIf: []ElsIf{
					{
						Condition: OperandExpr(Operand{Tag: "stop_button"}),
						Block: []Statement{
							{ID: "s1.2", Type: StmtAssignment, Assignment: &Assignment{
								Target:     Operand{Tag: "motor"},
								Expression: BoolLiteral(false),
							}},
						},
					},
				},
			},
		},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProgramValidateCallStatement(t *testing.T) {
	p := validProgram()
	p.OrganizationBlocks[0].Networks[0].Statements = []Statement{
		{
			ID:   "s1",
			Type: StmtCall,
			Call: &Call{
				Function: "TON",
				Instance: Operand{Tag: "timer1"},
				Inputs: map[string]*Expression{
					"IN": OperandExpr(Operand{Tag: "start_button"}),
				},
				Outputs: map[string]Operand{
					"Q": {Tag: "motor"},
				},
			},
		},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProgramValidateCallMissingFunction(t *testing.T) {
	p := validProgram()
	p.OrganizationBlocks[0].Networks[0].Statements = []Statement{
		{ID: "s1", Type: StmtCall, Call: &Call{Instance: Operand{Tag: "timer1"}}},
	}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for missing function name")
	}
}

func validLADProgram() *LADProgram {
	return &LADProgram{
		Version: "1.0",
		Networks: []LADNetwork{
			{
				ID: "n1",
				Rungs: []Rung{
					{
						ID: "r1",
						Elements: []LADElement{
							{Type: ElementContact, Contact: ContactNO, Operand: "start_button"},
							{Type: ElementCoil, Coil: CoilOutput, Operand: "motor"},
						},
					},
				},
			},
		},
	}
}

func TestLADProgramValidateAccepts(t *testing.T) {
	if err := validLADProgram().Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestLADProgramValidateBranch(t *testing.T) {
	lp := validLADProgram()
	lp.Networks[0].Rungs[0].Elements = []LADElement{
		{
			Type: ElementBranch,
			Branches: [][]LADElement{
				{{Type: ElementContact, Contact: ContactNO, Operand: "a"}},
				{{Type: ElementContact, Contact: ContactNC, Operand: "b"}},
			},
		},
		{Type: ElementCoil, Coil: CoilSet, Operand: "motor"},
	}
	if err := lp.Validate(); err != nil {
		t.Fatalf("unexpected error validating branch rung: %v", err)
	}
}

func TestLADProgramValidateUnknownContactType(t *testing.T) {
	lp := validLADProgram()
	lp.Networks[0].Rungs[0].Elements[0].Contact = ContactType("XX")
	if err := lp.Validate(); err == nil {
		t.Fatal("expected error for unknown contact type")
	}
}

func TestLADProgramValidateDuplicateRungID(t *testing.T) {
	lp := validLADProgram()
	lp.Networks[0].Rungs = append(lp.Networks[0].Rungs, lp.Networks[0].Rungs[0])
	if err := lp.Validate(); err == nil {
		t.Fatal("expected error for duplicate rung id")
	}
}
