package plc

import (
	"errors"
	"testing"
)

func TestNewErrorFormatsOpAndCode(t *testing.T) {
	err := NewError("load_lad", ErrCodeCompile, "rung r1 has no coil")
	if err.Error() != "plc: rung r1 has no coil (op=load_lad)" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestWrapErrorPreservesInnerAndCode(t *testing.T) {
	inner := errors.New("boom")
	wrapped := WrapError("step", ErrCodeScan, inner)
	if !errors.Is(wrapped, wrapped) {
		t.Fatal("expected wrapped error to be comparable to itself")
	}
	if !errors.Is(wrapped.Unwrap(), inner) {
		t.Fatal("expected Unwrap to return the original inner error")
	}
	if !IsCode(wrapped, ErrCodeScan) {
		t.Fatal("expected IsCode to match ErrCodeScan")
	}
}

func TestWrapErrorOfStructuredErrorPreservesCode(t *testing.T) {
	inner := NewError("validate", ErrCodeValidation, "bad operand")
	wrapped := WrapError("load_ir", ErrCodeCompile, inner)
	if wrapped.Code != ErrCodeValidation {
		t.Fatalf("expected re-wrapping to preserve the inner Error's code, got %s", wrapped.Code)
	}
}

func TestWrapErrorNilIsNil(t *testing.T) {
	if WrapError("op", ErrCodeScan, nil) != nil {
		t.Fatal("expected WrapError(nil) to return nil")
	}
}

func TestIsCodeFalseForUnrelatedError(t *testing.T) {
	if IsCode(errors.New("plain"), ErrCodeScan) {
		t.Fatal("expected IsCode to be false for a non-*Error")
	}
}
