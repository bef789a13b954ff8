package cc

import "testing"

func TestRequireCoreVersion_SatisfiedConstraint(t *testing.T) {
	ok, err := RequireCoreVersion(">= 1.0.0, < 2.0.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("CoreVersion %s should satisfy >= 1.0.0, < 2.0.0", CoreVersion)
	}
}

func TestRequireCoreVersion_UnsatisfiedConstraint(t *testing.T) {
	ok, err := RequireCoreVersion(">= 2.0.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("CoreVersion %s should not satisfy >= 2.0.0", CoreVersion)
	}
}

func TestRequireCoreVersion_InvalidConstraintIsReported(t *testing.T) {
	_, err := RequireCoreVersion("not a constraint !!")
	if err == nil {
		t.Fatal("expected an error for a malformed constraint expression")
	}

	ccErr, ok := err.(*Error)
	if !ok || ccErr.Code != ErrInvalidConstraint {
		t.Fatalf("got %v, want *Error{Code: ErrInvalidConstraint}", err)
	}
}
