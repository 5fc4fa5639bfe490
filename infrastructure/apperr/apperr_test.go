package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfTypedErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind Kind
	}{
		{name: "validation", err: Validation("quantity must be positive"), kind: KindValidation},
		{name: "not found", err: NotFound("request %d not found", 42), kind: KindNotFound},
		{name: "conflict", err: Conflict("category cannot be its own parent"), kind: KindConflict},
		{name: "persistence", err: Persistence("insert request", errors.New("disk full")), kind: KindPersistence},
		{name: "foreign", err: errors.New("plain"), kind: KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.kind {
				t.Fatalf("expected kind %v, got %v", tc.kind, got)
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("update status: %w", Validation("invalid status"))
	if !IsValidation(err) {
		t.Fatalf("expected wrapped error to stay a validation error")
	}
}

func TestPersistencePreservesCause(t *testing.T) {
	cause := errors.New("constraint failed")
	err := Persistence("adjust stock", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
}
