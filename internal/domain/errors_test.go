package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestWrapKeepsExistingCode(t *testing.T) {
	in := NewError(CodeDuplicateKey, "users.create", "email taken", nil)
	out := Wrap(CodeInternal, "other", fmt.Errorf("outer: %w", in))
	if !IsCode(out, CodeDuplicateKey) {
		t.Fatalf("expected duplicate_key, got %q (%v)", CodeOf(out), out)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("expected nil")
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if c := CodeOf(errors.New("boom")); c != "" {
		t.Fatalf("expected empty code, got %q", c)
	}
}

func TestFieldsError(t *testing.T) {
	err := FieldsError(CodeSchemaViolation, "insert users", []FieldError{
		{Field: "email", Error: "is required"},
		{Field: "role", Error: "must be one of student, instructor"},
	})
	if !IsCode(err, CodeSchemaViolation) {
		t.Fatalf("expected schema_violation, got %q", CodeOf(err))
	}
	if len(FieldsOf(err)) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(FieldsOf(err)))
	}
	if !strings.Contains(err.Error(), "email: is required") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestNextUpdatedAt(t *testing.T) {
	prev := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	if got := NextUpdatedAt(prev, prev); !got.After(prev) {
		t.Fatalf("same instant: got %v, want > %v", got, prev)
	}
	if got := NextUpdatedAt(prev, prev.Add(-time.Hour)); !got.Equal(prev.Add(time.Millisecond)) {
		t.Fatalf("clock behind: got %v", got)
	}
	later := prev.Add(time.Minute + 123456*time.Nanosecond)
	if got := NextUpdatedAt(prev, later); !got.Equal(later.Truncate(time.Millisecond)) {
		t.Fatalf("clock ahead: got %v", got)
	}
}
