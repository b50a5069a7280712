package logger

import (
	"strings"
	"testing"
)

func TestRedactorHidesEmail(t *testing.T) {
	r := &redactor{enabled: true}
	out := r.apply([]interface{}{"email", "a@b.io", "collection", "users"})
	if out[1] != redacted {
		t.Fatalf("email not redacted: %v", out[1])
	}
	if out[3] != "users" {
		t.Fatalf("collection changed: %v", out[3])
	}
}

func TestRedactorHashesPersonIDs(t *testing.T) {
	r := &redactor{enabled: true, salt: "s"}
	out := r.apply([]interface{}{"student_id", "ST_001"})
	got, _ := out[1].(string)
	if !strings.HasPrefix(got, "hash:") || strings.Contains(got, "ST_001") {
		t.Fatalf("unexpected hash %q", got)
	}
	again := r.apply([]interface{}{"student_id", "ST_001"})
	if again[1] != out[1] {
		t.Fatalf("hash not stable: %v vs %v", again[1], out[1])
	}
}

func TestRedactorDisabled(t *testing.T) {
	r := &redactor{enabled: false}
	out := r.apply([]interface{}{"email", "a@b.io"})
	if out[1] != "a@b.io" {
		t.Fatalf("expected passthrough, got %v", out[1])
	}
}

func TestRedactorOddKV(t *testing.T) {
	r := &redactor{enabled: true}
	out := r.apply([]interface{}{"course_id", "CO_001", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected %v", out)
	}
}
