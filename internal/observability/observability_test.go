package observability

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveOperation("CreateCourse", "ok", 3*time.Millisecond)
	m.ObserveOperation("CreateCourse", "ok", 2*time.Second)
	m.ObserveOperation("CreateCourse", "error", time.Millisecond)
	m.AddDocuments("users", 20)
	m.AddDocuments("users", 0)

	if ok, failed := m.OperationCount("CreateCourse", "ok"), m.OperationCount("CreateCourse", "error"); ok != 2 || failed != 1 {
		t.Fatalf("OperationCount: ok=%v error=%v", ok, failed)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, line := range []string{
		`eduhub_operations_total{op="CreateCourse",status="ok"} 2`,
		`eduhub_operation_duration_seconds_bucket{op="CreateCourse",le="0.005"} 2`,
		`eduhub_operation_duration_seconds_bucket{op="CreateCourse",le="+Inf"} 3`,
		`eduhub_documents_written_total{collection="users"} 20`,
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("exposition missing %q:\n%s", line, out)
		}
	}
}

func TestStartRecordsOutcome(t *testing.T) {
	_, finish := Start(context.Background(), "TestStartRecordsOutcome")
	finish(nil)
	_, finish = Start(context.Background(), "TestStartRecordsOutcome")
	finish(errors.New("boom"))

	m := Current()
	if ok, failed := m.OperationCount("TestStartRecordsOutcome", "ok"), m.OperationCount("TestStartRecordsOutcome", "error"); ok != 1 || failed != 1 {
		t.Fatalf("OperationCount: ok=%v error=%v", ok, failed)
	}
}

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]string
	}{
		{"", nil},
		{"novalue, =x", nil},
		{" a=1 , b=2=3 ", map[string]string{"a": "1", "b": "2=3"}},
	}
	for _, tt := range tests {
		if got := ParseHeaders(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseHeaders(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{})
	if shutdown == nil {
		t.Fatal("InitOTel returned nil shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
