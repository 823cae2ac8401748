package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		kind StatusKind
	}{
		{"queued", StatusKindActive},
		{"in_progress", StatusKindActive},
		{"waiting", StatusKindActive},
		{"requested", StatusKindActive},
		{"pending", StatusKindActive},
		{"completed", StatusKindCompleted},
		{"action_required", StatusKindUnknown},
		{"brand_new_state", StatusKindUnknown},
		{"", StatusKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			s := ParseStatus(tt.raw)
			if s.Kind() != tt.kind {
				t.Errorf("ParseStatus(%q).Kind() = %v, want %v", tt.raw, s.Kind(), tt.kind)
			}
			if s.String() != tt.raw {
				t.Errorf("String() = %q, want original %q", s.String(), tt.raw)
			}
		})
	}
}

func TestWorkflowRunUnmarshal(t *testing.T) {
	body := `{
		"id": 42,
		"name": "CI",
		"status": "completed",
		"conclusion": "mystery",
		"created_at": "2024-01-01T00:00:00Z",
		"updated_at": "2024-01-01T00:05:00Z"
	}`

	var run WorkflowRun
	if err := json.Unmarshal([]byte(body), &run); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !run.Status.IsCompleted() {
		t.Errorf("Status = %q, want completed", run.Status)
	}

	if run.Conclusion.String() != "mystery" || run.Conclusion.IsKnown() {
		t.Errorf("Conclusion = %q (known=%v), want unknown 'mystery'", run.Conclusion, run.Conclusion.IsKnown())
	}
}

func TestStatusUnmarshalRejectsNonString(t *testing.T) {
	var run WorkflowRun
	if err := json.Unmarshal([]byte(`{"status": 7}`), &run); err == nil {
		t.Fatal("expected error for numeric status")
	}
}

func TestConclusionNull(t *testing.T) {
	var run WorkflowRun
	if err := json.Unmarshal([]byte(`{"status": "in_progress", "conclusion": null}`), &run); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if run.Conclusion.IsSet() {
		t.Errorf("Conclusion should be unset, got %q", run.Conclusion)
	}
}

func TestElapsed(t *testing.T) {
	parse := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatalf("bad fixture %q: %v", s, err)
		}
		return ts
	}

	tests := []struct {
		name    string
		created string
		updated string
		want    int64
	}{
		{"five minutes", "2024-01-01T00:00:00Z", "2024-01-01T00:05:00Z", 300},
		{"zero", "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", 0},
		{"offsets", "2024-01-01T02:00:00+02:00", "2024-01-01T00:01:30Z", 90},
		{"out of order", "2024-01-01T00:00:10Z", "2024-01-01T00:00:00Z", -10},
		{"fraction rounds down", "2024-01-01T00:00:00Z", "2024-01-01T00:00:01.9Z", 1},
		{"negative fraction rounds down", "2024-01-01T00:00:01.5Z", "2024-01-01T00:00:00Z", -2},
		{"negative whole second", "2024-01-01T00:00:01Z", "2024-01-01T00:00:00Z", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := WorkflowRun{CreatedAt: parse(tt.created), UpdatedAt: parse(tt.updated)}
			if got := Elapsed(run); got != tt.want {
				t.Errorf("Elapsed() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRateLimitSnapshotKnown(t *testing.T) {
	if (RateLimitSnapshot{}).Known() {
		t.Error("empty snapshot should not be known")
	}

	n := uint64(4999)
	if !(RateLimitSnapshot{Remaining: &n}).Known() {
		t.Error("snapshot with remaining should be known")
	}
}
