package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

func u64(v uint64) *uint64 { return &v }

func testRun(status, conclusion string) models.WorkflowRun {
	return models.WorkflowRun{
		Name:       "CI",
		Status:     models.ParseStatus(status),
		Conclusion: models.ParseConclusion(conclusion),
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC),
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "header",
			got:  FormatHeader("octocat", "Hello-World"),
			want: "Checking the last executed run in git@github.com:octocat/Hello-World repository's workflow:",
		},
		{
			name: "progress",
			got:  FormatProgress(testRun("in_progress", "")),
			want: "Workflow: CI | state: in_progress",
		},
		{
			name: "unknown status",
			got:  FormatWarning(testRun("brand_new", "")),
			want: "Workflow: CI | state: brand_new | ❌",
		},
		{
			name: "result",
			got:  FormatResult(testRun("completed", "success")),
			want: "Workflow conclusion: success | Time: 300s | DT: 2024-01-01T00:05:00Z",
		},
		{
			name: "unknown conclusion kept verbatim",
			got:  FormatResult(testRun("completed", "exploded")),
			want: "Workflow conclusion: exploded | Time: 300s | DT: 2024-01-01T00:05:00Z",
		},
		{
			name: "result keeps fractional seconds",
			got: FormatResult(models.WorkflowRun{
				Conclusion: models.ParseConclusion("failure"),
				CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt:  time.Date(2024, 1, 1, 0, 0, 7, 250000000, time.UTC),
			}),
			want: "Workflow conclusion: failure | Time: 7s | DT: 2024-01-01T00:00:07.25Z",
		},
		{
			name: "result keeps offset",
			got: FormatResult(models.WorkflowRun{
				Conclusion: models.ParseConclusion("success"),
				CreatedAt:  time.Date(2024, 1, 1, 2, 0, 0, 0, time.FixedZone("", 2*3600)),
				UpdatedAt:  time.Date(2024, 1, 1, 2, 1, 0, 0, time.FixedZone("", 2*3600)),
			}),
			want: "Workflow conclusion: success | Time: 60s | DT: 2024-01-01T02:01:00+02:00",
		},
		{
			name: "rate limit detail",
			got: FormatRateLimitDetail(models.RateLimitSnapshot{
				Remaining: u64(4999),
				Limit:     u64(5000),
				Reset:     time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
			}),
			want: "of 5000, resets at 2024-01-01T01:00:00Z",
		},
		{
			name: "rate limit detail without reset",
			got:  FormatRateLimitDetail(models.RateLimitSnapshot{Remaining: u64(1), Limit: u64(60)}),
			want: "of 60",
		},
		{
			name: "rate limit detail absent",
			got:  FormatRateLimitDetail(models.RateLimitSnapshot{Remaining: u64(1)}),
			want: "",
		},
		{
			name: "rate limit",
			got:  FormatRateLimit(models.RateLimitSnapshot{Remaining: u64(4999)}),
			want: "API Rate Limit remaining: 4999",
		},
		{
			name: "rate limit missing",
			got:  FormatRateLimit(models.RateLimitSnapshot{}),
			want: "Could not find X-RateLimit-Remaining header in the response.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestReporterPlain(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)

	r.Header("octocat", "Hello-World")
	r.Progress(testRun("queued", ""), 1)
	r.Progress(testRun("completed", "failure"), 2)
	r.Result(testRun("completed", "failure"))
	r.RateLimit(models.RateLimitSnapshot{})

	want := strings.Join([]string{
		"Checking the last executed run in git@github.com:octocat/Hello-World repository's workflow:",
		"Workflow: CI | state: queued",
		"Workflow: CI | state: completed",
		"Workflow conclusion: failure | Time: 300s | DT: 2024-01-01T00:05:00Z",
		"Could not find X-RateLimit-Remaining header in the response.",
	}, "\n") + "\n"

	if buf.String() != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestReporterStyledKeepsContent(t *testing.T) {
	ConfigureColor(true)

	var buf bytes.Buffer
	r := New(&buf, true)

	r.Warning(testRun("brand_new", ""))
	r.Result(testRun("completed", "success"))
	r.RateLimit(models.RateLimitSnapshot{
		Remaining: u64(12),
		Limit:     u64(60),
		Reset:     time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
	})

	out := buf.String()
	for _, want := range []string{"brand_new", "❌", "success", "300s", "2024-01-01T00:05:00Z", "12", "of 60", "resets at 2024-01-01T01:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("styled output missing %q:\n%s", want, out)
		}
	}
}

func TestReporterPlainRateLimitOmitsDetail(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).RateLimit(models.RateLimitSnapshot{Remaining: u64(12), Limit: u64(60)})

	if buf.String() != "API Rate Limit remaining: 12\n" {
		t.Errorf("RateLimit() = %q", buf.String())
	}
}

func TestConfigureColorNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if ConfigureColor(false) {
		t.Error("ConfigureColor() = true with NO_COLOR set")
	}
}
