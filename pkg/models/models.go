package models

import "time"

// WorkflowRun represents the latest GitHub Actions run of a repository
type WorkflowRun struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Status     Status     `json:"status"`
	Conclusion Conclusion `json:"conclusion"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	HTMLURL    string     `json:"html_url"`
	HeadBranch string     `json:"head_branch"`
	Event      string     `json:"event"`
	RunNumber  int        `json:"run_number"`
}

// Elapsed returns updated_at - created_at in whole seconds, rounded down.
// The platform does not guarantee ordering, so the result may be negative.
func Elapsed(run WorkflowRun) int64 {
	d := run.UpdatedAt.Sub(run.CreatedAt)
	secs := int64(d / time.Second)
	if d%time.Second < 0 {
		secs--
	}
	return secs
}

// RateLimitSnapshot holds the quota headers of a rate_limit response.
// A nil Remaining means the header was absent.
type RateLimitSnapshot struct {
	Remaining *uint64
	Limit     *uint64
	Reset     time.Time
}

// Known reports whether the remaining count was present
func (s RateLimitSnapshot) Known() bool {
	return s.Remaining != nil
}
