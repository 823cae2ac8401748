package models

import (
	"encoding/json"
	"fmt"
)

// StatusKind classifies a run status for the poll loop
type StatusKind int

const (
	StatusKindUnknown StatusKind = iota
	StatusKindActive
	StatusKindCompleted
)

func (k StatusKind) String() string {
	switch k {
	case StatusKindActive:
		return "active"
	case StatusKindCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

const (
	StatusQueued     = "queued"
	StatusInProgress = "in_progress"
	StatusWaiting    = "waiting"
	StatusRequested  = "requested"
	StatusPending    = "pending"
	StatusCompleted  = "completed"
)

var statusKinds = map[string]StatusKind{
	StatusQueued:     StatusKindActive,
	StatusInProgress: StatusKindActive,
	StatusWaiting:    StatusKindActive,
	StatusRequested:  StatusKindActive,
	StatusPending:    StatusKindActive,
	StatusCompleted:  StatusKindCompleted,
}

// Status is a run status. Values the platform adds later keep their
// original text and classify as StatusKindUnknown.
type Status struct {
	raw  string
	kind StatusKind
}

// ParseStatus classifies a raw status string
func ParseStatus(s string) Status {
	return Status{raw: s, kind: statusKinds[s]}
}

func (s Status) String() string { return s.raw }

func (s Status) Kind() StatusKind { return s.kind }

// IsActive returns true if the run has not reached a terminal state
func (s Status) IsActive() bool { return s.kind == StatusKindActive }

// IsCompleted returns true for the completed status only
func (s Status) IsCompleted() bool { return s.kind == StatusKindCompleted }

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.raw)
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("status must be a string: %w", err)
	}
	*s = ParseStatus(raw)
	return nil
}

const (
	ConclusionSuccess        = "success"
	ConclusionFailure        = "failure"
	ConclusionCancelled      = "cancelled"
	ConclusionSkipped        = "skipped"
	ConclusionTimedOut       = "timed_out"
	ConclusionActionRequired = "action_required"
	ConclusionNeutral        = "neutral"
	ConclusionStale          = "stale"
	ConclusionStartupFailure = "startup_failure"
)

var knownConclusions = map[string]bool{
	ConclusionSuccess:        true,
	ConclusionFailure:        true,
	ConclusionCancelled:      true,
	ConclusionSkipped:        true,
	ConclusionTimedOut:       true,
	ConclusionActionRequired: true,
	ConclusionNeutral:        true,
	ConclusionStale:          true,
	ConclusionStartupFailure: true,
}

// Conclusion is the outcome of a completed run. It is empty until the run
// completes; unrecognised values are kept verbatim.
type Conclusion struct {
	raw string
}

// ParseConclusion wraps a raw conclusion string
func ParseConclusion(s string) Conclusion {
	return Conclusion{raw: s}
}

func (c Conclusion) String() string { return c.raw }

// IsSet returns false while the run has no conclusion yet
func (c Conclusion) IsSet() bool { return c.raw != "" }

// IsKnown returns false for values this client does not recognise
func (c Conclusion) IsKnown() bool { return knownConclusions[c.raw] }

func (c Conclusion) IsSuccess() bool { return c.raw == ConclusionSuccess }

func (c Conclusion) MarshalJSON() ([]byte, error) {
	if c.raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(c.raw)
}

func (c *Conclusion) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Conclusion{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("conclusion must be a string or null: %w", err)
	}
	*c = ParseConclusion(raw)
	return nil
}
