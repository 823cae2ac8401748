package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sahilm/fuzzy"

	runerr "github.com/Cloudsky01/gh-runwatch/internal/errors"
	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

const decodeOp = "decode workflow runs"

var errNoRuns = errors.New("no workflow runs found")

type runsEnvelope struct {
	WorkflowRuns []json.RawMessage `json:"workflow_runs"`
}

// wireRun uses pointers so missing required fields can be told apart from zero values
type wireRun struct {
	ID         int64   `json:"id"`
	Name       *string `json:"name"`
	Status     *string `json:"status"`
	Conclusion *string `json:"conclusion"`
	CreatedAt  *string `json:"created_at"`
	UpdatedAt  *string `json:"updated_at"`
	HTMLURL    string  `json:"html_url"`
	HeadBranch string  `json:"head_branch"`
	Event      string  `json:"event"`
	RunNumber  int     `json:"run_number"`
}

type runName struct {
	Name string `json:"name"`
}

// decodeLatestRun picks the first run of the list, which the API returns
// newest first. With a filter, the newest run whose name fuzzy matches wins.
func decodeLatestRun(body []byte, filter string) (*models.WorkflowRun, error) {
	var env runsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, jsonError(err)
	}

	if len(env.WorkflowRuns) == 0 {
		return nil, &runerr.ParseError{Op: decodeOp, Field: "workflow_runs", Err: errNoRuns}
	}

	idx := 0
	if filter != "" {
		var err error
		idx, err = matchRun(env.WorkflowRuns, filter)
		if err != nil {
			return nil, err
		}
	}

	return decodeRun(env.WorkflowRuns[idx])
}

func matchRun(runs []json.RawMessage, filter string) (int, error) {
	names := make([]string, len(runs))
	for i, raw := range runs {
		var n runName
		if err := json.Unmarshal(raw, &n); err == nil {
			names[i] = n.Name
		}
	}

	matches := fuzzy.Find(filter, names)
	if len(matches) == 0 {
		return 0, &runerr.ParseError{
			Op:    decodeOp,
			Field: "name",
			Err:   fmt.Errorf("no recent workflow run matches %q", filter),
		}
	}

	newest := matches[0].Index
	for _, m := range matches[1:] {
		if m.Index < newest {
			newest = m.Index
		}
	}

	return newest, nil
}

func decodeRun(raw json.RawMessage) (*models.WorkflowRun, error) {
	var w wireRun
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, jsonError(err)
	}

	if w.Status == nil {
		return nil, missingField("status")
	}
	if w.Name == nil {
		return nil, missingField("name")
	}
	if w.CreatedAt == nil {
		return nil, missingField("created_at")
	}
	if w.UpdatedAt == nil {
		return nil, missingField("updated_at")
	}

	createdAt, err := time.Parse(time.RFC3339, *w.CreatedAt)
	if err != nil {
		return nil, &runerr.ParseError{Op: decodeOp, Field: "created_at", Err: err}
	}

	updatedAt, err := time.Parse(time.RFC3339, *w.UpdatedAt)
	if err != nil {
		return nil, &runerr.ParseError{Op: decodeOp, Field: "updated_at", Err: err}
	}

	run := &models.WorkflowRun{
		ID:         w.ID,
		Name:       *w.Name,
		Status:     models.ParseStatus(*w.Status),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
		HTMLURL:    w.HTMLURL,
		HeadBranch: w.HeadBranch,
		Event:      w.Event,
		RunNumber:  w.RunNumber,
	}
	if w.Conclusion != nil {
		run.Conclusion = models.ParseConclusion(*w.Conclusion)
	}

	return run, nil
}

func missingField(field string) error {
	return &runerr.ParseError{Op: decodeOp, Field: field, Err: errors.New("missing required field")}
}

func jsonError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &runerr.ParseError{Op: decodeOp, Field: typeErr.Field, Err: err}
	}
	return &runerr.ParseError{Op: decodeOp, Err: err}
}
