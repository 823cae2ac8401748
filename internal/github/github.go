package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cli/go-gh/v2/pkg/api"

	runerr "github.com/Cloudsky01/gh-runwatch/internal/errors"
	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

const (
	DefaultHost    = "github.com"
	DefaultTimeout = 30 * time.Second

	// filteredPageSize is how many recent runs are scanned when a workflow filter is set
	filteredPageSize = 30
)

// SnapshotWriter receives every raw workflow runs body before it is decoded
type SnapshotWriter interface {
	Write(body []byte) error
}

// Options configures a Client
type Options struct {
	Host           string
	Token          string
	Timeout        time.Duration
	UserAgent      string
	WorkflowFilter string
	Snapshots      SnapshotWriter
	Logger         *log.Logger

	// Transport overrides the HTTP transport; tests use it to avoid the network
	Transport http.RoundTripper
}

type Client struct {
	rest      *api.RESTClient
	host      string
	timeout   time.Duration
	filter    string
	snapshots SnapshotWriter
	logger    *log.Logger
}

// NewClient creates an authenticated REST client. The token is required:
// unlike gh itself this never falls back to stored gh credentials.
func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, &runerr.ConfigError{Op: "create GitHub client", Err: errors.New("empty token")}
	}
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "gh-runwatch"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	rest, err := api.NewRESTClient(api.ClientOptions{
		Host:      opts.Host,
		AuthToken: opts.Token,
		Timeout:   opts.Timeout,
		Transport: opts.Transport,
		Headers: map[string]string{
			"Accept":       "application/vnd.github+json",
			"Content-Type": "application/json",
			"User-Agent":   opts.UserAgent,
		},
	})
	if err != nil {
		return nil, &runerr.ConfigError{Op: "create GitHub client", Err: err}
	}

	return &Client{
		rest:      rest,
		host:      opts.Host,
		timeout:   opts.Timeout,
		filter:    opts.WorkflowFilter,
		snapshots: opts.Snapshots,
		logger:    opts.Logger,
	}, nil
}

func (c *Client) GetHost() string {
	return c.host
}

func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// FetchLatestRun returns the newest workflow run of owner/name. The raw body
// is handed to the snapshot writer before decoding so a malformed response
// still leaves evidence on disk.
func (c *Client) FetchLatestRun(ctx context.Context, owner, name string) (*models.WorkflowRun, error) {
	const op = "list workflow runs"

	perPage := 1
	if c.filter != "" {
		perPage = filteredPageSize
	}
	path := fmt.Sprintf("repos/%s/%s/actions/runs?per_page=%d", url.PathEscape(owner), url.PathEscape(name), perPage)

	body, err := c.get(ctx, op, path)
	if err != nil {
		return nil, err
	}

	if c.snapshots != nil {
		if err := c.snapshots.Write(body); err != nil {
			c.logger.Warn("could not write snapshot", "err", err)
		}
	}

	return decodeLatestRun(body, c.filter)
}

func (c *Client) get(ctx context.Context, op, path string) ([]byte, error) {
	resp, err := c.rest.RequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("response received", "op", op, "status", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &runerr.TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	return body, nil
}

func transportError(op string, err error) error {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		return &runerr.TransportError{Op: op, StatusCode: httpErr.StatusCode, Err: err}
	}
	return &runerr.TransportError{Op: op, Err: err}
}
