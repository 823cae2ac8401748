package github

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

const (
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimitChecker reports the remaining API quota. It never fails the caller.
type RateLimitChecker interface {
	CheckRateLimit(ctx context.Context) models.RateLimitSnapshot
}

// CheckRateLimit performs one GET rate_limit and reads the quota headers.
// Any failure is logged and an empty snapshot is returned.
func (c *Client) CheckRateLimit(ctx context.Context) models.RateLimitSnapshot {
	resp, err := c.rest.RequestWithContext(ctx, http.MethodGet, "rate_limit", nil)
	if err != nil {
		c.logger.Warn("rate limit check failed", "err", transportError("check rate limit", err))
		return models.RateLimitSnapshot{}
	}
	defer resp.Body.Close()

	return parseRateLimit(resp.Header, c.warn)
}

func (c *Client) warn(msg string, keyvals ...interface{}) {
	c.logger.Warn(msg, keyvals...)
}

func parseRateLimit(h http.Header, warn func(string, ...interface{})) models.RateLimitSnapshot {
	var snap models.RateLimitSnapshot

	raw := h.Get(headerRateLimitRemaining)
	if raw == "" {
		return snap
	}

	remaining, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		warn("malformed rate limit header", "header", headerRateLimitRemaining, "value", raw)
		return snap
	}
	snap.Remaining = &remaining

	if v := h.Get(headerRateLimitLimit); v != "" {
		if limit, err := strconv.ParseUint(v, 10, 64); err == nil {
			snap.Limit = &limit
		}
	}

	if v := h.Get(headerRateLimitReset); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			snap.Reset = time.Unix(epoch, 0).UTC()
		}
	}

	return snap
}
