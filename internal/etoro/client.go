// Package etoro is the client for the upstream trading API. Primary calls
// (portfolio, trade history) surface their failures; every other call
// degrades to an empty result so a flaky secondary endpoint never aborts a
// pipeline run.
package etoro

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"github.com/etoro-tools/portfolio-sync/internal/config"
	"github.com/etoro-tools/portfolio-sync/internal/logger"
	"github.com/etoro-tools/portfolio-sync/internal/model"
)

type Client struct {
	c   *resty.Client
	cfg config.Config

	rateLimiter ratelimit.Limiter

	logger logger.Logger
}

func NewClient(cfg config.Config, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(cfg.BaseURL)

	return &Client{
		c:           client,
		cfg:         cfg,
		rateLimiter: ratelimit.New(cfg.RequestsPerMin, ratelimit.Per(time.Minute)),
		logger:      logger,
	}
}

// headers builds the per-request header set, including a fresh request id.
func headers(keys model.ApiKeys) map[string]string {
	return map[string]string{
		"x-api-key":    keys.APIKey,
		"x-user-key":   keys.UserKey,
		"x-request-id": uuid.NewString(),
		"Content-Type": "application/json",
	}
}

// get issues one authenticated GET and decodes the JSON body into a generic
// value for the normalizer. A non-2xx status becomes a *StatusError.
func (c *Client) get(ctx context.Context, keys model.ApiKeys, path string, query map[string]string, timeout time.Duration) (interface{}, error) {
	if keys.IsZero() {
		return nil, ErrMissingCredentials
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c.rateLimiter.Take()

	req := c.c.R().
		SetContext(ctx).
		SetHeaders(headers(keys)).
		SetQueryParams(query)

	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("%w: can't send request", err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	body := resp.Bytes()
	if resp.IsError() {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: strings.TrimSpace(string(body))}
	}

	var decoded interface{}
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: can't decode response", err)
	}

	return decoded, nil
}

// getSecondary is get with the secondary timeout budget and degraded error
// handling: any failure resolves to (nil, false) after a log line.
func (c *Client) getSecondary(ctx context.Context, keys model.ApiKeys, path string, query map[string]string) (interface{}, bool) {
	raw, err := c.get(ctx, keys, path, query, c.cfg.SecondaryTimeout)
	if err != nil {
		c.logger.Warnf("%s: secondary fetch %s degraded to empty", err, path)
		return nil, false
	}
	return raw, true
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
