package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Amund211/profilelookup/internal/constants"
	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/logging"
	"github.com/Amund211/profilelookup/internal/reporting"
)

const ATTEMPT_TIMEOUT = 5 * time.Second
const MAX_ATTEMPTS = 3
const BACKOFF_STEP = 100 * time.Millisecond

// Bodies logged on failure are truncated to this length
const MAX_LOGGED_BODY_LENGTH = 1000

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Response struct {
	StatusCode int
	Body       []byte
}

// Client performs GET requests against the identity services.
// Transport failures are retried with a linear backoff, while any response from
// the upstream is final and left to the caller to interpret.
type Client struct {
	httpClient     HttpClient
	afterFunc      func(time.Duration) <-chan time.Time
	attemptTimeout time.Duration
	maxAttempts    int
}

func NewClient(httpClient HttpClient, afterFunc func(time.Duration) <-chan time.Time) *Client {
	return &Client{
		httpClient:     httpClient,
		afterFunc:      afterFunc,
		attemptTimeout: ATTEMPT_TIMEOUT,
		maxAttempts:    MAX_ATTEMPTS,
	}
}

// Get returns the response for any status below 400.
//
// Errors wrap domain.ErrUpstreamUnavailable when the upstream could not be
// reached or answered with a 5xx, and domain.ErrUpstreamClient on a 4xx.
// HTTP failures are returned as *domain.UpstreamError.
func (c *Client) Get(ctx context.Context, url string) (Response, error) {
	// The retry sequence is short and bounded, so it runs to completion even if the caller goes away
	ctx = context.WithoutCancel(ctx)
	logger := logging.FromContext(ctx)

	var (
		resp Response
		err  error
	)
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			<-c.afterFunc(time.Duration(attempt-1) * BACKOFF_STEP)
		}

		resp, err = c.attempt(ctx, url)
		if err == nil {
			break
		}

		if attempt < c.maxAttempts {
			logger.InfoContext(ctx, "Retrying external request", "url", url, "attempt", attempt, "error", err.Error())
		}
	}

	if err != nil {
		logger.WarnContext(ctx, "External service unavailable", "url", url, "attempts", c.maxAttempts, "error", err.Error())
		recordRequest(ctx, url, outcomeTransportError)
		err := fmt.Errorf("%w: failed to get %s: %w", domain.ErrUpstreamUnavailable, url, err)
		reporting.Report(ctx, err)
		return Response{}, err
	}

	if resp.StatusCode >= 400 {
		logger.WarnContext(ctx, "External request failed",
			"url", url,
			"status", resp.StatusCode,
			"body", truncate(string(resp.Body), MAX_LOGGED_BODY_LENGTH),
		)

		if resp.StatusCode >= 500 {
			recordRequest(ctx, url, outcomeServerError)
			err := &domain.UpstreamError{
				Kind:       domain.ErrUpstreamUnavailable,
				StatusCode: resp.StatusCode,
				Body:       string(resp.Body),
			}
			reporting.Report(ctx, err, map[string]string{
				"url":    url,
				"status": strconv.Itoa(resp.StatusCode),
				"data":   truncate(string(resp.Body), MAX_LOGGED_BODY_LENGTH),
			})
			return Response{}, err
		}

		// Client errors include regular not found responses, so they are not reported
		recordRequest(ctx, url, outcomeClientError)
		return Response{}, &domain.UpstreamError{
			Kind:       domain.ErrUpstreamClient,
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
		}
	}

	recordRequest(ctx, url, outcomeSuccess)
	return resp, nil
}

func (c *Client) attempt(ctx context.Context, url string) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", constants.USER_AGENT)
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return Response{StatusCode: httpResp.StatusCode, Body: data}, nil
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length]
}

// IsStatus reports whether err is an upstream failure with the given status code
func IsStatus(err error, statusCode int) bool {
	var upstreamErr *domain.UpstreamError
	if !errors.As(err, &upstreamErr) {
		return false
	}
	return upstreamErr.StatusCode == statusCode
}
