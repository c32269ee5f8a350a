// Package client talks to the Advent of Code website.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html"

	"github.com/jakzo/aoc/src/cli"
	"github.com/jakzo/aoc/src/cli/logging"
	"github.com/jakzo/aoc/src/config"
	"github.com/jakzo/aoc/src/leaderboard"
	"github.com/jakzo/aoc/src/puzzle"
)

var log = logging.Log

const (
	timeout      = 15 * time.Second
	backoffMin   = time.Second
	backoffMax   = 30 * time.Second
	backoffRate  = 1.1
	maxRetries   = 100
	maxBodyBytes = 1 << 20
)

// A StatusError is returned when the server responds with an unsuccessful status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (err *StatusError) Error() string {
	if err.Body == "" {
		return fmt.Sprintf("request to %s failed: %s", err.URL, http.StatusText(err.StatusCode))
	}
	return fmt.Sprintf("request to %s failed: %s", err.URL, err.Body)
}

// A Client makes requests to Advent of Code on behalf of one user.
type Client struct {
	baseURL string
	session string
	client  *retryablehttp.Client
}

// New creates a new client. session may be empty, in which case only unauthenticated
// requests will succeed.
func New(baseURL, session string) *Client {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = timeout
	client.Logger = &cli.HTTPLogWrapper{Log: log}
	client.RetryWaitMin = backoffMin
	client.RetryWaitMax = backoffMax
	client.RetryMax = maxRetries
	client.CheckRetry = checkRetry
	client.Backoff = backoff
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		session: session,
		client:  client,
	}
}

// FromConfig creates a new client using the given configuration.
func FromConfig(config *config.Configuration) *Client {
	return New(config.Aoc.BaseURL, config.Aoc.Session)
}

// checkRetry retries on server errors only. Anything else is either success or the user's fault.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	} else if err != nil {
		return false, err
	} else if resp.StatusCode >= 500 {
		log.Warning("Request failed with code %d. Retrying...", resp.StatusCode)
		return true, nil
	}
	return false, nil
}

// backoff waits a little longer on each successive attempt, up to the maximum.
func backoff(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
	wait := time.Duration(float64(min) * math.Pow(backoffRate, float64(attemptNum)))
	if wait > max || wait <= 0 {
		return max
	}
	return wait
}

// get fetches the given path and returns the response body, or an error for unsuccessful responses.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// post submits a form to the given path and returns the response body.
func (c *Client) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, form)
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	target := c.baseURL + path
	var body interface{}
	if form != nil {
		body = []byte(form.Encode())
	}
	req, err := retryablehttp.NewRequest(method, target, body)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.session != "" {
		req.Header.Set("Cookie", "session="+c.session)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("request to %s failed: %w", target, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", target, err)
	}
	if resp.StatusCode >= 400 {
		if len(b) > maxBodyBytes {
			b = b[:maxBodyBytes]
		}
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	log.Debug("Received %s from %s", cli.Bytes(len(b)), target)
	return b, nil
}

// Input downloads the puzzle input for the given day.
func (c *Client) Input(ctx context.Context, year, day int) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("/%d/day/%d/input", year, day))
}

// Description fetches the puzzle page for the given day and returns the description of each
// part that's been unlocked so far.
func (c *Client) Description(ctx context.Context, year, day int) ([]*html.Node, error) {
	body, err := c.get(ctx, fmt.Sprintf("/%d/day/%d", year, day))
	if err != nil {
		return nil, err
	}
	return puzzle.Descriptions(bytes.NewReader(body))
}

// Submit sends an answer for one part of a puzzle and returns what the server made of it.
func (c *Client) Submit(ctx context.Context, year, day, part int, answer string) (*puzzle.Feedback, error) {
	body, err := c.post(ctx, fmt.Sprintf("/%d/day/%d/answer", year, day), url.Values{
		"level":  {strconv.Itoa(part)},
		"answer": {answer},
	})
	if err != nil {
		return nil, err
	}
	return puzzle.ParseFeedback(bytes.NewReader(body), part)
}

// PrivateLeaderboard fetches the private leaderboard with the given ID.
func (c *Client) PrivateLeaderboard(ctx context.Context, year int, id string) (*leaderboard.Leaderboard, error) {
	body, err := c.get(ctx, fmt.Sprintf("/%d/leaderboard/private/view/%s.json", year, id))
	if err != nil {
		return nil, err
	}
	lb := &leaderboard.Leaderboard{}
	if err := json.Unmarshal(body, lb); err != nil {
		return nil, fmt.Errorf("invalid leaderboard response: %w", err)
	}
	return lb, nil
}

// ValidToken returns true if the session token is accepted by the server.
func (c *Client) ValidToken(ctx context.Context) (bool, error) {
	_, err := c.get(ctx, "/")
	var serr *StatusError
	if err == nil {
		return true, nil
	} else if errors.As(err, &serr) {
		return false, nil
	}
	return false, err
}
