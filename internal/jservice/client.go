// Package jservice fetches random trivia questions from the jService API and
// sanitizes them for answer matching.
package jservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/seladavis/forgebot/internal/domain"
	"github.com/seladavis/forgebot/internal/platform/retry"
)

const (
	DefaultBaseURL = "http://jservice.io"

	maxFetchAttempts = 5
	fetchBackoff     = 100 * time.Millisecond
	requestTimeout   = 10 * time.Second

	defaultValue = 200
)

// ErrBadQuestion marks an upstream question unusable: empty text or flagged
// invalid by jService moderation. Fetches retry past these.
var ErrBadQuestion = errors.New("question is empty or flagged invalid")

var (
	htmlTag   = regexp.MustCompile(`<[^>]*>`)
	ampersand = regexp.MustCompile(`(?i)\s+(&nbsp;|&)\s+`)
)

// Client fetches questions over HTTP with a bounded retry on defective
// upstream data.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// FetchQuestion returns one random, sanitized question. Defective questions
// (no text, or moderated as invalid) are retried up to 5 times before an
// explicit error is returned; the Expiration field is left for the caller.
func (c *Client) FetchQuestion(ctx context.Context) (*domain.Round, error) {
	policy := retry.Policy{
		MaxAttempts:    maxFetchAttempts,
		InitialBackoff: fetchBackoff,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Warn("question fetch retry", "attempt", attempt, "error", err)
		},
	}
	classify := func(err error) retry.Action {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return retry.Stop
		}
		return retry.Retry
	}

	return retry.Do(ctx, policy, classify, func() (*domain.Round, error) {
		return c.fetchOnce(ctx)
	})
}

func (c *Client) fetchOnce(ctx context.Context) (*domain.Round, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/random?count=1", nil)
	if err != nil {
		return nil, fmt.Errorf("build question request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("question request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("question source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read question response: %w", err)
	}

	var rounds []domain.Round
	if err := json.Unmarshal(body, &rounds); err != nil {
		return nil, fmt.Errorf("decode question response: %w", err)
	}
	if len(rounds) == 0 {
		return nil, ErrBadQuestion
	}

	round := rounds[0]
	if strings.TrimSpace(round.Question) == "" || round.InvalidCount > 0 {
		return nil, ErrBadQuestion
	}

	if round.Value == 0 {
		round.Value = defaultValue
	}
	round.Answer = sanitizeAnswer(round.Answer)

	return &round, nil
}

// sanitizeAnswer converts mid-answer ampersands to "and" and strips markup,
// so the stored answer compares cleanly against user guesses.
func sanitizeAnswer(answer string) string {
	answer = ampersand.ReplaceAllString(answer, " and ")
	answer = htmlTag.ReplaceAllString(answer, "")
	return html.UnescapeString(answer)
}
