// Package ai calls the external word-suggestion service that plays the AI
// teammate's seat.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// The service returns one lowercase token: a letter followed by letters,
// digits, or hyphens, at most 25 characters.
var (
	wordExact  = regexp.MustCompile(`^[a-z][a-z0-9\-]{0,24}$`)
	wordSearch = regexp.MustCompile(`[a-z][a-z0-9\-]{0,24}`)
)

const (
	maxAttempts  = 2 // one retry
	retryBackoff = 300 * time.Millisecond
)

// Options are the tunable parameters forwarded to the suggestion service
type Options struct {
	Beta  float64
	Gamma float64
	TopK  int
}

// Client talks to the suggestion service over HTTP
type Client struct {
	BaseURL string
	opts    Options
	timeout time.Duration
	http    *http.Client
}

// New creates a client for the suggestion service at baseURL. The timeout
// bounds each individual attempt.
func New(baseURL string, timeout time.Duration, opts Options) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		opts:    opts,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

type nextWordRequest struct {
	PrevHuman string   `json:"prev_human,omitempty"`
	PrevBot   string   `json:"prev_bot,omitempty"`
	Exclude   []string `json:"exclude"`
	Beta      float64  `json:"beta"`
	Gamma     float64  `json:"gamma"`
	TopK      int      `json:"top_k"`
}

type nextWordResponse struct {
	Choice *string   `json:"choice"`
	Scores []float64 `json:"scores"`
}

// NextWord requests a word for the current round. prevHuman and prevPartner
// are the previous round's valid pair (both empty on round one), exclude is
// the list of words already used in completed rounds. On network errors,
// non-success responses, or unusable payloads it retries once with jittered
// backoff before giving up; the caller decides on a fallback.
func (c *Client) NextWord(ctx context.Context, prevHuman, prevPartner string, exclude []string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := retryBackoff + time.Duration(rand.Int63n(int64(retryBackoff)))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		word, err := c.requestWord(ctx, prevHuman, prevPartner, exclude)
		if err == nil {
			return word, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", lastErr
}

func (c *Client) requestWord(ctx context.Context, prevHuman, prevPartner string, exclude []string) (string, error) {
	if exclude == nil {
		exclude = []string{}
	}
	payload := nextWordRequest{
		PrevHuman: prevHuman,
		PrevBot:   prevPartner,
		Exclude:   exclude,
		Beta:      c.opts.Beta,
		Gamma:     c.opts.Gamma,
		TopK:      c.opts.TopK,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.BaseURL+"/nextword", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("suggestion service status %d", resp.StatusCode)
	}

	var out nextWordResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode suggestion response: %w", err)
	}

	if out.Choice == nil || *out.Choice == "" {
		return "", errors.New("suggestion service returned no choice")
	}

	word := sanitizeChoice(*out.Choice, exclude)
	if word == "" {
		return "", fmt.Errorf("suggestion %q is not usable", *out.Choice)
	}

	return word, nil
}

// Health checks the suggestion service's health endpoint
func (c *Client) Health(ctx context.Context) error {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, c.BaseURL+"/healthz", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("suggestion service status %d", resp.StatusCode)
	}
	return nil
}

// sanitizeChoice reduces the service's output to a single lowercase token
// and rejects anything on the exclusion list. Returns "" when nothing usable
// remains.
func sanitizeChoice(raw string, exclude []string) string {
	w := strings.ToLower(strings.TrimSpace(raw))

	if !wordExact.MatchString(w) {
		w = wordSearch.FindString(w)
		if w == "" {
			return ""
		}
	}

	for _, banned := range exclude {
		if w == strings.ToLower(banned) {
			return ""
		}
	}

	return w
}
