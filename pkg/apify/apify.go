// Package apify runs hosted scraper actors and collects their dataset items.
//
// A scrape is three steps: submit a run, poll its status until it reaches a terminal
// state, then fetch the run's dataset. Only the poll blocks. Every submit, status check
// and dataset fetch is a single request; only the poll loop repeats.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/codeGROOVE-dev/creatorvalue/pkg/runcache"
)

// Defaults for the hosted Instagram scraper.
const (
	DefaultBaseURL      = "https://api.apify.com"
	DefaultActor        = "apify~instagram-scraper"
	DefaultPollInterval = 10 * time.Second
	DefaultMaxAttempts  = 60

	resultsLimit = 10
)

// UserAgent identifies this client to the provider.
const UserAgent = "creatorvalue/1.0 (+https://github.com/codeGROOVE-dev/creatorvalue)"

// Run states reported by the provider.
const (
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
)

// Errors returned by the client. Scrape failures arrive wrapped in a *RunError.
var (
	ErrNoToken           = errors.New("apify token required")
	ErrSubmissionInvalid = errors.New("run submission returned no run id")
	ErrMissingDataset    = errors.New("run succeeded without a dataset id")
	ErrProviderFailure   = errors.New("provider reported run failure")
	ErrTimeout           = errors.New("run did not finish in time")
	ErrCancelled         = errors.New("scrape cancelled")
)

// errStillRunning marks a non-terminal status so the poll loop keeps going.
var errStillRunning = errors.New("run still in progress")

// RunError describes a failed scrape run.
type RunError struct {
	Err     error
	RunID   string
	Status  string
	Message string
}

func (e *RunError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.RunID != "" {
		fmt.Fprintf(&b, " (run %s", e.RunID)
		if e.Status != "" {
			fmt.Fprintf(&b, ", status %s", e.Status)
		}
		b.WriteString(")")
	}
	return b.String()
}

func (e *RunError) Unwrap() error { return e.Err }

// HTTPError represents a non-success HTTP response.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// Client submits and awaits scraper runs.
type Client struct {
	httpClient   *http.Client
	cache        runcache.Cacher
	logger       *slog.Logger
	token        string
	baseURL      string
	actor        string
	pollInterval time.Duration
	maxAttempts  int
}

// Option configures a Client.
type Option func(*config)

type config struct {
	httpClient   *http.Client
	cache        runcache.Cacher
	logger       *slog.Logger
	token        string
	baseURL      string
	actor        string
	pollInterval time.Duration
	maxAttempts  int
}

// WithToken sets the API token sent as a bearer credential.
func WithToken(token string) Option {
	return func(c *config) { c.token = token }
}

// WithBaseURL overrides the provider API root.
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = u }
}

// WithActor overrides the actor that performs the scrape.
func WithActor(actor string) Option {
	return func(c *config) { c.actor = actor }
}

// WithPollInterval sets the wait before each status check.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) { c.pollInterval = d }
}

// WithMaxAttempts sets the maximum number of status checks.
func WithMaxAttempts(n int) Option {
	return func(c *config) { c.maxAttempts = n }
}

// WithRunCache lets duplicate scrapes of the same profile URL share one provider run.
func WithRunCache(cache runcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates a scraper client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{
		logger:       slog.Default(),
		baseURL:      DefaultBaseURL,
		actor:        DefaultActor,
		pollInterval: DefaultPollInterval,
		maxAttempts:  DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if strings.TrimSpace(cfg.token) == "" {
		return nil, ErrNoToken
	}
	if cfg.maxAttempts < 1 {
		cfg.maxAttempts = 1
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		httpClient:   cfg.httpClient,
		cache:        cfg.cache,
		logger:       cfg.logger,
		token:        strings.TrimSpace(cfg.token),
		baseURL:      strings.TrimRight(cfg.baseURL, "/"),
		actor:        cfg.actor,
		pollInterval: cfg.pollInterval,
		maxAttempts:  cfg.maxAttempts,
	}, nil
}

// runInput is the actor input for a profile scrape.
type runInput struct {
	DirectURLs         []string `json:"directUrls"`
	ResultsType        string   `json:"resultsType"`
	ResultsLimit       int      `json:"resultsLimit"`
	SearchType         string   `json:"searchType"`
	AddParentData      bool     `json:"addParentData"`
	SearchLimit        int      `json:"searchLimit"`
	IncludeNestedItems bool     `json:"includeNestedItems"`
	ScrapeAbout        bool     `json:"scrapeAbout"`
	ScrapePosts        bool     `json:"scrapePosts"`
	PostsLimit         int      `json:"postsLimit"`
	ScrapeUserPosts    bool     `json:"scrapeUserPosts"`
	UserPostsLimit     int      `json:"userPostsLimit"`
}

func newRunInput(profileURL string) runInput {
	return runInput{
		DirectURLs:         []string{profileURL},
		ResultsType:        "details",
		ResultsLimit:       resultsLimit,
		SearchType:         "user",
		SearchLimit:        resultsLimit,
		IncludeNestedItems: true,
		ScrapeAbout:        true,
		ScrapePosts:        true,
		PostsLimit:         resultsLimit,
		ScrapeUserPosts:    true,
		UserPostsLimit:     resultsLimit,
	}
}

type runResponse struct {
	Data struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		StatusMessage    string `json:"statusMessage"`
		DefaultDatasetID string `json:"defaultDatasetId"`
	} `json:"data"`
}

// Scrape runs the actor against profileURL and returns the raw dataset items.
// With a run cache, concurrent or repeated scrapes of one URL share a single run.
func (c *Client) Scrape(ctx context.Context, profileURL string) ([]map[string]any, error) {
	body, err := runcache.Do(ctx, c.cache, runcache.Key(profileURL), func(ctx context.Context) ([]byte, error) {
		return c.run(ctx, profileURL)
	}, c.logger)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return items, nil
}

// run performs one provider run and returns its raw dataset body.
func (c *Client) run(ctx context.Context, profileURL string) ([]byte, error) {
	runID, err := c.submit(ctx, profileURL)
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "scrape run submitted", "run_id", runID, "url", profileURL)

	datasetID, err := c.await(ctx, runID)
	if err != nil {
		return nil, err
	}

	body, err := c.dataset(ctx, datasetID)
	if err != nil {
		return nil, &RunError{Err: err, RunID: runID, Status: StatusSucceeded}
	}
	c.logger.InfoContext(ctx, "scrape run complete", "run_id", runID, "dataset_id", datasetID, "bytes", len(body))
	return body, nil
}

func (c *Client) submit(ctx context.Context, profileURL string) (string, error) {
	payload, err := json.Marshal(newRunInput(profileURL))
	if err != nil {
		return "", fmt.Errorf("encode run input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs", c.baseURL, url.PathEscape(c.actor))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.send(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", &RunError{Err: ErrCancelled, Message: ctx.Err().Error()}
		}
		return "", fmt.Errorf("submit run: %w", err)
	}

	var resp runResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &RunError{Err: ErrSubmissionInvalid, Message: err.Error()}
	}
	if resp.Data.ID == "" {
		return "", &RunError{Err: ErrSubmissionInvalid}
	}
	return resp.Data.ID, nil
}

// await polls the run until it reaches a terminal state and returns its dataset id.
func (c *Client) await(ctx context.Context, runID string) (string, error) {
	timer := time.NewTimer(c.pollInterval)
	select {
	case <-ctx.Done():
		timer.Stop()
		return "", &RunError{Err: ErrCancelled, RunID: runID, Message: ctx.Err().Error()}
	case <-timer.C:
	}

	var last runResponse
	var checks int
	datasetID, err := retry.DoWithData(
		func() (string, error) {
			checks++
			status, err := c.status(ctx, runID)
			if err != nil {
				return "", err
			}
			last = status

			switch status.Data.Status {
			case StatusSucceeded:
				if status.Data.DefaultDatasetID == "" {
					return "", ErrMissingDataset
				}
				return status.Data.DefaultDatasetID, nil
			case StatusFailed:
				return "", ErrProviderFailure
			default:
				return "", errStillRunning
			}
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxAttempts)), //nolint:gosec // maxAttempts is at least 1
		retry.Delay(c.pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(func(err error) bool { return errors.Is(err, errStillRunning) }),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, _ error) {
			c.logger.DebugContext(ctx, "run still in progress", "run_id", runID, "check", n+1, "status", last.Data.Status)
		}),
	)
	if err == nil {
		c.logger.DebugContext(ctx, "run finished", "run_id", runID, "checks", checks)
		return datasetID, nil
	}

	re := &RunError{RunID: runID, Status: last.Data.Status}
	switch {
	case ctx.Err() != nil:
		re.Err, re.Message = ErrCancelled, ctx.Err().Error()
	case errors.Is(err, ErrProviderFailure):
		re.Err, re.Message = ErrProviderFailure, last.Data.StatusMessage
		if re.Message == "" {
			re.Message = "Unknown error"
		}
	case errors.Is(err, ErrMissingDataset):
		re.Err = ErrMissingDataset
	case errors.Is(err, errStillRunning):
		re.Err, re.Message = ErrTimeout, fmt.Sprintf("%d status checks", checks)
	default:
		return "", fmt.Errorf("check run %s: %w", runID, err)
	}
	c.logger.WarnContext(ctx, "scrape run failed", "run_id", runID, "error", re)
	return "", re
}

func (c *Client) status(ctx context.Context, runID string) (runResponse, error) {
	var resp runResponse
	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs/%s", c.baseURL, url.PathEscape(c.actor), url.PathEscape(runID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return resp, fmt.Errorf("create request: %w", err)
	}

	body, err := c.send(req)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("decode run status: %w", err)
	}
	return resp, nil
}

// send performs a single request with no local retry.
func (c *Client) send(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // intentional

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: req.URL.String()}
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) dataset(ctx context.Context, datasetID string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v2/datasets/%s/items?format=json", c.baseURL, url.PathEscape(datasetID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	body, err := c.send(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset %s: %w", datasetID, err)
	}
	if !isItemList(body) {
		return nil, fmt.Errorf("decode dataset %s: %w", datasetID, errNotItemList)
	}
	return body, nil
}

var errNotItemList = errors.New("body is not a JSON array")

// isItemList reports whether body is a JSON array, so provider error pages are never shared.
func isItemList(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '[' && json.Valid(trimmed)
}
