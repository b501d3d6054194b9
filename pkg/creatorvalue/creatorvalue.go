// Package creatorvalue evaluates a social-media creator for a sponsored partnership.
//
// Analyze resolves a profile URL or handle, gathers the creator's profile and recent
// posts (live for Instagram, simulated otherwise), and scores brand fit. Price turns a
// profile into a deal price and earned media value.
package creatorvalue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codeGROOVE-dev/creatorvalue/pkg/brandfit"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/identity"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/normalize"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/profile"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/report"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/synthetic"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/valuation"
)

// ErrEmptyInput is returned when no handle can be derived from the input.
var ErrEmptyInput = profile.ErrEmptyInput

// ErrNoScraper is the live-data failure reported when no scraper is configured.
var ErrNoScraper = errors.New("no live scraper configured")

const (
	advisoryLiveFailed = "Live API failed: %s. Using simulated data for demonstration."
	advisoryNoPosts    = "Profile data retrieved successfully, but no recent posts found. " +
		"Using simulated post data based on follower count for demonstration."
)

// Scraper fetches raw dataset items for a profile URL.
type Scraper interface {
	Scrape(ctx context.Context, profileURL string) ([]map[string]any, error)
}

// Analysis is the result of evaluating one creator.
type Analysis struct {
	AnalyzedAt time.Time         `json:"analyzedAt"`
	Identity   identity.Identity `json:"identity"`
	Input      string            `json:"input"`
	Advisory   string            `json:"advisory,omitempty"`
	Profile    profile.Profile   `json:"profile"`
	Posts      []profile.Post    `json:"posts"`
	BrandFit   brandfit.BrandFit `json:"brandFit"`
	RunID      uuid.UUID         `json:"runId"`
	// Simulated is set when profile and posts are both synthetic.
	Simulated bool `json:"simulated"`
	// Partial is set when the profile is live but the posts are synthetic.
	Partial bool `json:"partial"`
}

// Report summarizes the analysis priced under cfg.
func (a *Analysis) Report(cfg valuation.Config) report.Summary {
	return report.Summarize(report.Input{
		GeneratedAt: a.AnalyzedAt,
		Advisory:    a.Advisory,
		Profile:     a.Profile,
		Posts:       a.Posts,
		BrandFit:    a.BrandFit,
		Config:      cfg,
		Pricing:     Price(a.Profile, cfg),
	})
}

// Engine runs analyses. It holds no per-run state and is safe for concurrent use.
type Engine struct {
	scraper Scraper
	scorer  *brandfit.Scorer
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithScraper enables live Instagram data.
func WithScraper(s Scraper) Option {
	return func(e *Engine) { e.scraper = s }
}

// WithScorer sets the brand-fit scorer.
func WithScorer(s *brandfit.Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock sets the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine. Without a scraper every Instagram analysis is simulated.
func New(opts ...Option) *Engine {
	e := &Engine{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.scorer == nil {
		e.scorer = brandfit.NewScorer(brandfit.WithLogger(e.logger))
	}
	return e
}

// Analyze evaluates the creator at raw with a one-off Engine.
func Analyze(ctx context.Context, raw string, opts ...Option) (*Analysis, error) {
	return New(opts...).Analyze(ctx, raw)
}

// Analyze evaluates the creator at raw, a profile URL or handle. Live-data failures
// degrade to simulated data with an advisory; only unusable input is an error.
func (e *Engine) Analyze(ctx context.Context, raw string) (*Analysis, error) {
	id := identity.Resolve(raw)
	if strings.TrimSpace(id.Handle) == "" {
		return nil, ErrEmptyInput
	}

	a := &Analysis{
		RunID:      uuid.New(),
		Input:      raw,
		Identity:   id,
		AnalyzedAt: e.now(),
	}
	logger := e.logger.With("run_id", a.RunID.String(), "handle", id.Handle, "platform", string(id.Platform))
	logger.InfoContext(ctx, "analyzing creator")

	if id.Platform == profile.Instagram {
		res, err := e.live(ctx, raw, id)
		if err != nil {
			logger.WarnContext(ctx, "live data unavailable, simulating", "error", err)
			e.simulate(a, synthetic.ReasonUnavailable)
			a.Advisory = fmt.Sprintf(advisoryLiveFailed, err)
		} else {
			a.Profile, a.Posts, a.Partial = res.Profile, res.Posts, res.Partial
			if res.Partial {
				a.Advisory = advisoryNoPosts
			}
		}
	} else {
		e.simulate(a, synthetic.ReasonUnsupported)
	}

	a.BrandFit = e.scorer.Score(ctx, a.Posts, id.Handle)
	logger.InfoContext(ctx, "analysis complete",
		"followers", a.Profile.Followers, "engagement_rate", a.Profile.EngagementRate,
		"posts", len(a.Posts), "brand_fit", a.BrandFit.OverallScore,
		"simulated", a.Simulated, "partial", a.Partial)
	return a, nil
}

func (e *Engine) live(ctx context.Context, raw string, id identity.Identity) (*normalize.Result, error) {
	if e.scraper == nil {
		return nil, ErrNoScraper
	}

	target := strings.TrimSpace(raw)
	if !identity.IsURL(target) {
		target = id.ProfileURL()
	}

	records, err := e.scraper.Scrape(ctx, target)
	if err != nil {
		return nil, err
	}
	return normalize.Normalize(records, id.Handle, id.Platform,
		normalize.WithLogger(e.logger), normalize.WithClock(e.now))
}

func (e *Engine) simulate(a *Analysis, reason synthetic.Reason) {
	a.Profile = synthetic.Profile(a.Identity.Handle, a.Identity.Platform, reason, a.AnalyzedAt)
	a.Posts = synthetic.Posts(a.Identity.Handle, a.Identity.Platform, a.Profile.Followers, reason)
	a.Simulated = true
}

// Price computes the deal price and EMV for p.
func Price(p profile.Profile, cfg valuation.Config) valuation.Result {
	return valuation.Price(p, cfg)
}
