package brandfit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/codeGROOVE-dev/creatorvalue/pkg/profile"
)

// ErrIncomplete is returned by an Analyzer whose response lacks a required field.
var ErrIncomplete = errors.New("analysis response missing required field")

// Analysis is the structured result of an external content analysis.
type Analysis struct {
	CauseAlignment       float64
	BrandSafety          float64
	AudienceAuthenticity float64
	Insights             string
}

// Analyzer delegates content analysis to an external service.
type Analyzer interface {
	Analyze(ctx context.Context, handle string, captions []string) (Analysis, error)
}

// Scorer computes brand fit, preferring an Analyzer when one is configured.
type Scorer struct {
	analyzer Analyzer
	logger   *slog.Logger
	keywords Keywords
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithAnalyzer enables the AI-assisted path.
func WithAnalyzer(a Analyzer) Option {
	return func(s *Scorer) { s.analyzer = a }
}

// WithKeywords replaces the heuristic keyword sets.
func WithKeywords(kw Keywords) Option {
	return func(s *Scorer) { s.keywords = kw }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) { s.logger = logger }
}

// NewScorer creates a Scorer. With no analyzer it is purely heuristic.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{logger: slog.Default(), keywords: DefaultKeywords()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score rates posts for handle. Any analyzer failure falls back to the heuristic in full;
// the two strategies are never merged, and nothing is retried.
func (s *Scorer) Score(ctx context.Context, posts []profile.Post, handle string) BrandFit {
	if s.analyzer == nil {
		return Heuristic(posts, s.keywords)
	}

	captions := make([]string, len(posts))
	for i := range posts {
		captions[i] = posts[i].Caption
	}

	a, err := s.analyzer.Analyze(ctx, handle, captions)
	if err != nil {
		s.logger.WarnContext(ctx, "content analysis failed, using heuristic", "handle", handle, "error", err)
		return Heuristic(posts, s.keywords)
	}

	fit := FromSubScores(a.CauseAlignment, a.BrandSafety, a.AudienceAuthenticity, a.Insights)
	s.logger.DebugContext(ctx, "content analysis complete", "handle", handle, "overall", fit.OverallScore)
	return fit
}
