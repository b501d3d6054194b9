package creatorvalue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/creatorvalue/pkg/brandfit"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/profile"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/synthetic"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/valuation"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeScraper struct {
	records []map[string]any
	err     error

	mu   sync.Mutex
	urls []string
}

func (f *fakeScraper) Scrape(_ context.Context, profileURL string) ([]map[string]any, error) {
	f.mu.Lock()
	f.urls = append(f.urls, profileURL)
	f.mu.Unlock()
	return f.records, f.err
}

func (f *fakeScraper) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

func testOpts(extra ...Option) []Option {
	return append([]Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return fixedNow }),
	}, extra...)
}

func liveRecords() []map[string]any {
	return []map[string]any{
		{"username": "tester", "followersCount": float64(1000), "biography": "Dog rescue volunteer", "verified": true},
		{"caption": "Adopt don't shop", "likesCount": float64(40), "commentsCount": float64(10), "type": "Image"},
	}
}

func TestAnalyzeLive(t *testing.T) {
	s := &fakeScraper{records: liveRecords()}
	a, err := Analyze(context.Background(), "https://www.instagram.com/tester/", testOpts(WithScraper(s))...)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if a.Simulated || a.Partial || a.Advisory != "" {
		t.Errorf("Analyze() simulated=%v partial=%v advisory=%q, want live", a.Simulated, a.Partial, a.Advisory)
	}
	want := profile.Profile{
		Handle:         "tester",
		Platform:       profile.Instagram,
		Followers:      1000,
		EngagementRate: 5,
		Bio:            "Dog rescue volunteer",
		Verified:       true,
		LastUpdated:    fixedNow,
	}
	if diff := cmp.Diff(want, a.Profile); diff != "" {
		t.Errorf("Profile mismatch (-want +got):\n%s", diff)
	}
	if len(a.Posts) != 1 || a.Posts[0].Likes != 40 {
		t.Errorf("Posts = %+v, want one post with 40 likes", a.Posts)
	}
	if a.BrandFit.Source != brandfit.SourceHeuristic {
		t.Errorf("BrandFit.Source = %q, want heuristic", a.BrandFit.Source)
	}
	if got := s.calls(); len(got) != 1 || got[0] != "https://www.instagram.com/tester/" {
		t.Errorf("scraped %v, want the input URL", got)
	}
	if a.RunID.String() == "" || !a.AnalyzedAt.Equal(fixedNow) {
		t.Errorf("RunID=%v AnalyzedAt=%v", a.RunID, a.AnalyzedAt)
	}
}

func TestAnalyzeBareHandleUsesProfileURL(t *testing.T) {
	s := &fakeScraper{records: liveRecords()}
	if _, err := Analyze(context.Background(), "@tester", testOpts(WithScraper(s))...); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if diff := cmp.Diff([]string{"https://www.instagram.com/tester/"}, s.calls()); diff != "" {
		t.Errorf("scraped URLs mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzePartial(t *testing.T) {
	s := &fakeScraper{records: []map[string]any{
		{"username": "tester", "followersCount": float64(50000), "biography": "bio"},
	}}
	a, err := Analyze(context.Background(), "tester", testOpts(WithScraper(s))...)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !a.Partial || a.Simulated {
		t.Errorf("partial=%v simulated=%v, want partial only", a.Partial, a.Simulated)
	}
	if !strings.Contains(a.Advisory, "no recent posts found") {
		t.Errorf("Advisory = %q", a.Advisory)
	}
	if len(a.Posts) != profile.MaxPosts {
		t.Errorf("len(Posts) = %d, want %d", len(a.Posts), profile.MaxPosts)
	}
	if a.Profile.Followers != 50000 {
		t.Errorf("Followers = %d, want 50000", a.Profile.Followers)
	}
}

func TestAnalyzeFallsBackToSimulated(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		advisory string
	}{
		{
			name:     "scrape error",
			opts:     []Option{WithScraper(&fakeScraper{err: errors.New("run failed")})},
			advisory: "Live API failed: run failed. Using simulated data for demonstration.",
		},
		{
			name:     "unusable records",
			opts:     []Option{WithScraper(&fakeScraper{})},
			advisory: "Live API failed: unusable scrape result: no records returned. Using simulated data for demonstration.",
		},
		{
			name:     "no scraper",
			advisory: "Live API failed: no live scraper configured. Using simulated data for demonstration.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Analyze(context.Background(), "instagram.com/tester", testOpts(tt.opts...)...)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if !a.Simulated || a.Partial {
				t.Errorf("simulated=%v partial=%v, want simulated", a.Simulated, a.Partial)
			}
			if a.Advisory != tt.advisory {
				t.Errorf("Advisory = %q, want %q", a.Advisory, tt.advisory)
			}
			want := synthetic.Profile("tester", profile.Instagram, synthetic.ReasonUnavailable, fixedNow)
			if diff := cmp.Diff(want, a.Profile); diff != "" {
				t.Errorf("Profile mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeUnsupportedPlatform(t *testing.T) {
	s := &fakeScraper{records: liveRecords()}
	a, err := Analyze(context.Background(), "https://www.tiktok.com/@dancer", testOpts(WithScraper(s))...)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(s.calls()) != 0 {
		t.Errorf("scraper called for non-Instagram input: %v", s.calls())
	}
	if !a.Simulated || a.Advisory != "" {
		t.Errorf("simulated=%v advisory=%q, want simulated without advisory", a.Simulated, a.Advisory)
	}
	if a.Identity.Platform != profile.TikTok || a.Identity.Handle != "dancer" {
		t.Errorf("Identity = %+v", a.Identity)
	}
	want := synthetic.Posts("dancer", profile.TikTok, a.Profile.Followers, synthetic.ReasonUnsupported)
	if diff := cmp.Diff(want, a.Posts); diff != "" {
		t.Errorf("Posts mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "@"} {
		_, err := Analyze(context.Background(), raw, testOpts()...)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Analyze(%q) error = %v, want ErrEmptyInput", raw, err)
		}
	}
}

func TestAnalysisReport(t *testing.T) {
	a, err := Analyze(context.Background(), "tester", testOpts(WithScraper(&fakeScraper{records: liveRecords()}))...)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	cfg := valuation.Config{Exclusivity: valuation.ExclusivityNone, Deliverables: 1}
	sum := a.Report(cfg)
	if sum.Pricing != Price(a.Profile, cfg) {
		t.Errorf("Report pricing = %+v, want %+v", sum.Pricing, Price(a.Profile, cfg))
	}
	if sum.PostsAnalyzed != 1 {
		t.Errorf("PostsAnalyzed = %d, want 1", sum.PostsAnalyzed)
	}
}
