// Command creatorvalue evaluates creators for sponsored partnerships.
//
// Usage:
//
//	creatorvalue https://www.instagram.com/johndoe/   # live data with APIFY_TOKEN
//	creatorvalue -exclusivity 90-day -paid-ads @johndoe
//	creatorvalue -text https://www.tiktok.com/@johndoe
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/creatorvalue/pkg/apify"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/auth"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/brandfit"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/creatorvalue"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/report"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/runcache"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/valuation"
)

const maxParallel = 4

type output struct {
	Analysis *creatorvalue.Analysis `json:"analysis"`
	Report   report.Summary         `json:"report"`
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	noCache := flag.Bool("no-cache", false, "scrape every input separately, even duplicates (duplicates share one run by default)")
	timeout := flag.Duration("timeout", 15*time.Minute, "overall time limit for all analyses")
	deliverables := flag.Int("deliverables", 1, "number of deliverables in the deal")
	exclusivity := flag.String("exclusivity", string(valuation.ExclusivityNone),
		"exclusivity window: "+joinExclusivities())
	repost := flag.Bool("repost", false, "include brand repost rights (+10%)")
	paidAds := flag.Bool("paid-ads", false, "include paid ads rights (+20%)")
	website := flag.Bool("website", false, "include website usage rights (+10%)")
	envFile := flag.String("env-file", ".env", "dotenv file to read credentials from")
	keywordsFile := flag.String("keywords", "", "YAML file overriding brand-fit keyword lists")
	apifyToken := flag.String("apify-token", "", "Apify API token (default: $APIFY_TOKEN)")
	anthropicKey := flag.String("anthropic-key", "", "Anthropic API key (default: $ANTHROPIC_API_KEY)")
	live := flag.Bool("live", false, "require an Apify token instead of falling back to simulated Instagram data")
	text := flag.Bool("text", false, "print a human-readable report instead of JSON")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: creatorvalue [options] <profile-url-or-handle>...")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nLive data:")
		fmt.Fprintln(os.Stderr, "  - Instagram (requires APIFY_TOKEN)")
		fmt.Fprintln(os.Stderr, "  - TikTok, YouTube, LinkedIn, Twitter/X are simulated")
		fmt.Fprintln(os.Stderr, "\nBrand fit uses Claude when ANTHROPIC_API_KEY is set, keyword heuristics otherwise.")
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	excl, err := valuation.ParseExclusivity(*exclusivity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg := valuation.Config{
		Exclusivity:  excl,
		UsageRights:  valuation.UsageRights{BrandRepost: *repost, PaidAds: *paidAds, Website: *website},
		Deliverables: *deliverables,
	}.Normalized()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	var runCache *runcache.Cache
	if !*noCache {
		runCache = runcache.New(runcache.DefaultTTL)
		defer func() {
			if err := runCache.Close(); err != nil {
				logger.Warn("failed to close run cache", "error", err)
			}
		}()
	}

	sources := []auth.Source{
		auth.NewStaticSource(map[string]string{auth.Apify: *apifyToken, auth.Anthropic: *anthropicKey}),
		auth.EnvSource{},
		auth.NewDotEnvSource(*envFile),
	}

	opts, err := engineOptions(ctx, logger, runCache, *keywordsFile, *live, sources)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}
	engine := creatorvalue.New(opts...)

	results := make([]output, flag.NArg())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, input := range flag.Args() {
		g.Go(func() error {
			a, err := engine.Analyze(gctx, input)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = output{Analysis: a, Report: a.Report(cfg)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if runCache != nil {
		st := runcache.CacheStats()
		logger.Debug("run cache stats", "hits", st.Hits, "misses", st.Misses)
	}

	if err := write(os.Stdout, results, *text); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1)
	}
}

// engineOptions wires the optional live scraper and AI analyzer from whatever credentials exist.
// With requireLive, a missing Apify token is an error rather than a silent fallback.
func engineOptions(ctx context.Context, logger *slog.Logger, runCache *runcache.Cache, keywordsFile string, requireLive bool, sources []auth.Source) ([]creatorvalue.Option, error) {
	opts := []creatorvalue.Option{creatorvalue.WithLogger(logger)}

	resolve := auth.ChainSources
	if requireLive {
		resolve = auth.Require
	}
	apifyToken, err := resolve(ctx, auth.Apify, sources...)
	if err != nil {
		return nil, fmt.Errorf("resolve %s token: %w", auth.Apify, err)
	}
	if apifyToken != "" {
		apifyOpts := []apify.Option{apify.WithToken(apifyToken), apify.WithLogger(logger)}
		if runCache != nil {
			apifyOpts = append(apifyOpts, apify.WithRunCache(runCache))
		}
		client, err := apify.New(ctx, apifyOpts...)
		if err != nil {
			return nil, fmt.Errorf("create apify client: %w", err)
		}
		opts = append(opts, creatorvalue.WithScraper(client))
	} else {
		logger.Info("no Apify token found, Instagram data will be simulated", "env", auth.EnvVarFor(auth.Apify))
	}

	scorerOpts := []brandfit.Option{brandfit.WithLogger(logger)}
	if keywordsFile != "" {
		kw, err := brandfit.LoadKeywords(keywordsFile)
		if err != nil {
			return nil, err
		}
		scorerOpts = append(scorerOpts, brandfit.WithKeywords(kw))
	}

	anthropicKey, err := auth.ChainSources(ctx, auth.Anthropic, sources...)
	if err != nil {
		return nil, fmt.Errorf("resolve %s key: %w", auth.Anthropic, err)
	}
	if anthropicKey != "" {
		analyzer, err := brandfit.NewClaudeAnalyzer(anthropicKey)
		if err != nil {
			return nil, fmt.Errorf("create claude analyzer: %w", err)
		}
		scorerOpts = append(scorerOpts, brandfit.WithAnalyzer(analyzer))
	}

	return append(opts, creatorvalue.WithScorer(brandfit.NewScorer(scorerOpts...))), nil
}

func write(w io.Writer, results []output, text bool) error {
	if text {
		var errs []error
		for i, r := range results {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			errs = append(errs, report.WriteText(w, r.Report))
		}
		return errors.Join(errs...)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}

func joinExclusivities() string {
	var names []string
	for _, e := range valuation.Exclusivities() {
		names = append(names, string(e))
	}
	return strings.Join(names, ", ")
}
