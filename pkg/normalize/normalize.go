// Package normalize converts loosely-typed scrape dataset items into the canonical profile and post model.
//
// Providers mix profile items and post items in one flat list and rename fields between
// versions, so nothing here binds to a schema: each record is classified by the fields it
// happens to carry, and every value is read through an ordered fallback chain.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/creatorvalue/pkg/profile"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/synthetic"
)

// ErrUnusable is returned when input is structurally unusable, e.g. no records at all.
var ErrUnusable = errors.New("unusable scrape result")

const (
	defaultBio     = "No bio available"
	defaultCaption = "No caption"
	dateLayout     = "Jan 2, 2006"
)

var (
	followers = FirstOf(NonZero(Field("followersCount")), NonZero(Field("followers")),
		NonZero(Field("subscribersCount")), NonZero(Field("followerCount")))
	likes    = Fields(likeKeys...)
	comments = Fields(commentKeys...)
	// A zero sharesCount falls through to shares; likes and comments accept zero.
	shares = FirstOf(NonZero(Field("sharesCount")), NonZero(Field("shares")))
)

// Result is a normalized profile with its recent posts.
type Result struct {
	Profile profile.Profile
	Posts   []profile.Post
	// Partial is set when the profile was live but posts had to be simulated.
	Partial bool
}

// Option configures Normalize.
type Option func(*config)

type config struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithClock sets the clock used for Profile.LastUpdated.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// Normalize builds a profile and up to profile.MaxPosts posts from raw dataset records.
func Normalize(records []Record, handle string, platform profile.Platform, opts ...Option) (*Result, error) {
	cfg := &config{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}

	if strings.TrimSpace(handle) == "" {
		return nil, fmt.Errorf("%w: empty handle", ErrUnusable)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records returned", ErrUnusable)
	}

	var source Record
	var pool []Record
	for i, r := range records {
		if r == nil {
			continue
		}
		kind := Classify(r)
		cfg.logger.Debug("classified record", "index", i, "kind", kind.String(), "keys", len(r))

		if kind.Is(KindProfile) {
			source = r
			pool = append(pool, nestedPosts(r)...)
		}
		if kind.Is(KindPost) {
			pool = append(pool, r)
		}
	}

	if source == nil {
		source = records[0]
		cfg.logger.Debug("no profile-shaped record, using first record as profile")
	}
	if source == nil {
		return nil, fmt.Errorf("%w: first record is null", ErrUnusable)
	}

	p := profile.Profile{
		Handle:      handle,
		Platform:    platform,
		Followers:   Count(source, followers),
		Bio:         FirstText(source, defaultBio, bioKeys...),
		Verified:    Bool(source, verifiedKeys...),
		LastUpdated: cfg.now(),
	}

	res := &Result{}
	if len(pool) == 0 {
		cfg.logger.Info("no posts in scrape result, simulating posts", "handle", handle, "followers", p.Followers)
		res.Posts = synthetic.Posts(handle, platform, p.Followers, synthetic.ReasonNoPosts)
		res.Partial = true
	} else {
		if len(pool) > profile.MaxPosts {
			pool = pool[:profile.MaxPosts]
		}
		res.Posts = make([]profile.Post, len(pool))
		for i, r := range pool {
			res.Posts[i] = toPost(r, i+1)
		}
	}

	p.EngagementRate = profile.ApplyEngagement(res.Posts, p.Followers)
	res.Profile = p

	cfg.logger.Info("normalized scrape result",
		"handle", handle, "records", len(records), "posts", len(res.Posts),
		"followers", p.Followers, "engagement_rate", p.EngagementRate, "partial", res.Partial)
	return res, nil
}

func toPost(r Record, id int) profile.Post {
	posted, ok := postedDate(r)
	if !ok {
		posted = fmt.Sprintf("%d days ago", id)
	}

	return profile.Post{
		ID:        id,
		Caption:   FirstText(r, defaultCaption, captionKeys...),
		Likes:     Count(r, likes),
		Comments:  Count(r, comments),
		Shares:    Count(r, shares),
		PostedAgo: posted,
		Type:      postType(r),
	}
}

func postType(r Record) profile.PostType {
	if s, ok := StringField("type")(r); ok {
		switch strings.ToLower(s) {
		case "image", "photo", "graphimage":
			return profile.PostTypePhoto
		case "video", "reel", "clips", "igtv", "graphvideo":
			return profile.PostTypeVideo
		case "sidecar", "carousel", "graphsidecar":
			return profile.PostTypeCarousel
		default:
			return profile.PostTypeOther
		}
	}
	if Bool(r, "isVideo") {
		return profile.PostTypeVideo
	}
	return profile.PostTypePhoto
}

func postedDate(r Record) (string, bool) {
	for _, key := range timeKeys {
		if t, ok := parseTime(r[key]); ok {
			return t.UTC().Format(dateLayout), true
		}
	}
	return "", false
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(n)
		}
	case float64:
		return fromEpoch(x)
	case json.Number:
		if n, err := x.Float64(); err == nil {
			return fromEpoch(n)
		}
	}
	return time.Time{}, false
}

// fromEpoch accepts seconds or milliseconds since the Unix epoch.
func fromEpoch(n float64) (time.Time, bool) {
	if n <= 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return time.Time{}, false
	}
	if n > 1e12 {
		return time.UnixMilli(int64(n)), true
	}
	return time.Unix(int64(n), 0), true
}
