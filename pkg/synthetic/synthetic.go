// Package synthetic generates deterministic stand-in creator data derived from a handle.
//
// The same handle always yields the same numbers, so a simulated report is reproducible.
package synthetic

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/codeGROOVE-dev/creatorvalue/pkg/profile"
)

// Reason explains why a run is using synthetic data.
type Reason int

const (
	// ReasonUnsupported is used for platforms without a live scraper.
	ReasonUnsupported Reason = iota
	// ReasonUnavailable is used when the live scraper failed.
	ReasonUnavailable
	// ReasonNoPosts is used when a live profile came back without posts.
	ReasonNoPosts
)

const (
	maxInt32      = 2147483647
	baseFollowers = 50000
)

// Hash folds the UTF-16 code units of s with hash = hash*31 + unit in wrapping 32-bit arithmetic.
func Hash(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(u)
	}
	return h
}

// Seed normalises Hash(handle) to a number in [0, 1].
func Seed(handle string) float64 {
	return math.Abs(float64(Hash(handle))) / maxInt32
}

// Profile returns a fully simulated profile for handle.
func Profile(handle string, platform profile.Platform, reason Reason, now time.Time) profile.Profile {
	seed := Seed(handle)

	bio := fmt.Sprintf("Content creator focused on %s", strings.ToLower(platform.Label()))
	if reason == ReasonUnavailable {
		bio = fmt.Sprintf("Demo profile for @%s - Live API temporarily unavailable", handle)
	}

	return profile.Profile{
		Handle:         handle,
		Platform:       platform,
		Followers:      int64(math.Floor(seed*2000000)) + baseFollowers,
		EngagementRate: profile.Round2(float64(seed*5) + 1),
		Bio:            bio,
		Verified:       seed > 0.7,
		LastUpdated:    now,
	}
}

// Posts returns profile.MaxPosts synthetic posts scaled to followers.
// Engagement rates are filled in against followers.
func Posts(handle string, platform profile.Platform, followers int64, reason Reason) []profile.Post {
	seed := Seed(handle)
	posts := make([]profile.Post, profile.MaxPosts)

	for i := range posts {
		// Explicit float64 conversions keep the compiler from fusing multiply-adds,
		// so every architecture produces the same counts.
		postSeed := seed + float64(float64(i)*0.1)
		likes := int64(math.Floor(float64(followers) * (float64(postSeed*0.05) + 0.01)))
		comments := int64(math.Floor(float64(likes) * (float64(postSeed*0.1) + 0.02)))

		var shares int64
		if reason == ReasonNoPosts {
			shares = int64(math.Floor(float64(likes) * 0.05))
		}

		posts[i] = profile.Post{
			ID:        i + 1,
			Caption:   caption(handle, platform, reason, i+1),
			Likes:     likes,
			Comments:  comments,
			Shares:    shares,
			PostedAgo: fmt.Sprintf("%d days ago", int(math.Floor(postSeed*7))+1),
			Type:      postType(platform, reason, postSeed),
		}
	}

	profile.ApplyEngagement(posts, followers)
	return posts
}

func caption(handle string, platform profile.Platform, reason Reason, n int) string {
	switch reason {
	case ReasonNoPosts:
		return fmt.Sprintf("Recent post %d from @%s - simulated based on profile data", n, handle)
	case ReasonUnavailable:
		return fmt.Sprintf("Demo post %d content - using simulated data", n)
	default:
		return fmt.Sprintf("Sample %s content %d", strings.ToLower(platform.Label()), n)
	}
}

var mediaCycle = []profile.PostType{profile.PostTypePhoto, profile.PostTypeVideo, profile.PostTypeCarousel}

func postType(platform profile.Platform, reason Reason, postSeed float64) profile.PostType {
	if reason == ReasonUnsupported && platform != profile.Instagram {
		return profile.PostTypeOther
	}
	return mediaCycle[int(math.Floor(postSeed*3))%len(mediaCycle)]
}
