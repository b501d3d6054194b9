// Package profile defines the canonical creator profile and post model shared by every stage of an analysis.
package profile

import (
	"errors"
	"math"
	"time"
)

// Common errors returned across packages.
var (
	ErrEmptyInput   = errors.New("empty creator handle")
	ErrUnknownValue = errors.New("unknown value")
)

// MaxPosts is the number of recent posts kept per analysis run.
const MaxPosts = 10

// PostType indicates the kind of media a post carries.
type PostType string

// Post type constants.
const (
	PostTypePhoto    PostType = "photo"
	PostTypeVideo    PostType = "video"
	PostTypeCarousel PostType = "carousel"
	PostTypeOther    PostType = "other"
)

// Post is a single recent piece of creator content.
// ID is a 1-based ordinal within the run, not a provider identifier.
type Post struct {
	ID             int      `json:"id"`
	Caption        string   `json:"caption"`
	Likes          int64    `json:"likes"`
	Comments       int64    `json:"comments"`
	Shares         int64    `json:"shares"`
	EngagementRate float64  `json:"engagementRatePercent"`
	PostedAgo      string   `json:"postedAgo"`
	Type           PostType `json:"type"`
}

// Engagements returns likes + comments + shares.
func (p Post) Engagements() int64 {
	return p.Likes + p.Comments + p.Shares
}

// Profile represents a creator's account as seen by one analysis run.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Profile struct {
	Handle         string    `json:"handle"`
	Platform       Platform  `json:"platform"`
	Followers      int64     `json:"followers"`
	EngagementRate float64   `json:"engagementRatePercent"` // percent, e.g. 2.5 means 2.5%
	Bio            string    `json:"bio"`
	Verified       bool      `json:"verified"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// EngagementRate returns engagements/followers*100 rounded to two decimals, or 0 when followers is 0.
func EngagementRate(engagements, followers int64) float64 {
	if followers <= 0 {
		return 0
	}
	return Round2(float64(engagements) / float64(followers) * 100)
}

// ApplyEngagement sets each post's engagement rate against followers and returns
// the mean engagement rate across posts.
func ApplyEngagement(posts []Post, followers int64) float64 {
	if len(posts) == 0 || followers <= 0 {
		for i := range posts {
			posts[i].EngagementRate = 0
		}
		return 0
	}

	var total int64
	for i := range posts {
		posts[i].EngagementRate = EngagementRate(posts[i].Engagements(), followers)
		total += posts[i].Engagements()
	}
	return Round2(float64(total) / float64(len(posts)) / float64(followers) * 100)
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
