// Package report assembles the figures of a creator evaluation report and renders them as text.
package report

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/creatorvalue/pkg/brandfit"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/profile"
	"github.com/codeGROOVE-dev/creatorvalue/pkg/valuation"
)

const (
	topPostCount  = 3
	captionMaxLen = 80
)

var recommendationText = map[brandfit.Recommendation]string{
	brandfit.Green: "EXCELLENT FIT - Highly recommended for GoFundMe campaigns",
	brandfit.Amber: "GOOD FIT - Recommended with proper guidelines",
	brandfit.Red:   "POOR FIT - Consider alternative creators",
}

// Input is everything a report is built from.
type Input struct {
	GeneratedAt time.Time
	Advisory    string
	Profile     profile.Profile
	Posts       []profile.Post
	BrandFit    brandfit.BrandFit
	Config      valuation.Config
	Pricing     valuation.Result
}

// TopPost is one of the best-performing recent posts.
type TopPost struct {
	Caption        string  `json:"caption"`
	Rank           int     `json:"rank"`
	EngagementRate float64 `json:"engagementRatePercent"`
	Likes          int64   `json:"likes"`
	Comments       int64   `json:"comments"`
}

// Summary holds the derived figures of a report.
//
//nolint:govet // fieldalignment: grouped by report section
type Summary struct {
	GeneratedAt    time.Time         `json:"generatedAt"`
	Advisory       string            `json:"advisory,omitempty"`
	Profile        profile.Profile   `json:"profile"`
	BrandFit       brandfit.BrandFit `json:"brandFit"`
	Recommendation string            `json:"recommendation"`
	Insights       []string          `json:"insights"`
	Pricing        valuation.Result  `json:"pricing"`
	// ROIPercent is EMV as a percentage of the final price, 0 when not priced.
	ROIPercent        int64     `json:"roiPercent"`
	Configuration     []string  `json:"configuration"`
	PostsAnalyzed     int       `json:"postsAnalyzed"`
	AverageLikes      int64     `json:"averageLikes"`
	AverageComments   int64     `json:"averageComments"`
	AverageEngagement float64   `json:"averageEngagementRatePercent"`
	TopPosts          []TopPost `json:"topPosts"`
}

// Summarize derives report figures from an analysis and its pricing.
func Summarize(in Input) Summary {
	s := Summary{
		GeneratedAt:    in.GeneratedAt,
		Advisory:       in.Advisory,
		Profile:        in.Profile,
		BrandFit:       in.BrandFit,
		Recommendation: RecommendationText(in.BrandFit.Recommendation),
		Insights:       insightLines(in.BrandFit),
		Pricing:        in.Pricing,
		ROIPercent:     ROI(in.Pricing),
		Configuration:  ConfigurationLines(in.Config, in.Profile.Platform),
		PostsAnalyzed:  len(in.Posts),
	}
	if len(in.Posts) == 0 {
		return s
	}

	var likes, comments int64
	var rates float64
	for i := range in.Posts {
		likes += in.Posts[i].Likes
		comments += in.Posts[i].Comments
		rates += in.Posts[i].EngagementRate
	}
	n := float64(len(in.Posts))
	s.AverageLikes = int64(math.Round(float64(likes) / n))
	s.AverageComments = int64(math.Round(float64(comments) / n))
	s.AverageEngagement = profile.Round2(rates / n)
	s.TopPosts = topPosts(in.Posts)
	return s
}

// RecommendationText returns the headline for a recommendation.
func RecommendationText(r brandfit.Recommendation) string {
	if t, ok := recommendationText[r]; ok {
		return t
	}
	return recommendationText[brandfit.Red]
}

// ROI returns round(EMV / final price * 100), or 0 when there is no price.
func ROI(r valuation.Result) int64 {
	if !r.Computed || r.FinalPrice <= 0 {
		return 0
	}
	return int64(math.Round(r.EMV / float64(r.FinalPrice) * 100))
}

// ConfigurationLines describes the priced deal.
func ConfigurationLines(cfg valuation.Config, pl profile.Platform) []string {
	cfg = cfg.Normalized()
	lines := []string{
		fmt.Sprintf("%d deliverable(s)", cfg.Deliverables),
		"Content type: " + pl.Label(),
	}
	if cfg.Exclusivity != valuation.ExclusivityNone {
		lines = append(lines, fmt.Sprintf("Exclusivity: %d day (+%d%%)", cfg.Exclusivity.Days(), cfg.Exclusivity.Premium()))
	}

	var rights []string
	if cfg.UsageRights.BrandRepost {
		rights = append(rights, fmt.Sprintf("Brand repost (+%d%%)", valuation.BrandRepostPremium))
	}
	if cfg.UsageRights.PaidAds {
		rights = append(rights, fmt.Sprintf("Paid ads (+%d%%)", valuation.PaidAdsPremium))
	}
	if cfg.UsageRights.Website {
		rights = append(rights, fmt.Sprintf("Website usage (+%d%%)", valuation.WebsitePremium))
	}
	if len(rights) > 0 {
		lines = append(lines, "Usage rights: "+strings.Join(rights, ", "))
	}
	return lines
}

func insightLines(fit brandfit.BrandFit) []string {
	if fit.Insights.AIAnalysis != "" {
		return []string{fit.Insights.AIAnalysis}
	}
	var c brandfit.Counts
	if fit.Insights.Counts != nil {
		c = *fit.Insights.Counts
	}
	return []string{
		fmt.Sprintf("%d posts mention charitable causes", c.CauseContent),
		fmt.Sprintf("%d potential brand safety concerns", c.RiskFactors),
		fmt.Sprintf("%d posts with high engagement", c.EngagedPosts),
	}
}

// topPosts returns the highest-engagement posts, keeping provider order among ties.
func topPosts(posts []profile.Post) []TopPost {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b profile.Post) int {
		return cmp.Compare(b.EngagementRate, a.EngagementRate)
	})

	out := make([]TopPost, 0, topPostCount)
	for i := range min(topPostCount, len(sorted)) {
		p := sorted[i]
		out = append(out, TopPost{
			Rank:           i + 1,
			EngagementRate: p.EngagementRate,
			Caption:        truncate(p.Caption, captionMaxLen),
			Likes:          p.Likes,
			Comments:       p.Comments,
		})
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
