// Package brandfit scores how well a creator's recent content fits a philanthropic brand partnership.
package brandfit

import (
	"math"
	"strings"

	"github.com/codeGROOVE-dev/creatorvalue/pkg/profile"
)

// Recommendation is the traffic-light verdict derived from the overall score.
type Recommendation string

// Recommendation values.
const (
	Green Recommendation = "green"
	Amber Recommendation = "amber"
	Red   Recommendation = "red"
)

// Source records which strategy produced a score.
type Source string

// Score sources.
const (
	SourceHeuristic Source = "heuristic"
	SourceAI        Source = "ai"
)

// Score weights and thresholds.
const (
	causeWeight    = 0.4
	safetyWeight   = 0.3
	audienceWeight = 0.3

	greenAt  = 75
	redBelow = 50

	// Posts above this many likes count toward audience authenticity.
	engagedLikes = 1000
)

// Counts are the raw heuristic tallies behind a score.
type Counts struct {
	CauseContent int `json:"causeContentCount"`
	RiskFactors  int `json:"riskFactorCount"`
	EngagedPosts int `json:"highEngagementPostCount"`
}

// Insights explain a score: free text from the AI path, or the heuristic counts.
// The counts marshal inline, alongside aiAnalysis.
type Insights struct {
	*Counts

	AIAnalysis string `json:"aiAnalysis,omitempty"`
}

// BrandFit is a brand-fit assessment. All scores are in 0..100.
type BrandFit struct {
	Insights             Insights       `json:"insights"`
	Recommendation       Recommendation `json:"recommendation"`
	Source               Source         `json:"source"`
	OverallScore         int            `json:"overallScore"`
	CauseAlignment       int            `json:"causeAlignment"`
	BrandSafety          int            `json:"brandSafety"`
	AudienceAuthenticity int            `json:"audienceAuthenticity"`
}

// Heuristic scores posts by keyword presence and engagement. It is pure and never fails.
func Heuristic(posts []profile.Post, kw Keywords) BrandFit {
	kw = kw.normalized()

	var c Counts
	for i := range posts {
		text := strings.ToLower(posts[i].Caption)
		for _, k := range kw.Cause {
			if strings.Contains(text, k) {
				c.CauseContent++
			}
		}
		for _, k := range kw.Risk {
			if strings.Contains(text, k) {
				c.RiskFactors++
			}
		}
		if posts[i].Likes > engagedLikes {
			c.EngagedPosts++
		}
	}

	n := float64(max(len(posts), 1))
	cause := math.Min(100, float64(c.CauseContent)/n*100+20)
	safety := math.Max(0, 100-float64(c.RiskFactors)/n*50)
	audience := math.Min(100, float64(c.EngagedPosts)/n*100+30)

	overall := int(math.Round(weighted(cause, safety, audience)))
	return BrandFit{
		OverallScore:         overall,
		CauseAlignment:       int(math.Round(cause)),
		BrandSafety:          int(math.Round(safety)),
		AudienceAuthenticity: int(math.Round(audience)),
		Recommendation:       Recommend(overall),
		Insights:             Insights{Counts: &c},
		Source:               SourceHeuristic,
	}
}

// FromSubScores builds a BrandFit from externally supplied sub-scores, clamped to 0..100.
func FromSubScores(cause, safety, audience float64, analysis string) BrandFit {
	ca, bs, aa := clamp(cause), clamp(safety), clamp(audience)
	overall := int(math.Round(weighted(ca, bs, aa)))
	return BrandFit{
		OverallScore:         overall,
		CauseAlignment:       int(math.Round(ca)),
		BrandSafety:          int(math.Round(bs)),
		AudienceAuthenticity: int(math.Round(aa)),
		Recommendation:       Recommend(overall),
		Insights:             Insights{AIAnalysis: analysis},
		Source:               SourceAI,
	}
}

// Recommend maps an overall score to a recommendation.
func Recommend(overall int) Recommendation {
	switch {
	case overall >= greenAt:
		return Green
	case overall < redBelow:
		return Red
	default:
		return Amber
	}
}

func weighted(cause, safety, audience float64) float64 {
	return cause*causeWeight + safety*safetyWeight + audience*audienceWeight
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
