package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteText renders s as a plain-text report.
func WriteText(w io.Writer, s Summary) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	section := func(title string) {
		fmt.Fprintf(&b, "\n== %s ==\n", title)
	}
	verified := "No"
	if s.Profile.Verified {
		verified = "Yes"
	}

	b.WriteString("Creator Evaluation Report\n")
	if s.Advisory != "" {
		fmt.Fprintf(&b, "NOTE: %s\n", s.Advisory)
	}

	section("CREATOR PROFILE")
	fmt.Fprintf(&b, "Creator Handle: @%s\n", s.Profile.Handle)
	fmt.Fprintf(&b, "Platform: %s\n", strings.ToUpper(s.Profile.Platform.Label()))
	p.Fprintf(&b, "Followers: %d\n", s.Profile.Followers)
	fmt.Fprintf(&b, "Engagement Rate: %.2f%%\n", s.Profile.EngagementRate)
	fmt.Fprintf(&b, "Verified: %s\n", verified)
	if !s.Profile.LastUpdated.IsZero() {
		fmt.Fprintf(&b, "Last Updated: %s\n", s.Profile.LastUpdated.Format("Jan 2, 2006 15:04 MST"))
	}
	fmt.Fprintf(&b, "Bio: %s\n", s.Profile.Bio)

	section("BRAND FIT ANALYSIS")
	fmt.Fprintf(&b, "Overall Brand Fit Score: %d/100\n", s.BrandFit.OverallScore)
	fmt.Fprintf(&b, "Cause Alignment: %d/100\n", s.BrandFit.CauseAlignment)
	fmt.Fprintf(&b, "Brand Safety: %d/100\n", s.BrandFit.BrandSafety)
	fmt.Fprintf(&b, "Audience Authenticity: %d/100\n", s.BrandFit.AudienceAuthenticity)
	fmt.Fprintf(&b, "Recommendation: %s\n", s.Recommendation)
	for _, line := range s.Insights {
		fmt.Fprintf(&b, "  - %s\n", line)
	}

	section("PRICING ANALYSIS")
	if s.Pricing.Computed {
		p.Fprintf(&b, "Base Rate: %d (%d followers x %.2f%% engagement)\n",
			s.Pricing.BaseRate, s.Profile.Followers, s.Profile.EngagementRate)
		p.Fprintf(&b, "Final Price: %d\n", s.Pricing.FinalPrice)
		p.Fprintf(&b, "Estimated Media Value (EMV): %.0f (ROI: %d%%)\n", s.Pricing.EMV, s.ROIPercent)
	} else {
		b.WriteString("Not priced: follower count or engagement rate unavailable\n")
	}
	b.WriteString("Campaign Configuration:\n")
	for _, line := range s.Configuration {
		fmt.Fprintf(&b, "  - %s\n", line)
	}

	section("RECENT POSTS ANALYSIS")
	fmt.Fprintf(&b, "Posts analyzed: %d\n", s.PostsAnalyzed)
	if s.PostsAnalyzed > 0 {
		p.Fprintf(&b, "Average likes: %d\n", s.AverageLikes)
		p.Fprintf(&b, "Average comments: %d\n", s.AverageComments)
		fmt.Fprintf(&b, "Average engagement rate: %.2f%%\n", s.AverageEngagement)
		b.WriteString("Top Performing Posts:\n")
		for _, tp := range s.TopPosts {
			fmt.Fprintf(&b, "  %d. Engagement: %.2f%%\n", tp.Rank, tp.EngagementRate)
			fmt.Fprintf(&b, "     %q\n", tp.Caption)
			p.Fprintf(&b, "     %d likes, %d comments\n", tp.Likes, tp.Comments)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
