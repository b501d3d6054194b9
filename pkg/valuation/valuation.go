// Package valuation prices a sponsored deliverable and estimates its earned media value.
package valuation

import (
	"fmt"
	"math"
	"strings"

	"github.com/codeGROOVE-dev/creatorvalue/pkg/profile"
)

// CPM is the nonprofit cost per thousand impressions used for EMV.
const CPM = 5

// Exclusivity is the length of a category exclusivity window.
type Exclusivity string

// Exclusivity windows.
const (
	ExclusivityNone Exclusivity = "none"
	Exclusivity30   Exclusivity = "30-day"
	Exclusivity90   Exclusivity = "90-day"
	Exclusivity180  Exclusivity = "180-day"
	Exclusivity365  Exclusivity = "365-day"
)

var exclusivityPremium = map[Exclusivity]int64{
	ExclusivityNone: 0,
	Exclusivity30:   10,
	Exclusivity90:   20,
	Exclusivity180:  30,
	Exclusivity365:  50,
}

// Premium returns the exclusivity premium as a percent of the base rate. Unknown windows add nothing.
func (e Exclusivity) Premium() int64 {
	return exclusivityPremium[e]
}

// Days returns the window length in days.
func (e Exclusivity) Days() int {
	switch e {
	case Exclusivity30:
		return 30
	case Exclusivity90:
		return 90
	case Exclusivity180:
		return 180
	case Exclusivity365:
		return 365
	default:
		return 0
	}
}

// Exclusivities returns every window in ascending order.
func Exclusivities() []Exclusivity {
	return []Exclusivity{ExclusivityNone, Exclusivity30, Exclusivity90, Exclusivity180, Exclusivity365}
}

// ParseExclusivity accepts "none", "90-day", "90d", "90 days" or "90".
func ParseExclusivity(s string) (Exclusivity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" || s == "0" {
		return ExclusivityNone, nil
	}
	for _, suffix := range []string{"-days", " days", "days", "-day", " day", "day", "d"} {
		if trimmed, ok := strings.CutSuffix(s, suffix); ok {
			s = trimmed
			break
		}
	}
	e := Exclusivity(s + "-day")
	if _, ok := exclusivityPremium[e]; !ok {
		return ExclusivityNone, fmt.Errorf("%w: exclusivity %q", profile.ErrUnknownValue, s)
	}
	return e, nil
}

// UsageRights are the optional content licences bundled with a deliverable.
type UsageRights struct {
	BrandRepost bool `json:"brandRepost"`
	PaidAds     bool `json:"paidAds"`
	Website     bool `json:"website"`
}

// Usage-right premiums as a percent of the base rate.
const (
	BrandRepostPremium = 10
	PaidAdsPremium     = 20
	WebsitePremium     = 10
)

// Premium returns the combined usage-right premium as a percent of the base rate.
func (u UsageRights) Premium() int64 {
	var pct int64
	if u.BrandRepost {
		pct += BrandRepostPremium
	}
	if u.PaidAds {
		pct += PaidAdsPremium
	}
	if u.Website {
		pct += WebsitePremium
	}
	return pct
}

// Config describes the deal being priced.
type Config struct {
	Exclusivity  Exclusivity `json:"exclusivity"`
	UsageRights  UsageRights `json:"usageRights"`
	Deliverables int         `json:"deliverables"`
}

// Normalized returns c with a deliverable count of at least one and a known exclusivity window.
func (c Config) Normalized() Config {
	if c.Deliverables < 1 {
		c.Deliverables = 1
	}
	if _, ok := exclusivityPremium[c.Exclusivity]; !ok {
		c.Exclusivity = ExclusivityNone
	}
	return c
}

// Result is the outcome of pricing. A zero Result with Computed false means the
// profile lacked the followers or engagement needed to price it.
type Result struct {
	BaseRate   int64   `json:"baseRate"`
	FinalPrice int64   `json:"finalPrice"`
	Subtotal   float64 `json:"subtotal"`
	EMV        float64 `json:"emv"`
	Computed   bool    `json:"computed"`
}

// Price computes the deal price and EMV for p. It never fails.
func Price(p profile.Profile, cfg Config) Result {
	er := p.EngagementRate
	if p.Followers <= 0 || er <= 0 || math.IsNaN(er) || math.IsInf(er, 0) {
		return Result{}
	}
	cfg = cfg.Normalized()

	base := int64(math.Round(float64(p.Followers) * (er / 100)))

	// Add-ons are percentages of the base rate, so the running price is exact in
	// hundredths; each extra deliverable costs nine tenths of that price.
	pct := 100 + cfg.UsageRights.Premium() + cfg.Exclusivity.Premium()
	thousandths := base * pct * (10 + 9*int64(cfg.Deliverables-1))
	subtotal := float64(thousandths) / 1000

	return Result{
		BaseRate:   base,
		FinalPrice: RoundTier(subtotal),
		Subtotal:   subtotal,
		EMV:        EMV(p),
		Computed:   true,
	}
}

// RoundTier rounds price up to the nearest 25 below 500, 50 below 2000, and 100 otherwise.
func RoundTier(price float64) int64 {
	var step float64
	switch {
	case price < 500:
		step = 25
	case price < 2000:
		step = 50
	default:
		step = 100
	}
	return int64(math.Ceil(price/step) * step)
}

// ReachRate is the share of followers a post is expected to reach on a platform.
func ReachRate(pl profile.Platform) float64 {
	switch pl.Type() {
	case profile.PlatformTypeVideo:
		return 0.3
	case profile.PlatformTypeShortForm:
		return 0.4
	default:
		return 0.2
	}
}

// EMV is estimated reach priced at the nonprofit CPM.
func EMV(p profile.Profile) float64 {
	reach := float64(float64(p.Followers)*ReachRate(p.Platform)) * (1 + p.EngagementRate/5)
	return float64(reach*CPM) / 1000
}
