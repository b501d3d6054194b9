package valuation

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/codeGROOVE-dev/creatorvalue/pkg/profile"
)

func creator(followers int64, er float64, pl profile.Platform) profile.Profile {
	return profile.Profile{Handle: "c", Platform: pl, Followers: followers, EngagementRate: er}
}

func TestRoundTier(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{0.5, 25},
		{25, 25},
		{26, 50},
		{480.1, 500},
		{499, 500},
		{500, 500},
		{501, 550},
		{1999, 2000},
		{2000, 2000},
		{2001, 2100},
		{12345.6, 12400},
	}

	for _, tt := range tests {
		if got := RoundTier(tt.price); got != tt.want {
			t.Errorf("RoundTier(%v) = %d, want %d", tt.price, got, tt.want)
		}
	}
}

func TestPrice(t *testing.T) {
	p := creator(100000, 2, profile.Instagram)

	tests := []struct {
		name      string
		cfg       Config
		wantPrice int64
		wantSub   float64
	}{
		{"base only", Config{Deliverables: 1}, 2000, 2000},
		{"paid ads", Config{Deliverables: 1, UsageRights: UsageRights{PaidAds: true}}, 2400, 2400},
		{
			"paid ads and 90 day exclusivity",
			Config{Deliverables: 1, Exclusivity: Exclusivity90, UsageRights: UsageRights{PaidAds: true}},
			2800, 2800,
		},
		{
			"all usage rights and a year",
			Config{Deliverables: 1, Exclusivity: Exclusivity365, UsageRights: UsageRights{BrandRepost: true, PaidAds: true, Website: true}},
			3800, 3800,
		},
		{"three deliverables", Config{Deliverables: 3}, 5600, 5600},
		{
			"deliverables apply to the running price",
			Config{Deliverables: 2, UsageRights: UsageRights{BrandRepost: true}},
			4200, 4180,
		},
		{"zero deliverables counts as one", Config{Deliverables: 0}, 2000, 2000},
		{"unknown exclusivity adds nothing", Config{Deliverables: 1, Exclusivity: "forever"}, 2000, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Price(p, tt.cfg)
			if !got.Computed {
				t.Fatal("Computed = false")
			}
			if got.BaseRate != 2000 {
				t.Errorf("BaseRate = %d, want 2000", got.BaseRate)
			}
			if got.FinalPrice != tt.wantPrice {
				t.Errorf("FinalPrice = %d, want %d", got.FinalPrice, tt.wantPrice)
			}
			if got.Subtotal != tt.wantSub {
				t.Errorf("Subtotal = %v, want %v", got.Subtotal, tt.wantSub)
			}
		})
	}
}

func TestPrice_SmallCreator(t *testing.T) {
	// base = round(1234 * 0.025) = round(30.85) = 31; +10% website = 34.1 -> 50.
	got := Price(creator(1234, 2.5, profile.Instagram), Config{Deliverables: 1, UsageRights: UsageRights{Website: true}})
	if got.BaseRate != 31 {
		t.Errorf("BaseRate = %d, want 31", got.BaseRate)
	}
	if got.FinalPrice != 50 {
		t.Errorf("FinalPrice = %d, want 50", got.FinalPrice)
	}
	if math.Abs(got.Subtotal-34.1) > 1e-9 {
		t.Errorf("Subtotal = %v, want 34.1", got.Subtotal)
	}
}

func TestPrice_NotComputed(t *testing.T) {
	tests := []struct {
		name string
		p    profile.Profile
	}{
		{"zero followers", creator(0, 3, profile.Instagram)},
		{"zero engagement", creator(5000, 0, profile.Instagram)},
		{"negative engagement", creator(5000, -1, profile.Instagram)},
		{"nan engagement", creator(5000, math.NaN(), profile.Instagram)},
		{"infinite engagement", creator(5000, math.Inf(1), profile.Instagram)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(Result{}, Price(tt.p, Config{Deliverables: 1})); diff != "" {
				t.Errorf("Price() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEMV(t *testing.T) {
	tests := []struct {
		platform profile.Platform
		want     float64
	}{
		{profile.Instagram, 140}, // 100000 * 0.2 * 1.4 * 5 / 1000
		{profile.YouTube, 210},
		{profile.TikTok, 280},
		{profile.LinkedIn, 140},
		{profile.Twitter, 140},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			got := Price(creator(100000, 2, tt.platform), Config{Deliverables: 1})
			if diff := cmp.Diff(tt.want, got.EMV, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("EMV mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseExclusivity(t *testing.T) {
	tests := []struct {
		in      string
		want    Exclusivity
		wantErr bool
	}{
		{"", ExclusivityNone, false},
		{"none", ExclusivityNone, false},
		{"30-day", Exclusivity30, false},
		{"90d", Exclusivity90, false},
		{"180 days", Exclusivity180, false},
		{"365", Exclusivity365, false},
		{" 90-Day ", Exclusivity90, false},
		{"45d", ExclusivityNone, true},
		{"forever", ExclusivityNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExclusivity(tt.in)
			if tt.wantErr {
				if !errors.Is(err, profile.ErrUnknownValue) {
					t.Errorf("ParseExclusivity(%q) error = %v, want ErrUnknownValue", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExclusivity(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseExclusivity(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExclusivity(t *testing.T) {
	var total int64
	for _, e := range Exclusivities() {
		total += e.Premium()
	}
	if total != 110 {
		t.Errorf("sum of premiums = %d, want 110", total)
	}
	if Exclusivity180.Days() != 180 || ExclusivityNone.Days() != 0 {
		t.Error("Days() mismatch")
	}
}
