// Package identity turns user-entered profile URLs or handles into a platform and handle.
package identity

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/creatorvalue/pkg/profile"
)

// Identity is a resolved creator reference.
type Identity struct {
	Platform profile.Platform `json:"platform"`
	Handle   string           `json:"handle"`
}

// Order matters: the first matching pattern wins.
var handlePatterns = []struct {
	platform profile.Platform
	re       *regexp.Regexp
}{
	{profile.Instagram, regexp.MustCompile(`(?i)instagram\.com/([^/?#]+)`)},
	{profile.TikTok, regexp.MustCompile(`(?i)tiktok\.com/@([^/?#]+)`)},
	{profile.YouTube, regexp.MustCompile(`(?i)youtube\.com/c/([^/?#]+)`)},
	{profile.YouTube, regexp.MustCompile(`(?i)youtube\.com/channel/([^/?#]+)`)},
	{profile.YouTube, regexp.MustCompile(`(?i)youtube\.com/@([^/?#]+)`)},
	{profile.LinkedIn, regexp.MustCompile(`(?i)linkedin\.com/in/([^/?#]+)`)},
	{profile.Twitter, regexp.MustCompile(`(?i)twitter\.com/([^/?#]+)`)},
	{profile.Twitter, regexp.MustCompile(`(?i)(?:^|//|\.)x\.com/([^/?#]+)`)},
}

// Resolve parses raw into a platform and handle. It never fails: input that matches no
// known URL shape is treated as a bare handle, and the platform defaults to Instagram.
func Resolve(raw string) Identity {
	return ResolveFor(raw, profile.Instagram)
}

// ResolveFor is Resolve with a caller-chosen platform for input whose platform cannot be
// inferred, e.g. a bare handle typed into a platform-specific form.
func ResolveFor(raw string, fallback profile.Platform) Identity {
	s := strings.TrimSpace(raw)

	platform := DetectPlatform(s)
	if platform == profile.Other {
		platform = fallback
	}

	for _, p := range handlePatterns {
		if m := p.re.FindStringSubmatch(s); len(m) > 1 {
			return Identity{Platform: platform, Handle: m[1]}
		}
	}

	return Identity{Platform: platform, Handle: strings.TrimPrefix(s, "@")}
}

// DetectPlatform reports the platform a URL belongs to, or profile.Other.
func DetectPlatform(s string) profile.Platform {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "instagram.com"):
		return profile.Instagram
	case strings.Contains(lower, "tiktok.com"):
		return profile.TikTok
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return profile.YouTube
	case strings.Contains(lower, "linkedin.com"):
		return profile.LinkedIn
	case strings.Contains(lower, "twitter.com"), isXDomain(lower):
		return profile.Twitter
	default:
		return profile.Other
	}
}

func isXDomain(lower string) bool {
	return lower == "x.com" ||
		strings.HasPrefix(lower, "x.com/") ||
		strings.Contains(lower, "//x.com") ||
		strings.Contains(lower, ".x.com")
}

// IsURL reports whether s looks like a URL rather than a handle.
func IsURL(s string) bool {
	return strings.Contains(s, "://") || strings.HasPrefix(s, "http") || strings.Contains(s, ".com/")
}

// ProfileURL returns the canonical public profile URL for the identity.
func (id Identity) ProfileURL() string {
	h := url.PathEscape(id.Handle)
	switch id.Platform {
	case profile.Instagram:
		return "https://www.instagram.com/" + h + "/"
	case profile.TikTok:
		return "https://www.tiktok.com/@" + h
	case profile.YouTube:
		return "https://www.youtube.com/@" + h
	case profile.LinkedIn:
		return "https://www.linkedin.com/in/" + h
	case profile.Twitter:
		return "https://x.com/" + h
	default:
		return h
	}
}

// String returns "platform:@handle".
func (id Identity) String() string {
	return string(id.Platform) + ":@" + id.Handle
}
