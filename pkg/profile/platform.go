// Platform identifiers and content categories.

package profile

import "strings"

// Platform identifies the social network a creator publishes on.
type Platform string

// Supported platforms.
const (
	Instagram Platform = "instagram"
	TikTok    Platform = "tiktok"
	YouTube   Platform = "youtube"
	LinkedIn  Platform = "linkedin"
	Twitter   Platform = "twitter"
	Other     Platform = "other"
)

// PlatformType is the category of content a platform hosts.
type PlatformType string

// Platform type constants.
const (
	PlatformTypeVideo     PlatformType = "video"      // long-form video channels
	PlatformTypeShortForm PlatformType = "short-form" // short vertical video
	PlatformTypeSocial    PlatformType = "social"
)

// Type returns the content category for the platform.
func (p Platform) Type() PlatformType {
	switch p {
	case YouTube:
		return PlatformTypeVideo
	case TikTok:
		return PlatformTypeShortForm
	default:
		return PlatformTypeSocial
	}
}

// Label returns a human-readable platform name.
func (p Platform) Label() string {
	switch p {
	case Instagram:
		return "Instagram"
	case TikTok:
		return "TikTok"
	case YouTube:
		return "YouTube"
	case LinkedIn:
		return "LinkedIn"
	case Twitter:
		return "Twitter/X"
	default:
		return "Other"
	}
}

// ParsePlatform maps a platform name to a Platform.
// Unknown names map to Other.
func ParsePlatform(name string) Platform {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "instagram", "ig":
		return Instagram
	case "tiktok":
		return TikTok
	case "youtube", "yt":
		return YouTube
	case "linkedin":
		return LinkedIn
	case "twitter", "x":
		return Twitter
	default:
		return Other
	}
}

// Platforms returns every known platform except Other.
func Platforms() []Platform {
	return []Platform{Instagram, TikTok, YouTube, LinkedIn, Twitter}
}
