package normalize

import "strings"

// Kind is the set of shapes a record exposes. A record may be both a profile and a post.
type Kind uint8

// Record kinds.
const (
	KindProfile Kind = 1 << iota
	KindPost
)

// Is reports whether k includes other.
func (k Kind) Is(other Kind) bool { return k&other != 0 }

func (k Kind) String() string {
	switch {
	case k.Is(KindProfile) && k.Is(KindPost):
		return "profile+post"
	case k.Is(KindProfile):
		return "profile"
	case k.Is(KindPost):
		return "post"
	default:
		return "unknown"
	}
}

// Field name fallbacks, in priority order.
var (
	followerKeys = []string{"followersCount", "followers", "subscribersCount", "followerCount"}
	bioKeys      = []string{"biography", "bio", "description"}
	verifiedKeys = []string{"verified", "isVerified"}
	likeKeys     = []string{"likesCount", "likes", "likeCount", "likes_count", "like_count", "totalLikes"}
	commentKeys  = []string{"commentsCount", "comments", "commentCount", "comments_count", "comment_count", "totalComments"}
	captionKeys  = []string{"caption", "text", "description"}
	timeKeys     = []string{"timestamp", "publishedAt"}

	// Nested post arrays carried on profile items.
	nestedPostKeys = []string{"latestPosts", "latestIgtvVideos"}
)

const (
	profileMarker = "userprofile"
	postMarker    = "post"
)

// Classify inspects which optional fields r carries. Nothing is required; an item
// with none of the known capabilities is unknown.
func Classify(r Record) Kind {
	var k Kind
	marker, _ := r["type"].(string) //nolint:errcheck // non-string type is no marker
	marker = strings.ToLower(marker)

	if Has(r, followerKeys...) || Has(r, "biography", "username") || marker == profileMarker {
		k |= KindProfile
	}
	if Has(r, likeKeys...) || Has(r, commentKeys...) || Has(r, "caption") || Has(r, timeKeys...) || marker == postMarker {
		k |= KindPost
	}
	return k
}

// nestedPosts returns the post items embedded in a profile record.
func nestedPosts(r Record) []Record {
	var out []Record
	for _, key := range nestedPostKeys {
		items, ok := r[key].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
	}
	return out
}
