package youtube

import "strings"

// linkMarkers are the host/path shapes the bot accepts. Matching is plain
// substring search so share links with extra query parameters still pass.
var linkMarkers = []string{
	"youtube.com/watch",
	"youtu.be/",
	"youtube.com/shorts/",
	"youtube.com/v/",
	"youtube.com/embed/",
}

// IsSupportedLink reports whether text contains a supported YouTube link.
// Case-insensitive, never errors, no network access.
func IsSupportedLink(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range linkMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
