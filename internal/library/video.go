package library

import (
	"regexp"
)

var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// VideoID extracts the 11 character video id from watch, embed, and short
// links. ok is false when the url carries no id.
func VideoID(mediaURL string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(mediaURL)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// EmbedURL is the player url for an audio-only embed of mediaURL.
func EmbedURL(mediaURL string) (string, bool) {
	id, ok := VideoID(mediaURL)
	if !ok {
		return "", false
	}
	return "https://www.youtube.com/embed/" + id + "?autoplay=0&controls=1&modestbranding=1&rel=0", true
}
