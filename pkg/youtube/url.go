package youtube

import "regexp"

// videoIDPattern matches the 11-character video id in watch, share and
// embed URL shapes.
var videoIDPattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})(?:[^0-9A-Za-z_-]|$)`)

// ExtractVideoID pulls the video identifier out of a YouTube URL.
// Returns an empty string when no identifier is present.
func ExtractVideoID(url string) string {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}
