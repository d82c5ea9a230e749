package chat

import "regexp"

var youtubeRx = regexp.MustCompile(`https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)[A-Za-z0-9_\-]+`)

// ExtractVideoLinks returns the YouTube links in text, in order of appearance, without duplicates.
func ExtractVideoLinks(text string) []string {
	found := youtubeRx.FindAllString(text, -1)
	if len(found) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(found))
	out := make([]string, 0, len(found))
	for _, l := range found {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
