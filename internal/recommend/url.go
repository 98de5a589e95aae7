package recommend

import (
	"net/url"
	"regexp"
	"strings"
)

var youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// NormalizeURL returns the deduplication key of a video URL. Scheme and host
// are lower-cased, a leading "www." or "m." is dropped along with the fragment
// and trailing slash, and query parameters are sorted. Every YouTube link form
// for one video (watch, youtu.be, shorts, embed) maps to the same key.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	if id := youtubeVideoID(host, u); id != "" {
		return "youtube:" + id
	}

	out := url.URL{
		Scheme:   strings.ToLower(u.Scheme),
		Host:     host,
		Path:     strings.TrimRight(u.Path, "/"),
		RawQuery: u.Query().Encode(),
	}
	if port := u.Port(); port != "" {
		out.Host = host + ":" + port
	}
	return out.String()
}

func youtubeVideoID(host string, u *url.URL) string {
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch" || u.Path == "/watch/":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.Trim(strings.TrimPrefix(u.Path, "/shorts/"), "/")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.Trim(strings.TrimPrefix(u.Path, "/embed/"), "/")
		case strings.HasPrefix(u.Path, "/live/"):
			id = strings.Trim(strings.TrimPrefix(u.Path, "/live/"), "/")
		}
	}
	if youtubeID.MatchString(id) {
		return id
	}
	return ""
}
