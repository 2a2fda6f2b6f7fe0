package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// Origins is the set of browser origins allowed to call the API.
type Origins []string

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}

// Allow reports whether origin is listed. Matching ignores case and a
// trailing slash.
func (o Origins) Allow(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	for _, allowed := range o {
		if normalizeOrigin(allowed) == origin {
			return true
		}
	}
	return false
}

// CheckRequest is a websocket.Upgrader CheckOrigin. Requests without an
// Origin header (non-browser clients) and same-host requests pass.
func (o Origins) CheckRequest(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return o.Allow(origin)
}
