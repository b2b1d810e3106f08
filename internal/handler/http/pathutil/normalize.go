package pathutil

import (
	"net/http"
	"regexp"
	"strings"
)

// PathPattern maps concrete paths to a route template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns cover requests the mux did not match (404/405), so that ids
// in unknown URLs do not become label values.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/posts/\d+$`), Template: "/posts/{id}"},
	{Pattern: regexp.MustCompile(`^/favorites/posts/\d+$`), Template: "/favorites/posts/{id}"},
	{Pattern: regexp.MustCompile(`^/favorites/users/\d+$`), Template: "/favorites/users/{id}"},
	{Pattern: regexp.MustCompile(`^/users/\d+$`), Template: "/users/{id}"},
	{Pattern: regexp.MustCompile(`/\d+(/|$)`), Template: ""},
}

// NormalizePath replaces numeric ids in path with template wildcards.
// Query strings and a trailing slash are dropped. Unknown paths with an id
// segment collapse to "/other".
//
//	NormalizePath("/posts/123")           // "/posts/{id}"
//	NormalizePath("/favorites/users/7/")  // "/favorites/users/{id}"
//	NormalizePath("/health?x=1")          // "/health"
//	NormalizePath("/nope/99")             // "/other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			if p.Template == "" {
				return "/other"
			}
			return p.Template
		}
	}
	return path
}

// RouteLabel returns the matched route template without its method, or the
// normalized URL path when no route matched. Call it after the mux has
// served r.
func RouteLabel(r *http.Request) string {
	if r.Pattern == "" {
		return NormalizePath(r.URL.Path)
	}
	pattern := r.Pattern
	if i := strings.IndexByte(pattern, ' '); i != -1 {
		pattern = strings.TrimSpace(pattern[i+1:])
	}
	return pattern
}
