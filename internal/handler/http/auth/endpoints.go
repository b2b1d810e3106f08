package auth

import "strings"

// PublicEndpoints are served without a bearer token: orchestration probes
// and the Prometheus scrape target.
var PublicEndpoints = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
}

// IsPublicEndpoint reports whether path is one of PublicEndpoints. A trailing
// slash or query string is tolerated; sub-paths are not.
//
//	IsPublicEndpoint("/health")        // true
//	IsPublicEndpoint("/health?x=1")    // true
//	IsPublicEndpoint("/health/detail") // false
//	IsPublicEndpoint("/favorites")     // false
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if path == endpoint || path == endpoint+"/" || strings.HasPrefix(path, endpoint+"?") {
			return true
		}
	}
	return false
}
