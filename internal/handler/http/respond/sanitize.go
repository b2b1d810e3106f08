package respond

import "regexp"

var (
	// user:password@ in a DSN
	dbPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)
	// compact JWS: three base64url segments
	jwtPattern = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)
	// key=value pairs in libpq connection strings
	passwordKVPattern = regexp.MustCompile(`(?i)(password=)\S+`)
)

// SanitizeError returns err's message with credentials masked, for logging.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = passwordKVPattern.ReplaceAllString(msg, "${1}****")
	msg = jwtPattern.ReplaceAllString(msg, "****")
	return msg
}
