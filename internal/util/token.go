package util

import (
	"net/http"
	"strings"
)

// ExtractToken pulls the bearer token out of the Authorization header,
// or returns "" when the header is missing or malformed.
func ExtractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return parts[1]
}
