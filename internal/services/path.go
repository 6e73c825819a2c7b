package services

import (
	"net/url"
	"strings"
)

// resourcePath escapes id as a single path segment between base and rest.
func resourcePath(base, id string, rest ...string) string {
	return base + url.PathEscape(id) + strings.Join(rest, "")
}
