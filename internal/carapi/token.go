package carapi

import (
	"os"
	"strings"
)

// FileToken reads the bearer token from a locally persisted file on
// every call, the moral equivalent of the browser reading it from
// local storage. A missing or empty file yields no credential; the
// token is never refreshed by this package.
func FileToken(path string) TokenSource {
	return func() string {
		b, err := os.ReadFile(path)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(b))
	}
}
