package lint

import (
	"fmt"
	"strings"
)

// DefaultDocsBaseURL is the hosted rule documentation.
const DefaultDocsBaseURL = "https://fortlint.dev/rules"

// DocsBaseURL can be overridden via config for local/offline mode.
var DocsBaseURL = DefaultDocsBaseURL

// BuildDocURL constructs a documentation URL for a rule.
func BuildDocURL(code string) string {
	return fmt.Sprintf("%s/%s", DocsBaseURL, strings.ToLower(code))
}

// SetDocsBaseURL overrides the default documentation base URL.
func SetDocsBaseURL(url string) {
	DocsBaseURL = strings.TrimSuffix(url, "/")
}

// ResetDocsBaseURL resets to the default documentation URL.
func ResetDocsBaseURL() {
	DocsBaseURL = DefaultDocsBaseURL
}
