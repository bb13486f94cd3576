// Package detector classifies pages before summarization: whether a URL can
// be read at all, and which language its text is written in.
package detector

import (
	"net/url"
	"strings"
)

// restrictedPrefixes are browser-internal schemes whose content cannot be extracted.
var restrictedPrefixes = []string{
	"chrome://",
	"chrome-extension://",
	"chrome-search://",
	"edge://",
	"extension://",
	"moz-extension://",
	"about:",
	"view-source:",
	"file://",
	"devtools://",
	"data:",
	"javascript:",
}

// restrictedHosts serve store pages that block content scripts.
var restrictedHosts = map[string][]string{
	"chrome.google.com":           {"/webstore"},
	"chromewebstore.google.com":   {"/"},
	"microsoftedge.microsoft.com": {"/addons"},
}

// IsRestricted reports whether rawURL points at a page whose content may not be read.
func IsRestricted(rawURL string) bool {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	if lower == "" {
		return false
	}

	for _, prefix := range restrictedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}

	u, err := url.Parse(lower)
	if err != nil {
		return false
	}
	for _, pathPrefix := range restrictedHosts[u.Hostname()] {
		if strings.HasPrefix(u.Path+"/", pathPrefix) {
			return true
		}
	}
	return false
}
