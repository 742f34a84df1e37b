// Package listing extracts a street address from a property listing URL.
// No scraping happens here: the address is recovered from the URL path
// alone, which most listing sites encode as a hyphenated slug.
package listing

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

const minAddressLen = 8

var (
	rbSuffix    = regexp.MustCompile(`_rb/?$`)
	trailingIDs = regexp.MustCompile(`\d{6,}$`)
)

// ExtractAddress pulls a best-effort street address out of a listing URL.
// It picks the longest path segment containing a digit (the house number),
// strips listing-site suffixes and trailing numeric IDs, and converts the
// hyphenated slug to spaces. Returns "" when nothing address-like is found.
func ExtractAddress(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}

	var candidate string
	for _, seg := range strings.Split(path, "/") {
		if !containsDigit(seg) {
			continue
		}
		if len(seg) > len(candidate) {
			candidate = seg
		}
	}
	if candidate == "" {
		return ""
	}

	candidate = rbSuffix.ReplaceAllString(candidate, "")
	addr := strings.ReplaceAll(candidate, "-", " ")
	addr = strings.TrimSpace(trailingIDs.ReplaceAllString(addr, ""))
	if len(addr) < minAddressLen {
		return ""
	}
	return addr
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
