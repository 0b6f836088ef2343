package service

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

var doiPrefixes = []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "doi:"}

const orcidPrefix = "https://orcid.org/"

// normalizeDOI trims resolver prefixes and lowercases; DOIs are case-insensitive.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	for _, prefix := range doiPrefixes {
		if strings.HasPrefix(lower, prefix) {
			lower = lower[len(prefix):]
			break
		}
	}
	return strings.TrimSpace(lower)
}

// normalizeORCID strips the resolver URL and uppercases the check digit.
func normalizeORCID(orcid string) string {
	orcid = strings.TrimSpace(orcid)
	if len(orcid) >= len(orcidPrefix) && strings.EqualFold(orcid[:len(orcidPrefix)], orcidPrefix) {
		orcid = orcid[len(orcidPrefix):]
	}
	return strings.ToUpper(orcid)
}

// sanitizeString collapses whitespace and trims the result.
func sanitizeString(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}
