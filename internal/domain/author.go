package domain

import "strings"

// Author is a researcher identity. ID doubles as the external node id of the
// coauthor graph; it is not assumed to be dense or zero-based.
type Author struct {
	ID         int64
	ORCID      string
	LastName   string
	GivenNames string
}

// DisplayName renders "Given Last", falling back to the ORCID.
func (a Author) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(a.GivenNames) + " " + strings.TrimSpace(a.LastName))
	if name == "" {
		return a.ORCID
	}
	return name
}
