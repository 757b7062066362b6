package portal

import (
	"path"
	"regexp"
)

// courseURLRe is the required shape of a course registration URL:
// a department code, a year, a season, and the trailing lecture number.
var courseURLRe = regexp.MustCompile(`^https?://[^/]+/lectures/d-[a-zA-Z]{3,6}/\d{4}/(spring|autumn)/\d{3}-\d{4}-\d{2}L`)

// CourseURL validates raw as a course registration URL and returns the
// canonical base endpoint, with any trailing path, query or fragment
// stripped. Fails with ErrInvalidURL when the pattern does not match.
func CourseURL(raw string) (string, error) {
	base := courseURLRe.FindString(raw)
	if base == "" {
		return "", ErrInvalidURL
	}
	return base, nil
}

// LectureNumber returns the trailing lecture identifier of a base
// endpoint, e.g. "252-0027-00L".
func LectureNumber(base string) string {
	return path.Base(base)
}

// Endpoints derived from the course base URL.

func seriesMetadataURL(base string) string {
	return base + ".series-metadata.json"
}

func episodeMetadataURL(base, episodeID string) string {
	return base + "/" + episodeID + ".series-metadata.json"
}

func seriesLoginURL(base string) string {
	return base + ".series-login.json"
}

func securityCheckURL(base string) string {
	return base + "/j_security_check"
}

func refererURL(base string) string {
	return base + ".html"
}
