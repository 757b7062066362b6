package portal

import (
	"math"
	"regexp"
	"strconv"
)

// durationRe matches the portal's ISO-8601-style duration expressions:
// integer hours and minutes, seconds optionally fractional. Each component
// may be absent.
var durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?$`)

// ParseDuration converts a duration expression such as "PT1H2M3.5S" into
// total seconds with millisecond precision. Absent components default to
// zero; an expression that does not fit the grammar parses as 0.
func ParseDuration(s string) float64 {
	m := durationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	var total float64
	if m[1] != "" {
		v, _ := strconv.ParseFloat(m[1], 64)
		total += v * 3600
	}
	if m[2] != "" {
		v, _ := strconv.ParseFloat(m[2], 64)
		total += v * 60
	}
	if m[3] != "" {
		v, _ := strconv.ParseFloat(m[3], 64)
		total += v
	}
	return math.Round(total*1000) / 1000
}
