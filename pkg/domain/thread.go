package domain

import (
	"regexp"
	"strconv"
)

// threadPattern matches metric thread specs such as "M20x1.5".
// Match is anchored at the start only; trailing qualifiers are tolerated.
var threadPattern = regexp.MustCompile(`^M(\d+(?:\.\d+)?)x(\d+(?:\.\d+)?)`)

// ThreadSpec is a parsed metric thread designation.
type ThreadSpec struct {
	MajorDiameter float64
	Pitch         float64
}

// ParseThreadSpec parses a metric thread spec of the form M<major>x<pitch>.
// It reports false for empty input, the literal "None", or anything that
// does not match the pattern. Callers treat a false result as "no thread":
// an unparsable spec is ignored rather than rejected, so a typo in the
// thread field degrades to an unthreaded neck instead of failing the
// request.
func ParseThreadSpec(s string) (ThreadSpec, bool) {
	if s == "" || s == "None" {
		return ThreadSpec{}, false
	}

	m := threadPattern.FindStringSubmatch(s)
	if m == nil {
		return ThreadSpec{}, false
	}

	major, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ThreadSpec{}, false
	}
	pitch, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return ThreadSpec{}, false
	}

	return ThreadSpec{MajorDiameter: major, Pitch: pitch}, true
}
