package domain

import (
	"strings"
	"time"
)

// dobLayout is the only accepted date-of-birth format: DD/MM/YYYY.
const dobLayout = "02/01/2006"

// ValidSSN reports whether ssn reduces to exactly nine decimal digits after
// dash separators are removed. This is a format check only; the SSN is not
// verified against any bureau (a documented product limitation).
func ValidSSN(ssn string) bool {
	ssn = strings.ReplaceAll(ssn, "-", "")
	if len(ssn) != 9 {
		return false
	}
	for _, r := range ssn {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseDOB parses a DD/MM/YYYY date of birth. Any other format, or an invalid
// calendar date, yields ErrInvalidDOB.
func ParseDOB(dob string) (time.Time, error) {
	t, err := time.Parse(dobLayout, dob)
	if err != nil {
		return time.Time{}, ErrInvalidDOB
	}
	return t, nil
}
