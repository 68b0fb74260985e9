package appointment

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	TimeFormat = "15:04"
	DateFormat = "2006-01-02"

	MinutesPerDay = 24 * 60
)

var hhmmPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// TimeToMinutes converts an "HH:MM" time of day into minutes after midnight.
func TimeToMinutes(hhmm string) (int, error) {
	m := hhmmPattern.FindStringSubmatch(hhmm)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, hhmm)
	}

	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if h > 23 || mm > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, hhmm)
	}

	return h*60 + mm, nil
}

// MinutesToTime is the inverse of TimeToMinutes. Values past the end of the
// day are not wrapped: 1500 renders as "25:00".
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
