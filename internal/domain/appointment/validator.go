package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/BruuAmorim/eva-agendmento-sub000/internal/validators"
)

const (
	MinDurationMinutes     = 15
	MaxDurationMinutes     = 480
	DefaultDurationMinutes = 60

	minCustomerNameLength = 2
)

// Candidate is the shape checked by Validate, before or after a patch merge.
type Candidate struct {
	CustomerName    string
	CustomerEmail   string
	Date            string
	Time            string
	DurationMinutes *int
}

type ValidateOptions struct {
	// CheckPastDate rejects dates strictly before today.
	CheckPastDate bool
}

// Validate evaluates every rule and returns all violations; an empty result
// means the candidate is valid. today must be a DateFormat string.
func Validate(c Candidate, today string, opts ValidateOptions) []string {
	var errs []string

	if len([]rune(strings.TrimSpace(c.CustomerName))) < minCustomerNameLength {
		errs = append(errs, fmt.Sprintf("customer_name must have at least %d characters", minCustomerNameLength))
	}

	switch date := strings.TrimSpace(c.Date); {
	case date == "":
		errs = append(errs, "date is required")
	default:
		d, err := time.Parse(DateFormat, date)
		if err != nil {
			errs = append(errs, "date must use the YYYY-MM-DD format")
			break
		}
		if opts.CheckPastDate && d.Format(DateFormat) < today {
			errs = append(errs, "date must not be in the past")
		}
	}

	if strings.TrimSpace(c.Time) == "" {
		errs = append(errs, "time is required")
	} else if _, err := TimeToMinutes(c.Time); err != nil {
		errs = append(errs, "time must use the HH:MM format")
	}

	if c.DurationMinutes != nil {
		if d := *c.DurationMinutes; d < MinDurationMinutes || d > MaxDurationMinutes {
			errs = append(errs, fmt.Sprintf("duration_minutes must be between %d and %d", MinDurationMinutes, MaxDurationMinutes))
		}
	}

	if email := strings.TrimSpace(c.CustomerEmail); email != "" && !validators.IsEmailShapeValid(email) {
		errs = append(errs, "customer_email is not a valid email address")
	}

	return errs
}
