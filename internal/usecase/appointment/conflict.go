package appointment

import (
	"context"
	"fmt"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
)

// ConflictDetector checks a candidate window against the date's active
// bookings in the repository.
type ConflictDetector struct {
	repo domain.Repository
}

func NewConflictDetector(repo domain.Repository) *ConflictDetector {
	return &ConflictDetector{repo: repo}
}

// HasConflict reports whether [time, time+duration) on date overlaps any
// non-cancelled appointment other than excludingID. Pass "" to exclude nothing.
func (c *ConflictDetector) HasConflict(
	ctx context.Context,
	date string,
	hhmm string,
	durationMinutes int,
	excludingID string,
) (bool, error) {

	start, err := domain.TimeToMinutes(hhmm)
	if err != nil {
		return false, err
	}

	existing, err := c.repo.Query(ctx, domain.Filter{Date: date, ActiveOnly: true})
	if err != nil {
		return false, fmt.Errorf("load bookings for %s: %w", date, err)
	}

	_, found := domain.FirstConflict(existing, domain.NewInterval(start, durationMinutes), excludingID)
	return found, nil
}
