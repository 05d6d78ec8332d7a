// Package rotation picks the featured "movie of the day".
package rotation

import (
	"math/rand/v2"
	"time"

	"movie-review-service/internal/models"
)

// DayFormat renders a timestamp as the calendar-day string stored in
// the rotation record. Only same-day equality matters.
const DayFormat = "2006-01-02"

// Today returns the current calendar-day string.
func Today() string {
	return time.Now().Format(DayFormat)
}

// SelectFeatured returns the rotation record for today. A prior record
// dated today is returned unchanged, so repeated loads within one day
// are idempotent. An absent or stale record triggers a fresh uniform
// draw from the catalog; the draw itself is not reproducible, only the
// persisted pick is. An empty catalog yields a record with no movie.
func SelectFeatured(today string, prior *models.RotationRecord, catalog []models.Movie) models.RotationRecord {
	if prior != nil && prior.Date == today {
		return *prior
	}
	rec := models.RotationRecord{Date: today}
	if len(catalog) > 0 {
		rec.MovieID = catalog[rand.IntN(len(catalog))].ID
	}
	return rec
}
