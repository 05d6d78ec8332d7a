package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-review-service/internal/models"
)

var catalog = []models.Movie{{ID: "1"}, {ID: "2"}, {ID: "3"}}

func TestSelectFeaturedKeepsTodaysPick(t *testing.T) {
	prior := &models.RotationRecord{MovieID: "2", Date: "2026-08-30"}

	for i := 0; i < 20; i++ {
		rec := SelectFeatured("2026-08-30", prior, catalog)
		assert.Equal(t, *prior, rec, "same-day loads must return the identical pick")
	}
}

func TestSelectFeaturedRedrawsWhenStale(t *testing.T) {
	prior := &models.RotationRecord{MovieID: "2", Date: "2026-08-29"}

	rec := SelectFeatured("2026-08-30", prior, catalog)
	assert.Equal(t, "2026-08-30", rec.Date, "stored date must be rewritten to today")
	assertInCatalog(t, rec.MovieID)
}

func TestSelectFeaturedFirstDraw(t *testing.T) {
	rec := SelectFeatured("2026-08-30", nil, catalog)
	assert.Equal(t, "2026-08-30", rec.Date)
	assertInCatalog(t, rec.MovieID)
}

func TestSelectFeaturedEmptyCatalog(t *testing.T) {
	rec := SelectFeatured("2026-08-30", nil, nil)
	assert.Equal(t, "2026-08-30", rec.Date)
	assert.Empty(t, rec.MovieID)
}

func assertInCatalog(t *testing.T, movieID string) {
	t.Helper()
	for _, m := range catalog {
		if m.ID == movieID {
			return
		}
	}
	require.Failf(t, "pick outside catalog", "movie %q is not a catalog entry", movieID)
}
