// Package agendastatus classifies agenda items as upcoming or completed.
//
// The status is derived on every read by comparing the item's date with the
// current time; it is never stored. The boundary is start-of-today in the
// reporting timezone: anything strictly before today is completed, today
// itself is still upcoming.
package agendastatus

import (
	"time"

	"github.com/dalemusser/ukmhub/internal/domain/models"
)

// Classify returns models.AgendaCompleted when date falls strictly before
// the start of now's calendar day, and models.AgendaUpcoming otherwise.
// Both times are interpreted in now's location.
func Classify(date, now time.Time) string {
	loc := now.Location()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if date.In(loc).Before(startOfToday) {
		return models.AgendaCompleted
	}
	return models.AgendaUpcoming
}

// ClassifyAll maps Classify over a list of agenda dates, preserving order.
func ClassifyAll(dates []time.Time, now time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = Classify(d, now)
	}
	return out
}
