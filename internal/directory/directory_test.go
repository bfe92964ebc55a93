package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoster(t *testing.T) {
	roster := DefaultRoster()
	docs := roster.List()
	require.Len(t, docs, 4)

	// Codes stay in numeric order for keyboard rendering.
	for i, want := range []string{"1", "2", "3", "4"} {
		assert.Equal(t, want, docs[i].Code)
	}

	cardio, ok := roster.Lookup("2")
	require.True(t, ok)
	assert.Equal(t, "Dr. Mark Johnson", cardio.Name)
	assert.Equal(t, "Cardiology", cardio.Specialty)
	assert.Equal(t, "$80", cardio.Fee)
	assert.True(t, cardio.HasTimeSlot("10:00"))
	assert.False(t, cardio.HasTimeSlot("09:00"))

	ortho, ok := roster.Lookup("4")
	require.True(t, ok)
	assert.True(t, ortho.AvailableOn(time.Tuesday))
	assert.False(t, ortho.AvailableOn(time.Monday))

	_, ok = roster.Lookup("99")
	assert.False(t, ok)
}

func TestNewStaticSourceDeduplicates(t *testing.T) {
	src := NewStaticSource(
		Doctor{Code: "1", Name: "First"},
		Doctor{Code: "1", Name: "Duplicate"},
		Doctor{Code: "2", Name: "Second"},
	)
	docs := src.List()
	require.Len(t, docs, 2)
	assert.Equal(t, "First", docs[0].Name)
	assert.Equal(t, "Second", docs[1].Name)
}

func TestUpcomingDates(t *testing.T) {
	// Monday.
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)

	weekdayDoc := Doctor{Code: "1", AvailableDays: []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}}
	opts := UpcomingDates(weekdayDoc, now)
	require.Len(t, opts, 5)
	assert.Equal(t, "2026-08-31", opts[0].Value())
	assert.Equal(t, "2026-08-31 (Monday)", opts[0].Label())
	assert.Equal(t, "2026-09-04", opts[4].Value())

	tueThuFri := Doctor{Code: "4", AvailableDays: []time.Weekday{
		time.Tuesday, time.Thursday, time.Friday,
	}}
	opts = UpcomingDates(tueThuFri, now)
	require.Len(t, opts, 3)
	assert.Equal(t, "2026-09-01 (Tuesday)", opts[0].Label())

	never := Doctor{Code: "x"}
	assert.Empty(t, UpcomingDates(never, now))
}
