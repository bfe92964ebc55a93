package directory

import (
	"fmt"
	"time"
)

// DateOption is one selectable appointment date.
type DateOption struct {
	Date    time.Time
	Weekday time.Weekday
}

// Value returns the date token stored in the session ("2006-01-02").
func (o DateOption) Value() string {
	return o.Date.Format("2006-01-02")
}

// Label returns the button text shown to the user, date first so the
// conversation can recover the token by splitting on the first space.
func (o DateOption) Label() string {
	return fmt.Sprintf("%s (%s)", o.Value(), o.Weekday)
}

// UpcomingDates returns the next 7 calendar days (today inclusive) on which
// the doctor is available, in chronological order. The slice is empty when
// none of the doctor's weekdays fall inside the window.
func UpcomingDates(d Doctor, now time.Time) []DateOption {
	var out []DateOption
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, i)
		if d.AvailableOn(day.Weekday()) {
			out = append(out, DateOption{Date: day, Weekday: day.Weekday()})
		}
	}
	return out
}
