package notify

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/mediline/apptbot/internal/booking"
)

// CalendarConfig configures the Google Calendar integration.
type CalendarConfig struct {
	CredentialsFile string `yaml:"credentials_file" envconfig:"CALENDAR_CREDENTIALS_FILE"`
	CalendarID      string `yaml:"calendar_id" envconfig:"CALENDAR_ID"`
	Timezone        string `yaml:"timezone" envconfig:"CALENDAR_TIMEZONE"`
	SlotMinutes     int    `yaml:"slot_minutes" envconfig:"CALENDAR_SLOT_MINUTES"`
}

// Calendar writes booked slots to a Google Calendar. It implements
// booking.Scheduler.
type Calendar struct {
	svc        *calendar.Service
	calendarID string
	loc        *time.Location
	tzName     string
	slotLen    time.Duration
}

// NewCalendar authenticates with a service-account credentials file and
// verifies the configured timezone.
func NewCalendar(ctx context.Context, cfg CalendarConfig) (*Calendar, error) {
	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("calendar: read credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, raw, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("calendar: parse credentials: %w", err)
	}
	svc, err := calendar.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("calendar: init service: %w", err)
	}

	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("calendar: load timezone %q: %w", tz, err)
	}

	slot := time.Duration(cfg.SlotMinutes) * time.Minute
	if slot <= 0 {
		slot = 30 * time.Minute
	}
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Calendar{svc: svc, calendarID: calendarID, loc: loc, tzName: tz, slotLen: slot}, nil
}

// Schedule inserts one event for the appointment, with the patient as
// attendee and an email plus popup reminder.
func (c *Calendar) Schedule(ctx context.Context, appt booking.Appointment) error {
	start, err := appt.StartsAt(c.loc)
	if err != nil {
		return fmt.Errorf("calendar: parse slot for %s: %w", appt.ID, err)
	}
	end := start.Add(c.slotLen)

	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s - %s", appt.DoctorName, appt.PatientName),
		Description: eventDescription(appt),
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: c.tzName},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: c.tzName},
		Attendees: []*calendar.EventAttendee{
			{Email: appt.Email, DisplayName: appt.PatientName},
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	if _, err := c.svc.Events.Insert(c.calendarID, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: insert event for %s: %w", appt.ID, err)
	}
	return nil
}

func eventDescription(a booking.Appointment) string {
	desc := fmt.Sprintf(
		"Appointment ID: %s\nPatient: %s (%s, %s)\nPhone: %s\nEmail: %s\nComplaint: %s\nFee: %s",
		a.ID, a.PatientName, a.AgeGroup, a.Gender, a.Phone, a.Email, a.Complaint, a.Fee,
	)
	if a.Notes != "" {
		desc += "\nNotes: " + a.Notes
	}
	return desc
}
