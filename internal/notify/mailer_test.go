package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediline/apptbot/internal/booking"
)

func sampleAppointment() booking.Appointment {
	return booking.Appointment{
		ID:              "APT-1A2B3C4D",
		DoctorName:      "Dr. Mark Johnson",
		DoctorSpecialty: "Cardiology",
		Fee:             "$80",
		PatientName:     "Jane Doe",
		AgeGroup:        "26-35",
		Gender:          "Female",
		Phone:           "+1-555-0100",
		Email:           "jane@example.com",
		Complaint:       "Chest pain",
		Date:            "2026-08-31",
		Time:            "10:00",
		Notes:           "Allergic to penicillin",
	}
}

func TestNewMailerResolvesProviderHost(t *testing.T) {
	m, err := NewMailer(EmailConfig{From: "clinic@gmail.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.gmail.com", m.cfg.Host)
	assert.Equal(t, "587", m.cfg.Port)

	m, err = NewMailer(EmailConfig{From: "clinic@hotmail.com"})
	require.NoError(t, err)
	assert.Equal(t, "smtp-mail.outlook.com", m.cfg.Host)
}

func TestNewMailerRejectsUnknownProvider(t *testing.T) {
	_, err := NewMailer(EmailConfig{From: "clinic@example.org"})
	require.Error(t, err)

	// Explicit host makes any domain acceptable.
	_, err = NewMailer(EmailConfig{From: "clinic@example.org", Host: "mail.example.org"})
	require.NoError(t, err)
}

func TestNewMailerRejectsBadFrom(t *testing.T) {
	_, err := NewMailer(EmailConfig{From: "not-an-address"})
	require.Error(t, err)
}

func TestConfirmationBodies(t *testing.T) {
	appt := sampleAppointment()

	text := confirmationText(appt)
	assert.Contains(t, text, "APT-1A2B3C4D")
	assert.Contains(t, text, "Dr. Mark Johnson (Cardiology)")
	assert.Contains(t, text, "2026-08-31")
	assert.Contains(t, text, "Allergic to penicillin")

	html := confirmationHTML(appt)
	assert.Contains(t, html, "APT-1A2B3C4D")
	assert.Contains(t, html, "<strong>confirmed</strong>")

	appt.Notes = ""
	assert.NotContains(t, confirmationText(appt), "Notes:")
}

func TestConfirmationHTMLEscapesPatientInput(t *testing.T) {
	appt := sampleAppointment()
	appt.PatientName = "<script>alert(1)</script>"
	out := confirmationHTML(appt)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestBuildMessageMultipart(t *testing.T) {
	msg := string(buildMessage("Clinic", "clinic@gmail.com", "jane@example.com", "Hi", "plain", "<p>html</p>"))

	assert.True(t, strings.HasPrefix(msg, "From: Clinic <clinic@gmail.com>\r\n"))
	assert.Contains(t, msg, "To: jane@example.com\r\n")
	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "text/plain")
	assert.Contains(t, msg, "text/html")
	assert.Contains(t, msg, "--"+mimeBoundary+"--")
}

func TestBuildMessagePlainOnly(t *testing.T) {
	msg := string(buildMessage("Clinic", "clinic@gmail.com", "jane@example.com", "Hi", "line1\nline2", ""))
	assert.NotContains(t, msg, "multipart")
	assert.Contains(t, msg, "line1\r\nline2")
}

func TestReminderText(t *testing.T) {
	out := reminderText(sampleAppointment())
	assert.Contains(t, out, "reminder")
	assert.Contains(t, out, "APT-1A2B3C4D")
	assert.Contains(t, out, "10:00")
}
