package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/mediline/apptbot/internal/booking"
)

func confirmationText(a booking.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", a.PatientName)
	b.WriteString("Your appointment has been confirmed.\n\n")
	fmt.Fprintf(&b, "Appointment ID: %s\n", a.ID)
	fmt.Fprintf(&b, "Doctor: %s (%s)\n", a.DoctorName, a.DoctorSpecialty)
	fmt.Fprintf(&b, "Date: %s\n", a.Date)
	fmt.Fprintf(&b, "Time: %s\n", a.Time)
	fmt.Fprintf(&b, "Consultation Fee: %s (payable at the clinic)\n", a.Fee)
	fmt.Fprintf(&b, "Reason for Visit: %s\n", a.Complaint)
	if a.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", a.Notes)
	}
	b.WriteString("\nPlease arrive 15 minutes early and bring a valid ID.\n")
	b.WriteString("To reschedule or cancel, reply to this email with your appointment ID.\n\n")
	b.WriteString("Thank you for choosing our clinic.\n")
	return b.String()
}

func confirmationHTML(a booking.Appointment) string {
	esc := html.EscapeString
	var b strings.Builder
	b.WriteString("<html><body style=\"font-family:Arial,sans-serif\">")
	fmt.Fprintf(&b, "<p>Dear %s,</p>", esc(a.PatientName))
	b.WriteString("<p>Your appointment has been <strong>confirmed</strong>.</p>")
	b.WriteString("<table cellpadding=\"4\">")
	row := func(label, value string) {
		fmt.Fprintf(&b, "<tr><td><strong>%s</strong></td><td>%s</td></tr>", label, esc(value))
	}
	row("Appointment ID", a.ID)
	row("Doctor", fmt.Sprintf("%s (%s)", a.DoctorName, a.DoctorSpecialty))
	row("Date", a.Date)
	row("Time", a.Time)
	row("Consultation Fee", a.Fee+" (payable at the clinic)")
	row("Reason for Visit", a.Complaint)
	if a.Notes != "" {
		row("Notes", a.Notes)
	}
	b.WriteString("</table>")
	b.WriteString("<p>Please arrive 15 minutes early and bring a valid ID.</p>")
	b.WriteString("<p>Thank you for choosing our clinic.</p>")
	b.WriteString("</body></html>")
	return b.String()
}

func reminderText(a booking.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", a.PatientName)
	fmt.Fprintf(&b, "This is a reminder of your appointment %s with %s on %s at %s.\n\n",
		a.ID, a.DoctorName, a.Date, a.Time)
	b.WriteString("Please arrive 15 minutes early and bring a valid ID.\n")
	return b.String()
}
