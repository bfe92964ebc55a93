// Package booking assembles confirmed conversations into appointment records
// and fans them out to storage, email, and calendar.
package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mediline/apptbot/internal/conversation"
	"github.com/mediline/apptbot/internal/directory"
)

// StatusConfirmed is the status every assembled appointment starts in.
// Edits and cancellations happen outside this system, so no other status
// is ever written here.
const StatusConfirmed = "confirmed"

// Appointment is the flat, immutable record produced from a completed
// booking conversation. Field values are stored exactly as collected.
type Appointment struct {
	ID        string    `db:"appointment_id" json:"appointment_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	DoctorCode      string `db:"doctor_code" json:"doctor_code"`
	DoctorName      string `db:"doctor_name" json:"doctor_name"`
	DoctorSpecialty string `db:"doctor_specialty" json:"doctor_specialty"`
	Fee             string `db:"fee" json:"fee"`

	PatientName string `db:"patient_name" json:"patient_name"`
	AgeGroup    string `db:"age_group" json:"age_group"`
	Gender      string `db:"gender" json:"gender"`
	Phone       string `db:"phone" json:"phone"`
	Email       string `db:"email" json:"email"`
	Complaint   string `db:"complaint" json:"complaint"`

	Date  string `db:"appt_date" json:"appt_date"`
	Time  string `db:"appt_time" json:"appt_time"`
	Notes string `db:"notes" json:"notes"`

	TelegramUserID   int64  `db:"tg_user_id" json:"tg_user_id"`
	TelegramUsername string `db:"tg_username" json:"tg_username"`
}

// NewAppointmentID mints a short human-quotable identifier. Collisions are
// possible in principle; the storage layer enforces uniqueness.
func NewAppointmentID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "APT-" + strings.ToUpper(raw[:8])
}

// Assemble builds an Appointment from a completed session. It fails when any
// required field is missing or the chosen doctor is unknown; both indicate a
// conversation-flow defect rather than bad user input.
func Assemble(sess *conversation.Session, user conversation.User, doctors directory.Source, now time.Time) (Appointment, error) {
	if missing := sess.MissingField(); missing != "" {
		return Appointment{}, fmt.Errorf("assemble appointment: missing %s", missing)
	}
	doc, ok := doctors.Lookup(sess.DoctorCode)
	if !ok {
		return Appointment{}, fmt.Errorf("assemble appointment: unknown doctor code %q", sess.DoctorCode)
	}
	return Appointment{
		ID:               NewAppointmentID(),
		Status:           StatusConfirmed,
		CreatedAt:        now.UTC(),
		DoctorCode:       doc.Code,
		DoctorName:       doc.Name,
		DoctorSpecialty:  doc.Specialty,
		Fee:              doc.Fee,
		PatientName:      sess.PatientName,
		AgeGroup:         sess.AgeGroup,
		Gender:           sess.Gender,
		Phone:            sess.Phone,
		Email:            sess.Email,
		Complaint:        sess.Complaint,
		Date:             sess.PreferredDate,
		Time:             sess.PreferredTime,
		Notes:            sess.Notes,
		TelegramUserID:   user.ID,
		TelegramUsername: user.Username,
	}, nil
}

// StartsAt parses the appointment's date and slot in the given location.
func (a Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, loc)
}
