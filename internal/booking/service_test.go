package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediline/apptbot/internal/conversation"
	"github.com/mediline/apptbot/internal/directory"
)

type fakeRecorder struct {
	appts []Appointment
	err   error
}

func (f *fakeRecorder) Append(_ context.Context, appt Appointment) error {
	if f.err != nil {
		return f.err
	}
	f.appts = append(f.appts, appt)
	return nil
}

type fakeNotifier struct {
	done chan Appointment
	err  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan Appointment, 1)}
}

func (f *fakeNotifier) SendConfirmation(_ context.Context, appt Appointment) error {
	f.done <- appt
	return f.err
}

func (f *fakeNotifier) Schedule(_ context.Context, appt Appointment) error {
	f.done <- appt
	return f.err
}

func fixedClock() time.Time {
	return time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)
}

func doneSession() *conversation.Session {
	return &conversation.Session{
		Step:          conversation.StepConfirmBooking,
		Lang:          "en",
		DoctorCode:    "2",
		PatientName:   "Jane Doe",
		AgeGroup:      "26-35",
		Gender:        "Female",
		Phone:         "+1-555-0100",
		Email:         "jane@example.com",
		Complaint:     "Chest pain",
		PreferredDate: "2026-08-31",
		PreferredTime: "10:00",
		NotesSet:      true,
	}
}

func TestAppointmentIDFormat(t *testing.T) {
	re := regexp.MustCompile(`^APT-[0-9A-F]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewAppointmentID()
		assert.Regexp(t, re, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestAssemble(t *testing.T) {
	appt, err := Assemble(doneSession(), conversation.User{ID: 42, Username: "jane"}, directory.DefaultRoster(), fixedClock())
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, appt.Status)
	assert.Equal(t, "Dr. Mark Johnson", appt.DoctorName)
	assert.Equal(t, "Cardiology", appt.DoctorSpecialty)
	assert.Equal(t, "$80", appt.Fee)
	assert.Equal(t, "2026-08-31", appt.Date)
	assert.Equal(t, "10:00", appt.Time)
	assert.Equal(t, int64(42), appt.TelegramUserID)
	assert.Equal(t, fixedClock(), appt.CreatedAt)

	start, err := appt.StartsAt(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC), start)
}

func TestAssembleMissingField(t *testing.T) {
	sess := doneSession()
	sess.Email = ""
	_, err := Assemble(sess, conversation.User{}, directory.DefaultRoster(), fixedClock())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestAssembleUnknownDoctor(t *testing.T) {
	sess := doneSession()
	sess.DoctorCode = "99"
	_, err := Assemble(sess, conversation.User{}, directory.DefaultRoster(), fixedClock())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "99")
}

func TestBookStoresAndNotifies(t *testing.T) {
	rec := &fakeRecorder{}
	mail := newFakeNotifier()
	cal := newFakeNotifier()
	svc := NewService(directory.DefaultRoster(), rec, mail, cal, fixedClock)

	receipt, err := svc.Book(context.Background(), doneSession(), conversation.User{ID: 42})
	require.NoError(t, err)

	assert.Equal(t, "Dr. Mark Johnson", receipt.DoctorName)
	assert.Equal(t, "$80", receipt.Fee)
	assert.Empty(t, receipt.Warnings)
	require.Len(t, rec.appts, 1)
	assert.Equal(t, receipt.AppointmentID, rec.appts[0].ID)

	select {
	case appt := <-mail.done:
		assert.Equal(t, receipt.AppointmentID, appt.ID)
	case <-time.After(time.Second):
		t.Fatal("confirmation email never dispatched")
	}
	select {
	case appt := <-cal.done:
		assert.Equal(t, receipt.AppointmentID, appt.ID)
	case <-time.After(time.Second):
		t.Fatal("calendar event never dispatched")
	}
}

func TestBookStorageFailureDegradesToWarning(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("connection refused")}
	svc := NewService(directory.DefaultRoster(), rec, nil, nil, fixedClock)

	receipt, err := svc.Book(context.Background(), doneSession(), conversation.User{ID: 42})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.AppointmentID)
	require.Len(t, receipt.Warnings, 1)
	assert.Contains(t, receipt.Warnings[0], "appointment ID")
}

func TestBookIncompleteSessionFails(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewService(directory.DefaultRoster(), rec, nil, nil, fixedClock)

	sess := doneSession()
	sess.PatientName = ""
	_, err := svc.Book(context.Background(), sess, conversation.User{ID: 42})
	require.Error(t, err)
	assert.Empty(t, rec.appts)
}
