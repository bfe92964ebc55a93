package conversation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediline/apptbot/internal/directory"
	"github.com/mediline/apptbot/internal/i18n"
)

// fakeBooker records the session it was asked to book and returns a canned
// receipt.
type fakeBooker struct {
	booked  []Session
	receipt Receipt
	err     error
}

func (f *fakeBooker) Book(_ context.Context, sess *Session, _ User) (Receipt, error) {
	f.booked = append(f.booked, *sess)
	if f.err != nil {
		return Receipt{}, f.err
	}
	return f.receipt, nil
}

// Monday, so every roster doctor has upcoming dates.
var testClock = func() time.Time {
	return time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)
}

func newTestEngine(t *testing.T) (*Engine, *MemoryStore, *fakeBooker) {
	t.Helper()
	texts, err := i18n.Load("en")
	require.NoError(t, err)
	store := NewMemoryStore()
	booker := &fakeBooker{receipt: Receipt{
		AppointmentID: "APT-1A2B3C4D",
		DoctorName:    "Dr. Mark Johnson",
		Fee:           "$80",
	}}
	eng := NewEngine(store, directory.DefaultRoster(), booker, texts, testClock)
	return eng, store, booker
}

func testUser() User {
	return User{ID: 42, FirstName: "Jane", Username: "jane", LanguageCode: "en"}
}

func mustStep(t *testing.T, store *MemoryStore, userID int64, want Step) {
	t.Helper()
	sess, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, want, sess.Step)
}

func send(t *testing.T, eng *Engine, text string) Reply {
	t.Helper()
	reply, err := eng.Handle(context.Background(), testUser(), text)
	require.NoError(t, err)
	return reply
}

func TestFullBookingFlow(t *testing.T) {
	eng, store, booker := newTestEngine(t)
	ctx := context.Background()
	user := testUser()

	reply, err := eng.Reset(ctx, user)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Jane")
	assert.Equal(t, mainMenuKeyboard(), reply.Keyboard)

	reply = send(t, eng, "📅 Book Appointment")
	mustStep(t, store, user.ID, StepDoctorSelection)
	assert.Contains(t, reply.Text, "Dr. Mark Johnson")

	reply = send(t, eng, "2. Dr. Mark Johnson - Cardiology")
	mustStep(t, store, user.ID, StepPatientName)
	assert.Contains(t, reply.Text, "Cardiology")
	assert.Contains(t, reply.Text, "$80")

	send(t, eng, "Jane Doe")
	mustStep(t, store, user.ID, StepPatientAge)

	send(t, eng, "26-35")
	mustStep(t, store, user.ID, StepPatientGender)

	send(t, eng, "👩 Female")
	mustStep(t, store, user.ID, StepPatientPhone)

	send(t, eng, "+1-555-0100")
	mustStep(t, store, user.ID, StepPatientEmail)

	send(t, eng, "jane@example.com")
	mustStep(t, store, user.ID, StepChiefComplaint)

	reply = send(t, eng, "Chest pain")
	mustStep(t, store, user.ID, StepPreferredDate)
	// Monday clock, Mon-Fri doctor: today is offered first.
	require.NotEmpty(t, reply.Keyboard)
	assert.Equal(t, "2026-08-31 (Monday)", reply.Keyboard[0][0])

	send(t, eng, "2026-08-31 (Monday)")
	mustStep(t, store, user.ID, StepPreferredTime)

	reply = send(t, eng, "🕐 10:00")
	mustStep(t, store, user.ID, StepAdditionalNotes)
	assert.Contains(t, reply.Text, "Jane Doe")
	assert.Contains(t, reply.Text, "2026-08-31")
	assert.Contains(t, reply.Text, "10:00")

	reply = send(t, eng, "Allergic to penicillin")
	mustStep(t, store, user.ID, StepConfirmBooking)
	assert.Contains(t, reply.Text, "Allergic to penicillin")

	reply = send(t, eng, "✅ Confirm Appointment")
	require.Len(t, booker.booked, 1)
	got := booker.booked[0]
	assert.Equal(t, "2", got.DoctorCode)
	assert.Equal(t, "Jane Doe", got.PatientName)
	assert.Equal(t, "26-35", got.AgeGroup)
	assert.Equal(t, "Female", got.Gender)
	assert.Equal(t, "+1-555-0100", got.Phone)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "Chest pain", got.Complaint)
	assert.Equal(t, "2026-08-31", got.PreferredDate)
	assert.Equal(t, "10:00", got.PreferredTime)
	assert.Equal(t, "Allergic to penicillin", got.Notes)

	assert.Contains(t, reply.Text, "APT-1A2B3C4D")
	mustStep(t, store, user.ID, StepMainMenu)
}

func TestBackNavigationOverwritesFields(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	user := testUser()

	send(t, eng, "📅 Book Appointment")
	send(t, eng, "1. Dr. Sarah Smith - General Medicine")
	send(t, eng, "First Name")
	mustStep(t, store, user.ID, StepPatientAge)

	send(t, eng, "🔙 Back")
	mustStep(t, store, user.ID, StepPatientName)

	send(t, eng, "Second Name")
	mustStep(t, store, user.ID, StepPatientAge)

	sess, err := store.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second Name", sess.PatientName)
}

func TestBackFromDoctorSelection(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	user := testUser()

	send(t, eng, "📅 Book Appointment")
	reply := send(t, eng, "🔙 Back to Main Menu")
	mustStep(t, store, user.ID, StepMainMenu)
	assert.Equal(t, mainMenuKeyboard(), reply.Keyboard)
}

func TestInvalidDoctorReprompts(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	user := testUser()

	send(t, eng, "📅 Book Appointment")
	reply := send(t, eng, "99. Dr. Nobody - Nothing")
	mustStep(t, store, user.ID, StepDoctorSelection)
	assert.Contains(t, reply.Text, "choose a doctor")
	// Same option set is offered again.
	assert.Equal(t, "1. Dr. Sarah Smith - General Medicine", reply.Keyboard[0][0])
}

func TestInvalidTimeReprompts(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	user := testUser()

	send(t, eng, "📅 Book Appointment")
	send(t, eng, "3. Dr. Emily Davis - Dermatology")
	send(t, eng, "Pat")
	send(t, eng, "36-45")
	send(t, eng, "🏳️‍⚧️ Other")
	send(t, eng, "555-0101")
	send(t, eng, "pat@example.com")
	send(t, eng, "Rash")
	send(t, eng, "2026-09-01 (Tuesday)")
	mustStep(t, store, user.ID, StepPreferredTime)

	// 10:00 is not one of Dr. Davis's slots.
	reply := send(t, eng, "🕐 10:00")
	mustStep(t, store, user.ID, StepPreferredTime)
	assert.Contains(t, reply.Text, "offered time")
	assert.Equal(t, "🕐 09:00", reply.Keyboard[0][0])

	send(t, eng, "🕐 09:00")
	mustStep(t, store, user.ID, StepAdditionalNotes)
}

func TestCancelAtConfirmationClearsSession(t *testing.T) {
	eng, store, booker := newTestEngine(t)
	user := testUser()

	driveToConfirmation(t, eng)
	reply := send(t, eng, "❌ Cancel")

	assert.Empty(t, booker.booked)
	assert.Contains(t, reply.Text, "cancelled")
	sess, err := store.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, StepMainMenu, sess.Step)
	assert.Empty(t, sess.PatientName)
	assert.Empty(t, sess.DoctorCode)
}

func TestUnknownConfirmInputReprompts(t *testing.T) {
	eng, store, booker := newTestEngine(t)
	user := testUser()

	driveToConfirmation(t, eng)
	reply := send(t, eng, "maybe later")
	mustStep(t, store, user.ID, StepConfirmBooking)
	assert.Empty(t, booker.booked)
	assert.Equal(t, [][]string{{"✅ Confirm Appointment"}, {"🔙 Back", "❌ Cancel"}}, reply.Keyboard)
}

func TestNoneSkipsNotes(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	user := testUser()

	driveToNotes(t, eng)
	reply := send(t, eng, "None")
	mustStep(t, store, user.ID, StepConfirmBooking)
	assert.NotContains(t, reply.Text, "Notes:")

	sess, err := store.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, sess.Notes)
	assert.True(t, sess.NotesSet)
}

func TestBookingInvariantFailureResets(t *testing.T) {
	eng, store, booker := newTestEngine(t)
	booker.err = fmt.Errorf("assemble: missing field patient_name")
	user := testUser()

	driveToConfirmation(t, eng)
	_, err := eng.Handle(context.Background(), user, "✅ Confirm Appointment")
	require.Error(t, err)
	mustStep(t, store, user.ID, StepMainMenu)
}

func TestResetMidFlow(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	user := testUser()

	send(t, eng, "📅 Book Appointment")
	send(t, eng, "1. Dr. Sarah Smith - General Medicine")
	send(t, eng, "Jane Doe")

	_, err := eng.Reset(context.Background(), user)
	require.NoError(t, err)
	sess, err := store.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, StepMainMenu, sess.Step)
	assert.Empty(t, sess.PatientName)
}

func TestMainMenuHintOnFreeText(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	reply := send(t, eng, "hello there")
	assert.Equal(t, mainMenuKeyboard(), reply.Keyboard)
	assert.False(t, reply.Markdown)
}

func TestStartBookingJumpsToDoctors(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	user := testUser()

	reply, err := eng.StartBooking(context.Background(), user)
	require.NoError(t, err)
	mustStep(t, store, user.ID, StepDoctorSelection)
	assert.Contains(t, reply.Text, "Dr. Robert Wilson")
}

func TestDateTokenIgnoresWeekdaySuffix(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	user := testUser()

	send(t, eng, "📅 Book Appointment")
	send(t, eng, "4. Dr. Robert Wilson - Orthopedics")
	send(t, eng, "Sam")
	send(t, eng, "60+")
	send(t, eng, "👨 Male")
	send(t, eng, "555-0102")
	send(t, eng, "sam@example.com")
	send(t, eng, "Knee pain")
	// Tue/Thu/Fri doctor, Monday clock: first offering is Tuesday.
	send(t, eng, "2026-09-01 (Tuesday)")

	sess, err := store.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", sess.PreferredDate)
}

func driveToNotes(t *testing.T, eng *Engine) {
	t.Helper()
	send(t, eng, "📅 Book Appointment")
	send(t, eng, "2. Dr. Mark Johnson - Cardiology")
	send(t, eng, "Jane Doe")
	send(t, eng, "26-35")
	send(t, eng, "👩 Female")
	send(t, eng, "+1-555-0100")
	send(t, eng, "jane@example.com")
	send(t, eng, "Chest pain")
	send(t, eng, "2026-08-31 (Monday)")
	send(t, eng, "🕐 10:00")
}

func driveToConfirmation(t *testing.T, eng *Engine) {
	t.Helper()
	driveToNotes(t, eng)
	send(t, eng, "None")
}
