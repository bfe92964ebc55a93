package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeSession() *Session {
	return &Session{
		Step:          StepConfirmBooking,
		Lang:          "en",
		DoctorCode:    "1",
		PatientName:   "Jane Doe",
		AgeGroup:      "26-35",
		Gender:        "Female",
		Phone:         "+1-555-0100",
		Email:         "jane@example.com",
		Complaint:     "Checkup",
		PreferredDate: "2026-08-31",
		PreferredTime: "09:00",
		NotesSet:      true,
	}
}

func TestMissingField(t *testing.T) {
	sess := completeSession()
	assert.Empty(t, sess.MissingField())

	sess.PatientName = ""
	assert.Equal(t, "patient name", sess.MissingField())

	sess = completeSession()
	sess.DoctorCode = ""
	assert.Equal(t, "doctor", sess.MissingField())

	// Notes may be empty as long as the step was answered.
	sess = completeSession()
	sess.Notes = ""
	assert.Empty(t, sess.MissingField())

	sess.NotesSet = false
	assert.Equal(t, "notes", sess.MissingField())
}

func TestMemoryStoreCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	orig := completeSession()
	require.NoError(t, store.Put(ctx, 7, orig))

	// Mutating the caller's copy must not leak into the store.
	orig.PatientName = "changed"
	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.PatientName)

	// Mutating a fetched copy must not leak either.
	got.Phone = "changed"
	again, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "+1-555-0100", again.Phone)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, 7, newSession()))
	require.NoError(t, store.Clear(ctx, 7))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}
