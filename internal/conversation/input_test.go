package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoctorCodeFrom(t *testing.T) {
	assert.Equal(t, "2", doctorCodeFrom("2. Dr. Mark Johnson - Cardiology"))
	assert.Equal(t, "17", doctorCodeFrom("17. Someone - Something"))
	assert.Equal(t, "free text", doctorCodeFrom("free text"))
}

func TestDateTokenFrom(t *testing.T) {
	assert.Equal(t, "2026-09-01", dateTokenFrom("2026-09-01 (Tuesday)"))
	assert.Equal(t, "2026-09-01", dateTokenFrom("  2026-09-01"))
	// Hand-typed dates in other common layouts are normalized.
	assert.Equal(t, "2026-09-01", dateTokenFrom("01.09.2026"))
	assert.Equal(t, "2026-09-01", dateTokenFrom("2026-9-1"))
	assert.Equal(t, "tomorrow", dateTokenFrom("tomorrow"))
}

func TestTimeSlotFrom(t *testing.T) {
	assert.Equal(t, "10:00", timeSlotFrom("🕐 10:00"))
	assert.Equal(t, "10:00", timeSlotFrom("10:00"))
}

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, "Female", normalizeGender("👩 Female"))
	assert.Equal(t, "Male", normalizeGender("👨 Male"))
	assert.Equal(t, "Other", normalizeGender("🏳️‍⚧️ Other"))
	assert.Equal(t, "nonbinary", normalizeGender("nonbinary"))
}

func TestNotesFrom(t *testing.T) {
	assert.Equal(t, "", notesFrom("None"))
	assert.Equal(t, "allergy info", notesFrom("allergy info"))
}
