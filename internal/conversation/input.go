package conversation

import (
	"strings"

	"github.com/mediline/apptbot/core/telegram/helpers"
)

// Keyboard button labels. These are the one closed vocabulary the decoder
// understands; message bodies are localized but button labels stay canonical
// so transition logic never depends on the user's language.
const (
	btnBookAppointment = "📅 Book Appointment"
	btnViewDoctors     = "👨‍⚕️ View Doctors"
	btnHelp            = "❓ Help"
	btnContact         = "📞 Contact"
	btnBookAnother     = "📅 Book Another Appointment"
	btnMainMenu        = "🏠 Main Menu"

	btnBack           = "🔙 Back"
	btnBackToMainMenu = "🔙 Back to Main Menu"
	btnBackToDoctors  = "🔙 Back to Doctor Selection"
	btnConfirm        = "✅ Confirm Appointment"
	btnCancel         = "❌ Cancel"
	btnNone           = "None"

	timeSlotPrefix = "🕐 "
)

var ageGroups = []string{"18-25", "26-35", "36-45", "46-60", "60+"}

var genderOptions = []string{"👨 Male", "👩 Female", "🏳️‍⚧️ Other"}

var genderPrefixes = []string{"👨 ", "👩 ", "🏳️‍⚧️ "}

// menuChoice is the decoded form of a main-menu selection.
type menuChoice int

const (
	menuUnknown menuChoice = iota
	menuBook
	menuDoctors
	menuHelp
	menuContact
	menuHome
)

func decodeMenu(text string) menuChoice {
	switch text {
	case btnBookAppointment, btnBookAnother:
		return menuBook
	case btnViewDoctors:
		return menuDoctors
	case btnHelp:
		return menuHelp
	case btnContact:
		return menuContact
	case btnMainMenu:
		return menuHome
	}
	return menuUnknown
}

// confirmChoice is the decoded form of input at the confirmation step.
type confirmChoice int

const (
	confirmUnknown confirmChoice = iota
	confirmYes
	confirmBack
	confirmCancel
)

func decodeConfirm(text string) confirmChoice {
	switch text {
	case btnConfirm:
		return confirmYes
	case btnCancel:
		return confirmCancel
	}
	if isBack(text) {
		return confirmBack
	}
	return confirmUnknown
}

// isBack matches the universal back button in all its renderings.
func isBack(text string) bool {
	switch text {
	case btnBack, btnBackToMainMenu, btnBackToDoctors:
		return true
	}
	return false
}

// doctorCodeFrom extracts the roster code from a doctor button such as
// "2. Dr. Mark Johnson - Cardiology".
func doctorCodeFrom(text string) string {
	code, _, _ := strings.Cut(text, ".")
	return strings.TrimSpace(code)
}

// dateTokenFrom extracts the date from a dated button such as
// "2026-09-01 (Tuesday)": the portion before the first space. Dates typed by
// hand in another common format are normalized to storage form.
func dateTokenFrom(text string) string {
	token, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	if t, ok := helpers.ParseFlexibleDate(token); ok {
		return t.Format("2006-01-02")
	}
	return token
}

// timeSlotFrom strips the decorative clock marker from a time button.
func timeSlotFrom(text string) string {
	return strings.TrimPrefix(text, timeSlotPrefix)
}

// normalizeGender strips the decorative emoji prefix from a gender button.
func normalizeGender(text string) string {
	for _, p := range genderPrefixes {
		if strings.HasPrefix(text, p) {
			return strings.TrimPrefix(text, p)
		}
	}
	return text
}

// notesFrom maps the "None" sentinel to an empty notes string.
func notesFrom(text string) string {
	if text == btnNone {
		return ""
	}
	return text
}
