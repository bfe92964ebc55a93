// Package conversation implements the appointment booking dialogue: a
// deterministic state machine that collects one field per step, supports
// back-navigation and cancellation, and hands the completed session to the
// booking service on confirmation. It is transport-free; the bot package
// adapts Telegram updates onto Handle.
package conversation

// Step identifies one state of the booking conversation.
type Step string

const (
	StepMainMenu        Step = "main_menu"
	StepDoctorSelection Step = "doctor_selection"
	StepPatientName     Step = "patient_name"
	StepPatientAge      Step = "patient_age"
	StepPatientGender   Step = "patient_gender"
	StepPatientPhone    Step = "patient_phone"
	StepPatientEmail    Step = "patient_email"
	StepChiefComplaint  Step = "chief_complaint"
	StepPreferredDate   Step = "preferred_date"
	StepPreferredTime   Step = "preferred_time"
	StepAdditionalNotes Step = "additional_notes"
	StepConfirmBooking  Step = "confirm_booking"
)
