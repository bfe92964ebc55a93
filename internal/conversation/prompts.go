package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/mediline/apptbot/core/telegram/format"
	"github.com/mediline/apptbot/internal/directory"
)

// esc escapes user-supplied text before it is interpolated into a Markdown
// message body.
func esc(s string) string {
	out, err := format.EscapeMarkdown(s, format.MarkdownV1, "")
	if err != nil {
		return s
	}
	return out
}

func mainMenuKeyboard() [][]string {
	return [][]string{
		{btnBookAppointment, btnViewDoctors},
		{btnHelp, btnContact},
	}
}

func (e *Engine) welcome(sess *Session, user User) Reply {
	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	return Reply{
		Text:     e.texts.Text("welcome_message", sess.Lang, esc(name)),
		Keyboard: mainMenuKeyboard(),
		Markdown: true,
	}
}

func (e *Engine) staticText(lang, key string) Reply {
	return Reply{
		Text:     e.texts.Text(key, lang),
		Keyboard: mainMenuKeyboard(),
		Markdown: true,
	}
}

func (e *Engine) doctorOverview(lang string) Reply {
	var b strings.Builder
	b.WriteString("👨‍⚕️ *Our Medical Team*\n\n")
	for _, doc := range e.doctors.List() {
		fmt.Fprintf(&b, "*%s*\n", doc.Name)
		fmt.Fprintf(&b, "🏥 Specialization: %s\n", doc.Specialty)
		fmt.Fprintf(&b, "💰 Consultation Fee: %s\n", doc.Fee)
		fmt.Fprintf(&b, "📅 Available Days: %s\n", joinWeekdays(doc.AvailableDays))
		fmt.Fprintf(&b, "🕐 Available Times: %s\n\n", strings.Join(doc.TimeSlots, ", "))
	}
	return Reply{
		Text: b.String(),
		Keyboard: [][]string{
			{btnBookAppointment},
			{btnBackToMainMenu},
		},
		Markdown: true,
	}
}

func (e *Engine) promptDoctorSelection(sess *Session) Reply {
	var b strings.Builder
	b.WriteString(e.texts.Text("select_doctor", sess.Lang))
	b.WriteString("\n\n")

	var rows [][]string
	for _, doc := range e.doctors.List() {
		fmt.Fprintf(&b, "*%s.* %s\n", doc.Code, doc.Name)
		fmt.Fprintf(&b, "   📋 %s\n", doc.Specialty)
		fmt.Fprintf(&b, "   💰 Fees: %s\n", doc.Fee)
		fmt.Fprintf(&b, "   📅 Available: %s\n\n", summarizeWeekdays(doc.AvailableDays, 3))
		rows = append(rows, []string{fmt.Sprintf("%s. %s - %s", doc.Code, doc.Name, doc.Specialty)})
	}
	rows = append(rows, []string{btnBackToMainMenu})

	return Reply{Text: b.String(), Keyboard: rows, Markdown: true}
}

func (e *Engine) promptPatientName(sess *Session, doc directory.Doctor) Reply {
	text := e.texts.Text("doctor_chosen", sess.Lang, doc.Name, doc.Specialty, doc.Fee) +
		"\n\n" + e.texts.Text("enter_name", sess.Lang)
	return Reply{
		Text:     text,
		Keyboard: [][]string{{btnBackToDoctors}},
		Markdown: true,
	}
}

func (e *Engine) promptPatientAge(sess *Session, ack bool) Reply {
	text := e.texts.Text("select_age", sess.Lang)
	if ack {
		text = e.texts.Text("recorded_name", sess.Lang, esc(sess.PatientName)) + "\n\n" + text
	}
	return Reply{
		Text: text,
		Keyboard: [][]string{
			append([]string(nil), ageGroups...),
			{btnBack},
		},
		Markdown: true,
	}
}

func (e *Engine) promptPatientGender(sess *Session, ack bool) Reply {
	text := e.texts.Text("select_gender", sess.Lang)
	if ack {
		text = e.texts.Text("recorded_age", sess.Lang, esc(sess.AgeGroup)) + "\n\n" + text
	}
	return Reply{
		Text: text,
		Keyboard: [][]string{
			append([]string(nil), genderOptions...),
			{btnBack},
		},
		Markdown: true,
	}
}

func (e *Engine) promptRecorded(lang, ackKey, value, promptKey string) Reply {
	return Reply{
		Text:     e.texts.Text(ackKey, lang, esc(value)) + "\n\n" + e.texts.Text(promptKey, lang),
		Keyboard: [][]string{{btnBack}},
		Markdown: true,
	}
}

func (e *Engine) promptText(lang, key string) Reply {
	return Reply{
		Text:     e.texts.Text(key, lang),
		Keyboard: [][]string{{btnBack}},
		Markdown: true,
	}
}

func (e *Engine) promptPreferredDate(sess *Session, ack bool) Reply {
	doc, _ := e.doctors.Lookup(sess.DoctorCode)
	options := directory.UpcomingDates(doc, e.now())

	var rows [][]string
	for _, opt := range options {
		rows = append(rows, []string{opt.Label()})
	}
	rows = append(rows, []string{btnBack})

	var text string
	if len(options) == 0 {
		text = e.texts.Text("no_dates", sess.Lang, doc.Name)
	} else {
		text = e.texts.Text("select_date_for", sess.Lang, doc.Name)
	}
	if ack {
		text = e.texts.Text("recorded_complaint", sess.Lang, esc(sess.Complaint)) + "\n\n" + text
	}
	return Reply{Text: text, Keyboard: rows, Markdown: true}
}

func (e *Engine) promptPreferredTime(sess *Session, ack bool) Reply {
	doc, _ := e.doctors.Lookup(sess.DoctorCode)

	var rows [][]string
	for _, slot := range doc.TimeSlots {
		rows = append(rows, []string{timeSlotPrefix + slot})
	}
	rows = append(rows, []string{btnBack})

	text := e.texts.Text("select_time", sess.Lang)
	if ack {
		text = e.texts.Text("recorded_date", sess.Lang, sess.PreferredDate) + "\n\n" + text
	}
	return Reply{Text: text, Keyboard: rows, Markdown: true}
}

func (e *Engine) promptAdditionalNotes(sess *Session, doc directory.Doctor) Reply {
	var b strings.Builder
	b.WriteString("📋 *Appointment Summary*\n\n")
	fmt.Fprintf(&b, "👨‍⚕️ *Doctor:* %s\n", doc.Name)
	fmt.Fprintf(&b, "🏥 *Specialization:* %s\n", doc.Specialty)
	fmt.Fprintf(&b, "💰 *Consultation Fee:* %s\n\n", doc.Fee)
	b.WriteString("👤 *Patient Details:*\n")
	fmt.Fprintf(&b, "• Name: %s\n", esc(sess.PatientName))
	fmt.Fprintf(&b, "• Age: %s\n", esc(sess.AgeGroup))
	fmt.Fprintf(&b, "• Gender: %s\n", esc(sess.Gender))
	fmt.Fprintf(&b, "• Phone: %s\n", esc(sess.Phone))
	fmt.Fprintf(&b, "• Email: %s\n\n", esc(sess.Email))
	b.WriteString("🏥 *Appointment Details:*\n")
	fmt.Fprintf(&b, "• Chief Complaint: %s\n", esc(sess.Complaint))
	fmt.Fprintf(&b, "• Date: %s\n", sess.PreferredDate)
	fmt.Fprintf(&b, "• Time: %s\n\n", sess.PreferredTime)
	b.WriteString(e.texts.Text("additional_notes", sess.Lang))

	return Reply{
		Text:     b.String(),
		Keyboard: notesKeyboard(),
		Markdown: true,
	}
}

func (e *Engine) promptNotesOnly(lang string) Reply {
	return Reply{
		Text:     e.texts.Text("additional_notes", lang),
		Keyboard: notesKeyboard(),
		Markdown: true,
	}
}

func notesKeyboard() [][]string {
	return [][]string{{btnNone}, {btnBack}}
}

func (e *Engine) promptConfirm(sess *Session) Reply {
	doc, _ := e.doctors.Lookup(sess.DoctorCode)

	var b strings.Builder
	b.WriteString("✅ *Final Appointment Confirmation*\n\n")
	fmt.Fprintf(&b, "👨‍⚕️ *Doctor:* %s (%s)\n", doc.Name, doc.Specialty)
	fmt.Fprintf(&b, "👤 *Patient:* %s\n", esc(sess.PatientName))
	fmt.Fprintf(&b, "📅 *Date & Time:* %s at %s\n", sess.PreferredDate, sess.PreferredTime)
	fmt.Fprintf(&b, "💰 *Fee:* %s\n", doc.Fee)
	fmt.Fprintf(&b, "🏥 *Reason:* %s\n", esc(sess.Complaint))
	if sess.Notes != "" {
		fmt.Fprintf(&b, "📝 *Notes:* %s\n", esc(sess.Notes))
	}
	b.WriteString("\n")
	b.WriteString(e.texts.Text("confirm_prompt", sess.Lang))

	return Reply{
		Text: b.String(),
		Keyboard: [][]string{
			{btnConfirm},
			{btnBack, btnCancel},
		},
		Markdown: true,
	}
}

func (e *Engine) successReply(sess *Session, receipt Receipt) Reply {
	var b strings.Builder
	b.WriteString(e.texts.Text("appointment_confirmed", sess.Lang))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "📋 *Appointment ID:* `%s`\n\n", receipt.AppointmentID)
	fmt.Fprintf(&b, "👨‍⚕️ *Doctor:* %s\n", receipt.DoctorName)
	fmt.Fprintf(&b, "👤 *Patient:* %s\n", esc(sess.PatientName))
	fmt.Fprintf(&b, "📅 *Date & Time:* %s at %s\n\n", sess.PreferredDate, sess.PreferredTime)
	b.WriteString("📧 *Next Steps:*\n")
	b.WriteString("1. You will receive a confirmation email shortly\n")
	b.WriteString("2. Please arrive 15 minutes before your appointment\n")
	b.WriteString("3. Bring a valid ID and insurance card\n")
	b.WriteString("4. Save this appointment ID for your records\n\n")
	fmt.Fprintf(&b, "💰 *Payment:* %s (payable at the clinic)\n", receipt.Fee)
	for _, w := range receipt.Warnings {
		fmt.Fprintf(&b, "\n⚠️ %s", w)
	}
	b.WriteString("\n\nThank you for choosing our clinic! 🏥")

	return Reply{
		Text: b.String(),
		Keyboard: [][]string{
			{btnBookAnother},
			{btnMainMenu},
		},
		Markdown: true,
	}
}

func joinWeekdays(days []time.Weekday) string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

// summarizeWeekdays shortens long availability lists for compact keyboards,
// e.g. "Mon, Tue, Wed…".
func summarizeWeekdays(days []time.Weekday, max int) string {
	if len(days) <= max {
		return joinWeekdays(days)
	}
	names := make([]string, max)
	for i := 0; i < max; i++ {
		names[i] = days[i].String()[:3]
	}
	return strings.Join(names, ", ") + "…"
}
