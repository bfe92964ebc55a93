package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mediline/apptbot/core/logger"
	"github.com/mediline/apptbot/internal/directory"
	"github.com/mediline/apptbot/internal/i18n"
)

// User is the channel identity of the person talking to the bot, snapshotted
// per turn from the transport.
type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
	IsBot        bool
	IsPremium    bool
}

// Receipt is what the booking service reports back after a confirmed
// booking. Warnings carry degraded side-effect statuses (storage, email,
// calendar) that are shown alongside, never instead of, the confirmation.
type Receipt struct {
	AppointmentID string
	DoctorName    string
	Fee           string
	Warnings      []string
}

// Booker finalizes a completed session into an appointment. Errors indicate
// an internal invariant failure (incomplete session reached confirmation),
// not a user-recoverable condition.
type Booker interface {
	Book(ctx context.Context, sess *Session, user User) (Receipt, error)
}

// Reply is one outbound turn: message text plus an ordered reply keyboard.
type Reply struct {
	Text     string
	Keyboard [][]string
	Markdown bool
}

// Engine drives the booking conversation. It is stateless itself; all
// per-user state lives in the session Store.
type Engine struct {
	store   Store
	doctors directory.Source
	booker  Booker
	texts   *i18n.Catalog
	now     func() time.Time
}

// NewEngine wires the conversation state machine. A nil clock defaults to
// time.Now.
func NewEngine(store Store, doctors directory.Source, booker Booker, texts *i18n.Catalog, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{store: store, doctors: doctors, booker: booker, texts: texts, now: clock}
}

// InProgress reports whether the user has an active booking flow, i.e. a
// session parked anywhere past the main menu.
func (e *Engine) InProgress(ctx context.Context, userID int64) bool {
	sess, err := e.store.Get(ctx, userID)
	if err != nil || sess == nil {
		return false
	}
	return sess.Step != StepMainMenu
}

// Reset drops the user's session unconditionally and returns the welcome
// reply. Used by the /start command and by cancellation.
func (e *Engine) Reset(ctx context.Context, user User) (Reply, error) {
	if err := e.store.Clear(ctx, user.ID); err != nil {
		return Reply{}, fmt.Errorf("conversation: reset: %w", err)
	}
	sess := newSession()
	sess.Lang = e.texts.Resolve(user.LanguageCode)
	if err := e.store.Put(ctx, user.ID, sess); err != nil {
		return Reply{}, fmt.Errorf("conversation: reset: %w", err)
	}
	return e.welcome(sess, user), nil
}

// StartBooking jumps straight into doctor selection, preserving nothing from
// a previous attempt. Used by the /book command.
func (e *Engine) StartBooking(ctx context.Context, user User) (Reply, error) {
	sess := newSession()
	sess.Lang = e.texts.Resolve(user.LanguageCode)
	sess.Step = StepDoctorSelection
	if err := e.store.Put(ctx, user.ID, sess); err != nil {
		return Reply{}, fmt.Errorf("conversation: start booking: %w", err)
	}
	return e.promptDoctorSelection(sess), nil
}

// Doctors renders the full roster overview. The conversation stays wherever
// it is; this is a read-only view.
func (e *Engine) Doctors(lang string) Reply {
	return e.doctorOverview(e.texts.Resolve(lang))
}

// Help renders the usage instructions.
func (e *Engine) Help(lang string) Reply {
	return e.staticText(e.texts.Resolve(lang), "help_text")
}

// Contact renders the clinic contact card.
func (e *Engine) Contact(lang string) Reply {
	return e.staticText(e.texts.Resolve(lang), "contact_text")
}

// Handle processes one inbound text turn for the user and returns the next
// prompt. The session is loaded, transitioned, and stored before returning.
func (e *Engine) Handle(ctx context.Context, user User, text string) (Reply, error) {
	sess, err := e.store.Get(ctx, user.ID)
	if err != nil {
		return Reply{}, fmt.Errorf("conversation: load session: %w", err)
	}
	if sess == nil {
		sess = newSession()
		sess.Lang = e.texts.Resolve(user.LanguageCode)
	}

	from := sess.Step
	reply, terr := e.transition(ctx, sess, user, text)

	// Persist even on a transition error: the failure paths reset the
	// session and that reset must survive the turn.
	if err := e.store.Put(ctx, user.ID, sess); err != nil {
		return Reply{}, fmt.Errorf("conversation: save session: %w", err)
	}
	if terr != nil {
		return reply, terr
	}

	logger.Debug(ctx, "conversation", "step.transition",
		slog.Int64("user_id", user.ID),
		slog.String("from", string(from)),
		slog.String("step", string(sess.Step)),
	)
	return reply, nil
}

func (e *Engine) transition(ctx context.Context, sess *Session, user User, text string) (Reply, error) {
	switch sess.Step {
	case StepMainMenu:
		return e.handleMainMenu(sess, user, text), nil
	case StepDoctorSelection:
		return e.handleDoctorSelection(sess, user, text), nil
	case StepPatientName:
		return e.handlePatientName(sess, text), nil
	case StepPatientAge:
		return e.handlePatientAge(sess, text), nil
	case StepPatientGender:
		return e.handlePatientGender(sess, text), nil
	case StepPatientPhone:
		return e.handlePatientPhone(sess, text), nil
	case StepPatientEmail:
		return e.handlePatientEmail(sess, text), nil
	case StepChiefComplaint:
		return e.handleChiefComplaint(sess, text), nil
	case StepPreferredDate:
		return e.handlePreferredDate(sess, text), nil
	case StepPreferredTime:
		return e.handlePreferredTime(sess, text), nil
	case StepAdditionalNotes:
		return e.handleAdditionalNotes(sess, text), nil
	case StepConfirmBooking:
		return e.handleConfirmBooking(ctx, sess, user, text)
	}
	// Unknown step in a stored session; recover at the main menu.
	sess.Step = StepMainMenu
	return e.welcome(sess, user), nil
}

func (e *Engine) handleMainMenu(sess *Session, user User, text string) Reply {
	switch decodeMenu(text) {
	case menuBook:
		sess.Step = StepDoctorSelection
		return e.promptDoctorSelection(sess)
	case menuDoctors:
		return e.doctorOverview(sess.Lang)
	case menuHelp:
		return e.staticText(sess.Lang, "help_text")
	case menuContact:
		return e.staticText(sess.Lang, "contact_text")
	case menuHome:
		return e.welcome(sess, user)
	}
	return Reply{
		Text:     e.texts.Text("menu_hint", sess.Lang),
		Keyboard: mainMenuKeyboard(),
	}
}

func (e *Engine) handleDoctorSelection(sess *Session, user User, text string) Reply {
	if isBack(text) {
		sess.Step = StepMainMenu
		return e.welcome(sess, user)
	}
	doc, ok := e.doctors.Lookup(doctorCodeFrom(text))
	if !ok {
		r := e.promptDoctorSelection(sess)
		r.Text = e.texts.Text("invalid_doctor", sess.Lang)
		return r
	}
	sess.DoctorCode = doc.Code
	sess.Step = StepPatientName
	return e.promptPatientName(sess, doc)
}

func (e *Engine) handlePatientName(sess *Session, text string) Reply {
	if isBack(text) {
		sess.Step = StepDoctorSelection
		return e.promptDoctorSelection(sess)
	}
	sess.PatientName = text
	sess.Step = StepPatientAge
	return e.promptPatientAge(sess, true)
}

func (e *Engine) handlePatientAge(sess *Session, text string) Reply {
	if isBack(text) {
		sess.Step = StepPatientName
		return e.promptText(sess.Lang, "enter_name")
	}
	sess.AgeGroup = text
	sess.Step = StepPatientGender
	return e.promptPatientGender(sess, true)
}

func (e *Engine) handlePatientGender(sess *Session, text string) Reply {
	if isBack(text) {
		sess.Step = StepPatientAge
		return e.promptPatientAge(sess, false)
	}
	sess.Gender = normalizeGender(text)
	sess.Step = StepPatientPhone
	return e.promptRecorded(sess.Lang, "recorded_gender", sess.Gender, "enter_phone")
}

func (e *Engine) handlePatientPhone(sess *Session, text string) Reply {
	if isBack(text) {
		sess.Step = StepPatientGender
		return e.promptPatientGender(sess, false)
	}
	sess.Phone = text
	sess.Step = StepPatientEmail
	return e.promptRecorded(sess.Lang, "recorded_phone", sess.Phone, "enter_email")
}

func (e *Engine) handlePatientEmail(sess *Session, text string) Reply {
	if isBack(text) {
		sess.Step = StepPatientPhone
		return e.promptText(sess.Lang, "enter_phone")
	}
	sess.Email = text
	sess.Step = StepChiefComplaint
	return e.promptRecorded(sess.Lang, "recorded_email", sess.Email, "chief_complaint")
}

func (e *Engine) handleChiefComplaint(sess *Session, text string) Reply {
	if isBack(text) {
		sess.Step = StepPatientEmail
		return e.promptText(sess.Lang, "enter_email")
	}
	sess.Complaint = text
	sess.Step = StepPreferredDate
	return e.promptPreferredDate(sess, true)
}

func (e *Engine) handlePreferredDate(sess *Session, text string) Reply {
	if isBack(text) {
		sess.Step = StepChiefComplaint
		return e.promptText(sess.Lang, "chief_complaint")
	}
	sess.PreferredDate = dateTokenFrom(text)
	sess.Step = StepPreferredTime
	return e.promptPreferredTime(sess, true)
}

func (e *Engine) handlePreferredTime(sess *Session, text string) Reply {
	if isBack(text) {
		sess.Step = StepPreferredDate
		return e.promptPreferredDate(sess, false)
	}
	slot := timeSlotFrom(text)
	doc, ok := e.doctors.Lookup(sess.DoctorCode)
	if !ok || !doc.HasTimeSlot(slot) {
		r := e.promptPreferredTime(sess, false)
		r.Text = e.texts.Text("invalid_time", sess.Lang)
		return r
	}
	sess.PreferredTime = slot
	sess.Step = StepAdditionalNotes
	return e.promptAdditionalNotes(sess, doc)
}

func (e *Engine) handleAdditionalNotes(sess *Session, text string) Reply {
	if isBack(text) {
		sess.Step = StepPreferredTime
		return e.promptPreferredTime(sess, false)
	}
	sess.Notes = notesFrom(text)
	sess.NotesSet = true
	sess.Step = StepConfirmBooking
	return e.promptConfirm(sess)
}

func (e *Engine) handleConfirmBooking(ctx context.Context, sess *Session, user User, text string) (Reply, error) {
	switch decodeConfirm(text) {
	case confirmBack:
		sess.Step = StepAdditionalNotes
		return e.promptNotesOnly(sess.Lang), nil
	case confirmCancel:
		*sess = *newSession()
		sess.Lang = e.texts.Resolve(user.LanguageCode)
		return Reply{
			Text:     e.texts.Text("booking_cancelled", sess.Lang),
			Keyboard: mainMenuKeyboard(),
			Markdown: true,
		}, nil
	case confirmYes:
		receipt, err := e.booker.Book(ctx, sess, user)
		if err != nil {
			// State-machine defect: confirmation reached with an
			// incomplete session. Not user-recoverable.
			logger.Error(ctx, "conversation", "booking.invariant",
				slog.Int64("user_id", user.ID),
				slog.String("err", err.Error()),
			)
			*sess = *newSession()
			sess.Lang = e.texts.Resolve(user.LanguageCode)
			return Reply{
				Text:     e.texts.Text("menu_hint", sess.Lang),
				Keyboard: mainMenuKeyboard(),
			}, err
		}
		success := e.successReply(sess, receipt)
		*sess = *newSession()
		sess.Lang = e.texts.Resolve(user.LanguageCode)
		return success, nil
	}
	r := e.promptConfirm(sess)
	r.Text = e.texts.Text("invalid_option", sess.Lang)
	r.Markdown = false
	return r, nil
}
