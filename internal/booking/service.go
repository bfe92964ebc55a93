package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/mediline/apptbot/core/logger"
	"github.com/mediline/apptbot/internal/conversation"
	"github.com/mediline/apptbot/internal/directory"
)

const logComponent = "service.booking"

// Recorder persists appointment records.
type Recorder interface {
	Append(ctx context.Context, appt Appointment) error
}

// Mailer delivers the patient-facing confirmation email.
type Mailer interface {
	SendConfirmation(ctx context.Context, appt Appointment) error
}

// Scheduler places the appointment on the clinic calendar.
type Scheduler interface {
	Schedule(ctx context.Context, appt Appointment) error
}

// Service turns completed sessions into stored, notified appointments. It
// implements conversation.Booker. Storage runs in the caller's turn; email
// and calendar are dispatched in the background so a slow or failing
// provider never blocks the confirmation message.
type Service struct {
	doctors  directory.Source
	recorder Recorder
	mailer   Mailer
	calendar Scheduler
	now      func() time.Time

	// SideEffectTimeout bounds each background dispatch.
	SideEffectTimeout time.Duration
}

// NewService wires the booking pipeline. mailer and calendar may be nil when
// the corresponding integration is disabled. A nil clock defaults to
// time.Now.
func NewService(doctors directory.Source, recorder Recorder, mailer Mailer, calendar Scheduler, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		doctors:           doctors,
		recorder:          recorder,
		mailer:            mailer,
		calendar:          calendar,
		now:               clock,
		SideEffectTimeout: 30 * time.Second,
	}
}

// Book assembles and persists the appointment, then kicks off notifications.
// A storage failure degrades to a warning on the receipt; the appointment ID
// is always returned so the patient has a reference.
func (s *Service) Book(ctx context.Context, sess *conversation.Session, user conversation.User) (conversation.Receipt, error) {
	appt, err := Assemble(sess, user, s.doctors, s.now())
	if err != nil {
		return conversation.Receipt{}, err
	}

	receipt := conversation.Receipt{
		AppointmentID: appt.ID,
		DoctorName:    appt.DoctorName,
		Fee:           appt.Fee,
	}

	if err := s.recorder.Append(ctx, appt); err != nil {
		logger.Warn(ctx, logComponent, "appointment.store_failed",
			slog.String("appointment_id", appt.ID),
			slog.String("err", err.Error()),
		)
		receipt.Warnings = append(receipt.Warnings,
			"We could not save your booking to our records; please keep your appointment ID and mention it when you arrive.")
	}

	if s.mailer != nil {
		s.dispatch(ctx, "confirmation.email", appt, s.mailer.SendConfirmation)
	}
	if s.calendar != nil {
		s.dispatch(ctx, "calendar.event", appt, s.calendar.Schedule)
	}

	logger.Info(ctx, logComponent, "appointment.booked",
		slog.String("appointment_id", appt.ID),
		slog.String("doctor_code", appt.DoctorCode),
		slog.String("appt_date", appt.Date),
		slog.String("appt_time", appt.Time),
		slog.Int64("user_id", appt.TelegramUserID),
	)
	return receipt, nil
}

// dispatch runs one side effect on its own context so it survives the end of
// the Telegram turn. Failures are logged, never surfaced to the patient.
func (s *Service) dispatch(parent context.Context, event string, appt Appointment, fn func(context.Context, Appointment) error) {
	ctx := logger.DetachContext(parent)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, s.SideEffectTimeout)
		defer cancel()
		if err := fn(ctx, appt); err != nil {
			logger.Warn(ctx, logComponent, event+".failed",
				slog.String("appointment_id", appt.ID),
				slog.String("err", err.Error()),
			)
			return
		}
		logger.Debug(ctx, logComponent, event+".sent",
			slog.String("appointment_id", appt.ID),
		)
	}()
}
