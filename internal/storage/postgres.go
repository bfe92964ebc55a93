// Package storage persists appointment records in Postgres and serves the
// aggregates behind the admin stats view.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mediline/apptbot/core/logger"
	"github.com/mediline/apptbot/internal/booking"
)

// Postgres stores appointments in the appointments table. It implements
// booking.Recorder.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

const insertAppointment = `
INSERT INTO appointments (
	appointment_id, status, created_at,
	doctor_code, doctor_name, doctor_specialty, fee,
	patient_name, age_group, gender, phone, email, complaint,
	appt_date, appt_time, notes,
	tg_user_id, tg_username
) VALUES (
	:appointment_id, :status, :created_at,
	:doctor_code, :doctor_name, :doctor_specialty, :fee,
	:patient_name, :age_group, :gender, :phone, :email, :complaint,
	:appt_date, :appt_time, :notes,
	:tg_user_id, :tg_username
)`

// Append inserts one appointment record.
func (p *Postgres) Append(ctx context.Context, appt booking.Appointment) error {
	start := time.Now()
	if _, err := p.db.NamedExecContext(ctx, insertAppointment, appt); err != nil {
		return fmt.Errorf("insert appointment %s: %w", appt.ID, err)
	}
	logger.DB.Debug("appointment inserted",
		slog.String("event", "db.insert"),
		slog.String("appointment_id", appt.ID),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}

// OnDate returns the appointments booked for one calendar date, earliest
// slot first. Used by the reminder run.
func (p *Postgres) OnDate(ctx context.Context, date string) ([]booking.Appointment, error) {
	var out []booking.Appointment
	if err := p.db.SelectContext(ctx, &out,
		`SELECT * FROM appointments WHERE appt_date = $1 ORDER BY appt_time, appointment_id`,
		date); err != nil {
		return nil, fmt.Errorf("appointments on %s: %w", date, err)
	}
	return out, nil
}

// DoctorCount is one row of the per-doctor aggregate.
type DoctorCount struct {
	DoctorName string `db:"doctor_name"`
	Count      int    `db:"n"`
}

// DayCount is one row of the per-day aggregate.
type DayCount struct {
	Date  string `db:"appt_date"`
	Count int    `db:"n"`
}

// Stats is the admin dashboard snapshot.
type Stats struct {
	Total    int
	Today    int
	Upcoming int
	ByDoctor []DoctorCount
	ByDay    []DayCount
	Latest   []booking.Appointment
}

// Stats aggregates the appointments table. today is the caller's notion of
// the current date in storage format; latest caps the recent-bookings list.
func (p *Postgres) Stats(ctx context.Context, today string, latest int) (Stats, error) {
	if latest <= 0 {
		latest = 5
	}
	var s Stats

	if err := p.db.GetContext(ctx, &s.Total,
		`SELECT COUNT(*) FROM appointments`); err != nil {
		return Stats{}, fmt.Errorf("stats: total: %w", err)
	}
	if err := p.db.GetContext(ctx, &s.Today,
		`SELECT COUNT(*) FROM appointments WHERE appt_date = $1`, today); err != nil {
		return Stats{}, fmt.Errorf("stats: today: %w", err)
	}
	if err := p.db.GetContext(ctx, &s.Upcoming,
		`SELECT COUNT(*) FROM appointments WHERE appt_date >= $1`, today); err != nil {
		return Stats{}, fmt.Errorf("stats: upcoming: %w", err)
	}
	if err := p.db.SelectContext(ctx, &s.ByDoctor,
		`SELECT doctor_name, COUNT(*) AS n
		 FROM appointments
		 GROUP BY doctor_name
		 ORDER BY n DESC, doctor_name`); err != nil {
		return Stats{}, fmt.Errorf("stats: by doctor: %w", err)
	}
	if err := p.db.SelectContext(ctx, &s.ByDay,
		`SELECT appt_date, COUNT(*) AS n
		 FROM appointments
		 WHERE appt_date >= $1
		 GROUP BY appt_date
		 ORDER BY appt_date`, today); err != nil {
		return Stats{}, fmt.Errorf("stats: by day: %w", err)
	}
	if err := p.db.SelectContext(ctx, &s.Latest,
		`SELECT * FROM appointments ORDER BY created_at DESC LIMIT $1`, latest); err != nil {
		return Stats{}, fmt.Errorf("stats: latest: %w", err)
	}
	return s, nil
}
