// Package directory holds the clinic's doctor roster: static reference data
// loaded at startup and read-only afterwards, so it is safe to share across
// concurrent conversations without locking.
package directory

import "time"

// Doctor describes one member of the roster. Fee is kept as a display string
// ("$50") because it is never computed with, only rendered and stored.
type Doctor struct {
	Code          string
	Name          string
	Specialty     string
	Fee           string
	AvailableDays []time.Weekday
	TimeSlots     []string
}

// AvailableOn reports whether the doctor sees patients on the given weekday.
func (d Doctor) AvailableOn(day time.Weekday) bool {
	for _, w := range d.AvailableDays {
		if w == day {
			return true
		}
	}
	return false
}

// HasTimeSlot reports whether the doctor offers the given time-of-day slot.
func (d Doctor) HasTimeSlot(slot string) bool {
	for _, s := range d.TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Source is the lookup contract the conversation engine depends on.
// Implementations must be safe for concurrent reads.
type Source interface {
	// Lookup resolves a doctor by short code.
	Lookup(code string) (Doctor, bool)
	// List returns all doctors in stable insertion order.
	List() []Doctor
}

// StaticSource is an in-memory Source seeded once at construction.
type StaticSource struct {
	order  []string
	byCode map[string]Doctor
}

// NewStaticSource builds a Source from the given doctors, preserving order.
func NewStaticSource(doctors ...Doctor) *StaticSource {
	s := &StaticSource{byCode: make(map[string]Doctor, len(doctors))}
	for _, d := range doctors {
		if _, dup := s.byCode[d.Code]; dup {
			continue
		}
		s.order = append(s.order, d.Code)
		s.byCode[d.Code] = d
	}
	return s
}

// Lookup resolves a doctor by short code.
func (s *StaticSource) Lookup(code string) (Doctor, bool) {
	d, ok := s.byCode[code]
	return d, ok
}

// List returns all doctors in insertion order.
func (s *StaticSource) List() []Doctor {
	out := make([]Doctor, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, s.byCode[code])
	}
	return out
}
