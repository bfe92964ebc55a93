package directory

import "time"

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// DefaultRoster returns the clinic's doctor roster.
func DefaultRoster() *StaticSource {
	return NewStaticSource(
		Doctor{
			Code:          "1",
			Name:          "Dr. Sarah Smith",
			Specialty:     "General Medicine",
			Fee:           "$50",
			AvailableDays: weekdays,
			TimeSlots:     []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"},
		},
		Doctor{
			Code:          "2",
			Name:          "Dr. Mark Johnson",
			Specialty:     "Cardiology",
			Fee:           "$80",
			AvailableDays: weekdays,
			TimeSlots:     []string{"10:00", "11:00", "14:00", "15:00"},
		},
		Doctor{
			Code:          "3",
			Name:          "Dr. Emily Davis",
			Specialty:     "Dermatology",
			Fee:           "$70",
			AvailableDays: weekdays,
			TimeSlots:     []string{"09:00", "11:00", "15:00", "16:00"},
		},
		Doctor{
			Code:          "4",
			Name:          "Dr. Robert Wilson",
			Specialty:     "Orthopedics",
			Fee:           "$90",
			AvailableDays: []time.Weekday{time.Tuesday, time.Thursday, time.Friday},
			TimeSlots:     []string{"10:00", "11:00", "14:00", "15:00"},
		},
	)
}
