package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Weekday is an English weekday name, matching what time.Weekday.String()
// produces for an appointment date.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

var weekdayOrder = map[Weekday]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
	Sunday:    6,
}

func ParseWeekday(s string) (Weekday, bool) {
	d := Weekday(s)
	_, ok := weekdayOrder[d]
	return d, ok
}

// WeekdayOf returns the weekday name for a calendar date.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday().String())
}

// TimeRange is a {from, to} window of the day in which a doctor accepts
// bookings. Both endpoints are normalized "HH:MM" strings.
type TimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Schedule is a doctor's reconciled weekly availability: the declared set of
// active weekdays plus, per weekday, the sorted non-overlapping time ranges.
type Schedule struct {
	Days  []Weekday               `json:"available_days"`
	Times map[Weekday][]TimeRange `json:"available_times"`
}

func (s Schedule) HasDay(d Weekday) bool {
	for _, day := range s.Days {
		if day == d {
			return true
		}
	}
	return false
}

// RangesFor returns the stored ranges for a weekday, or nil if none are set.
func (s Schedule) RangesFor(d Weekday) []TimeRange {
	return s.Times[d]
}

// Profile is the one-per-doctor row carrying the schedule together with the
// public profile fields.
type Profile struct {
	DoctorID        uuid.UUID
	Bio             string
	Specialization  string
	YearsExperience int
	Address         string
	Schedule        Schedule
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ParseClock parses a strict 24-hour "HH:MM" string into minutes since
// midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("time %q is not in HH:MM format", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("time %q is not in HH:MM format", s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("time %q is out of range", s)
	}
	return h*60 + m, nil
}
