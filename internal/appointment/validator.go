package appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/vetdesk/booking/internal/availability"
)

var (
	ErrPastDate          = errors.New("cannot schedule appointments in the past")
	ErrDoctorUnavailable = errors.New("doctor is not available on this day")
	ErrNoSlotsConfigured = errors.New("doctor has no available time slots on this day")
	ErrTimeOutsideSlots  = errors.New("selected time is not within the doctor's available slots")
	ErrBadSlotTime       = errors.New("slot time must be in HH:MM format")
)

// ValidateSlot checks that a proposed (date, time) falls inside the doctor's
// declared availability. The past-date check compares calendar dates only: a
// same-day booking for a time already passed is accepted, matching the
// booking rules this service has always had. Range boundaries are inclusive
// on both ends. Whether the slot is already taken is not checked here; that
// is the storage constraint's job.
func ValidateSlot(schedule availability.Schedule, date time.Time, clock string, now time.Time) error {
	proposed, err := availability.ParseClock(clock)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSlotTime, err)
	}

	if dateOnly(date).Before(dateOnly(now)) {
		return ErrPastDate
	}

	weekday := availability.WeekdayOf(date)

	if !schedule.HasDay(weekday) {
		return fmt.Errorf("%w: %s", ErrDoctorUnavailable, weekday)
	}

	ranges := schedule.RangesFor(weekday)
	if len(ranges) == 0 {
		return fmt.Errorf("%w: %s", ErrNoSlotsConfigured, weekday)
	}

	for _, r := range ranges {
		from, errFrom := availability.ParseClock(r.From)
		to, errTo := availability.ParseClock(r.To)
		if errFrom != nil || errTo != nil {
			// Stored schedules are validated on write; skip anything odd.
			continue
		}
		if from <= proposed && proposed <= to {
			return nil
		}
	}

	return fmt.Errorf("%w: %s on %s", ErrTimeOutsideSlots, clock, weekday)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
