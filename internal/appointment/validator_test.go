package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/booking/internal/availability"
)

// mondaySchedule covers Monday 09:00-12:00 and 14:00-17:00 only.
func mondaySchedule() availability.Schedule {
	return availability.Schedule{
		Days: []availability.Weekday{availability.Monday, availability.Wednesday},
		Times: map[availability.Weekday][]availability.TimeRange{
			availability.Monday: {
				{From: "09:00", To: "12:00"},
				{From: "14:00", To: "17:00"},
			},
		},
	}
}

var (
	// 2026-09-07 is a Monday, 2026-09-08 a Tuesday.
	monday  = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	now     = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
)

func TestValidateSlot(t *testing.T) {
	cases := []struct {
		name    string
		date    time.Time
		clock   string
		wantErr error
	}{
		{"inside morning range", monday, "09:00", nil},
		{"inside afternoon range", monday, "15:30", nil},
		{"just past range end", monday, "12:01", ErrTimeOutsideSlots},
		{"between ranges", monday, "13:00", ErrTimeOutsideSlots},
		{"day not available", tuesday, "09:00", ErrDoctorUnavailable},
		{"date in the past", monday.AddDate(-1, 0, 0), "09:00", ErrPastDate},
		{"unparseable time", monday, "9am", ErrBadSlotTime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSlot(mondaySchedule(), tc.date, tc.clock, now)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestValidateSlot_BoundariesInclusive(t *testing.T) {
	for _, clock := range []string{"09:00", "12:00", "14:00", "17:00"} {
		assert.NoError(t, ValidateSlot(mondaySchedule(), monday, clock, now), clock)
	}
}

func TestValidateSlot_DayDeclaredWithoutRanges(t *testing.T) {
	// Wednesday is declared available but has no configured ranges.
	wednesday := time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)
	err := ValidateSlot(mondaySchedule(), wednesday, "09:00", now)
	assert.ErrorIs(t, err, ErrNoSlotsConfigured)
}

func TestValidateSlot_SameDayPastTimeAllowed(t *testing.T) {
	// The past check compares calendar dates only: booking today at a clock
	// time that has already passed is accepted.
	schedule := availability.Schedule{
		Days: []availability.Weekday{availability.Monday},
		Times: map[availability.Weekday][]availability.TimeRange{
			availability.Monday: {{From: "09:00", To: "17:00"}},
		},
	}
	lateMonday := time.Date(2026, 9, 7, 16, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateSlot(schedule, monday, "09:00", lateMonday))
	assert.ErrorIs(t, ValidateSlot(schedule, monday.AddDate(0, 0, -7), "09:00", lateMonday), ErrPastDate)
}

func TestValidateSlot_SkipsCorruptStoredRange(t *testing.T) {
	schedule := availability.Schedule{
		Days: []availability.Weekday{availability.Monday},
		Times: map[availability.Weekday][]availability.TimeRange{
			availability.Monday: {
				{From: "garbage", To: "moregarbage"},
				{From: "09:00", To: "12:00"},
			},
		},
	}

	require.NoError(t, ValidateSlot(schedule, monday, "10:00", now))
	assert.ErrorIs(t, ValidateSlot(schedule, monday, "13:00", now), ErrTimeOutsideSlots)
}
