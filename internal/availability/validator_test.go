package availability

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawRanges(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestParseSchedule_Valid(t *testing.T) {
	days := []string{"Friday", "Monday", "Wednesday"}
	times := map[string]json.RawMessage{
		"Monday": rawRanges(t, []TimeRange{
			{From: "14:00", To: "17:00"},
			{From: "09:00", To: "12:00"},
		}),
		"Friday": rawRanges(t, []TimeRange{
			{From: "10:00", To: "11:30"},
		}),
	}

	s, err := ParseSchedule(days, times)
	require.NoError(t, err)

	// Days come back in weekday order regardless of input order.
	assert.Equal(t, []Weekday{Monday, Wednesday, Friday}, s.Days)

	// Ranges are sorted ascending by their from time.
	require.Len(t, s.Times[Monday], 2)
	assert.Equal(t, TimeRange{From: "09:00", To: "12:00"}, s.Times[Monday][0])
	assert.Equal(t, TimeRange{From: "14:00", To: "17:00"}, s.Times[Monday][1])

	// A declared day with no configured ranges is fine.
	assert.True(t, s.HasDay(Wednesday))
	assert.Empty(t, s.RangesFor(Wednesday))
}

func TestParseSchedule_UnknownDay(t *testing.T) {
	_, err := ParseSchedule([]string{"Funday"}, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasCode(CodeUnknownDay))
	assert.Equal(t, "available_days", verr.Fields[0].Field)
}

func TestParseSchedule_NotAList(t *testing.T) {
	times := map[string]json.RawMessage{
		"Monday": json.RawMessage(`{"from": "09:00", "to": "12:00"}`),
	}

	_, err := ParseSchedule([]string{"Monday"}, times)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasCode(CodeNotAList))
}

func TestParseSchedule_MalformedSlot(t *testing.T) {
	times := map[string]json.RawMessage{
		"Monday": json.RawMessage(`[{"from": "09:00"}]`),
	}

	_, err := ParseSchedule([]string{"Monday"}, times)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasCode(CodeMalformedSlot))
	assert.Equal(t, "available_times.Monday[0]", verr.Fields[0].Field)
}

func TestParseSchedule_BadTimeFormat(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
	}{
		{"twelve hour clock", "9:00 AM", "12:00 PM"},
		{"missing minutes", "09", "12"},
		{"out of range hour", "25:00", "26:00"},
		{"out of range minute", "09:61", "12:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			times := map[string]json.RawMessage{
				"Monday": rawRanges(t, []TimeRange{{From: tc.from, To: tc.to}}),
			}
			_, err := ParseSchedule([]string{"Monday"}, times)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.HasCode(CodeBadTimeFormat))
		})
	}
}

func TestParseSchedule_InvertedRange(t *testing.T) {
	times := map[string]json.RawMessage{
		"Monday": rawRanges(t, []TimeRange{{From: "12:00", To: "09:00"}}),
	}

	_, err := ParseSchedule([]string{"Monday"}, times)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasCode(CodeInvertedRange))
}

func TestParseSchedule_EqualEndpointsInverted(t *testing.T) {
	times := map[string]json.RawMessage{
		"Monday": rawRanges(t, []TimeRange{{From: "09:00", To: "09:00"}}),
	}

	_, err := ParseSchedule([]string{"Monday"}, times)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasCode(CodeInvertedRange))
}

func TestParseSchedule_OverlappingSlots(t *testing.T) {
	times := map[string]json.RawMessage{
		"Monday": rawRanges(t, []TimeRange{
			{From: "09:00", To: "12:00"},
			{From: "11:00", To: "14:00"},
		}),
	}

	_, err := ParseSchedule([]string{"Monday"}, times)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasCode(CodeOverlappingSlots))
	// One error for the day, not one per colliding pair.
	require.Len(t, verr.Fields, 1)
}

func TestParseSchedule_TouchingRangesDoNotOverlap(t *testing.T) {
	times := map[string]json.RawMessage{
		"Monday": rawRanges(t, []TimeRange{
			{From: "09:00", To: "12:00"},
			{From: "12:00", To: "14:00"},
		}),
	}

	_, err := ParseSchedule([]string{"Monday"}, times)
	require.NoError(t, err)
}

func TestParseSchedule_OrphanedTimeSlots(t *testing.T) {
	times := map[string]json.RawMessage{
		"Tuesday":  rawRanges(t, []TimeRange{{From: "09:00", To: "12:00"}}),
		"Thursday": rawRanges(t, []TimeRange{{From: "09:00", To: "12:00"}}),
	}

	_, err := ParseSchedule([]string{"Monday"}, times)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, CodeOrphanedTimeSlots, verr.Fields[0].Code)
	// Both orphaned days are named in the single error.
	assert.Contains(t, verr.Fields[0].Message, "Tuesday")
	assert.Contains(t, verr.Fields[0].Message, "Thursday")
}

func TestParseSchedule_OrphanReportedEvenWhenRangesBroken(t *testing.T) {
	times := map[string]json.RawMessage{
		"Tuesday": rawRanges(t, []TimeRange{{From: "nonsense", To: "12:00"}}),
	}

	_, err := ParseSchedule([]string{"Monday"}, times)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasCode(CodeBadTimeFormat))
	assert.True(t, verr.HasCode(CodeOrphanedTimeSlots))
}

func TestParseSchedule_CollectsAllFailures(t *testing.T) {
	days := []string{"Monday", "Caturday"}
	times := map[string]json.RawMessage{
		"Monday": rawRanges(t, []TimeRange{
			{From: "bad", To: "worse"},
			{From: "17:00", To: "09:00"},
		}),
		"Sunday": rawRanges(t, []TimeRange{{From: "09:00", To: "12:00"}}),
	}

	_, err := ParseSchedule(days, times)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasCode(CodeUnknownDay))
	assert.True(t, verr.HasCode(CodeBadTimeFormat))
	assert.True(t, verr.HasCode(CodeInvertedRange))
	assert.True(t, verr.HasCode(CodeOrphanedTimeSlots))
	assert.Len(t, verr.Fields, 4)
}

func TestNormalizeRanges(t *testing.T) {
	sorted, err := NormalizeRanges(Monday, []TimeRange{
		{From: "14:00", To: "17:00"},
		{From: "09:00", To: "12:00"},
	})
	require.NoError(t, err)
	assert.Equal(t, []TimeRange{
		{From: "09:00", To: "12:00"},
		{From: "14:00", To: "17:00"},
	}, sorted)

	_, err = NormalizeRanges(Monday, []TimeRange{{From: "", To: "12:00"}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasCode(CodeMalformedSlot))
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"9:30", 0, false},
		{"09-30", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.minutes, got, tc.in)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	verr := &ValidationError{}
	verr.add("f1", CodeUnknownDay, "first")
	assert.Equal(t, "first", verr.Error())

	verr.add("f2", CodeInvertedRange, "second")
	assert.Contains(t, verr.Error(), "2 schedule validation errors")

	var target *ValidationError
	assert.True(t, errors.As(error(verr), &target))
}
