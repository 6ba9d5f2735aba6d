package availability

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Validation error codes. Each FieldError carries exactly one of these.
const (
	CodeUnknownDay        = "unknown_day"
	CodeNotAList          = "not_a_list"
	CodeMalformedSlot     = "malformed_slot"
	CodeBadTimeFormat     = "bad_time_format"
	CodeInvertedRange     = "inverted_range"
	CodeOverlappingSlots  = "overlapping_slots"
	CodeOrphanedTimeSlots = "orphaned_time_slots"
	CodeInvalidDay        = "invalid_day"
)

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError aggregates every independently checkable failure in a
// submitted schedule so the caller sees them all at once, not just the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return e.Fields[0].Message
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return fmt.Sprintf("%d schedule validation errors: %s", len(e.Fields), strings.Join(msgs, "; "))
}

func (e *ValidationError) add(field, code, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{
		Field:   field,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// HasCode reports whether any collected field error carries the given code.
func (e *ValidationError) HasCode(code string) bool {
	for _, f := range e.Fields {
		if f.Code == code {
			return true
		}
	}
	return false
}

// ParseSchedule is the sole boundary where untyped schedule input becomes the
// typed Schedule. It validates day names, range shape, time format, range
// direction, per-day overlap, and the reconciliation of declared days against
// configured days, collecting every failure before reporting. On success the
// returned schedule has days in weekday order and each day's ranges sorted
// ascending by their from time.
func ParseSchedule(days []string, rawTimes map[string]json.RawMessage) (*Schedule, error) {
	verr := &ValidationError{}

	daySet := make(map[Weekday]bool, len(days))
	for _, d := range days {
		day, ok := ParseWeekday(d)
		if !ok {
			verr.add("available_days", CodeUnknownDay, "%q is not a valid day of the week", d)
			continue
		}
		daySet[day] = true
	}

	times := make(map[Weekday][]TimeRange, len(rawTimes))
	var orphans []string

	for _, key := range sortedKeys(rawTimes) {
		field := "available_times." + key

		day, ok := ParseWeekday(key)
		if !ok {
			verr.add(field, CodeUnknownDay, "%q is not a valid day of the week", key)
			continue
		}

		ranges, rangesOK := parseDayRanges(verr, field, rawTimes[key])

		// Orphan status is independent of whether the day's ranges parsed.
		if !daySet[day] {
			orphans = append(orphans, key)
			continue
		}
		if rangesOK {
			times[day] = ranges
		}
	}

	if len(orphans) > 0 {
		verr.add("available_times", CodeOrphanedTimeSlots,
			"time slots set for days not in available_days: %s", strings.Join(orphans, ", "))
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	ordered := make([]Weekday, 0, len(daySet))
	for d := range daySet {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return weekdayOrder[ordered[i]] < weekdayOrder[ordered[j]]
	})

	return &Schedule{Days: ordered, Times: times}, nil
}

// NormalizeRanges validates and sorts the ranges of a single weekday. It is
// the typed-input counterpart of the per-day checks in ParseSchedule, used by
// the wholesale per-day replacement path.
func NormalizeRanges(day Weekday, ranges []TimeRange) ([]TimeRange, error) {
	verr := &ValidationError{}
	field := "available_times." + string(day)
	normalized := checkRanges(verr, field, ranges)
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return normalized, nil
}

type rawSlot struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

func parseDayRanges(verr *ValidationError, field string, raw json.RawMessage) ([]TimeRange, bool) {
	var slots []rawSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		verr.add(field, CodeNotAList, "time slots for %s must be a list", field)
		return nil, false
	}

	ranges := make([]TimeRange, 0, len(slots))
	shapeOK := true
	for i, slot := range slots {
		if slot.From == nil || slot.To == nil {
			verr.add(fmt.Sprintf("%s[%d]", field, i), CodeMalformedSlot,
				"each time slot must have 'from' and 'to' keys")
			shapeOK = false
			continue
		}
		ranges = append(ranges, TimeRange{From: *slot.From, To: *slot.To})
	}
	if !shapeOK {
		return nil, false
	}

	before := len(verr.Fields)
	normalized := checkRanges(verr, field, ranges)
	return normalized, len(verr.Fields) == before
}

// checkRanges validates format, direction, and overlap, and returns the
// ranges sorted by from ascending. Overlap is only checked when every range
// parsed cleanly.
func checkRanges(verr *ValidationError, field string, ranges []TimeRange) []TimeRange {
	type parsed struct {
		r        TimeRange
		from, to int
	}

	items := make([]parsed, 0, len(ranges))
	clean := true
	for i, r := range ranges {
		slotField := fmt.Sprintf("%s[%d]", field, i)

		if r.From == "" || r.To == "" {
			verr.add(slotField, CodeMalformedSlot, "each time slot must have 'from' and 'to' keys")
			clean = false
			continue
		}

		from, errFrom := ParseClock(r.From)
		to, errTo := ParseClock(r.To)
		if errFrom != nil || errTo != nil {
			verr.add(slotField, CodeBadTimeFormat,
				"time format must be 'HH:MM', got from=%q to=%q", r.From, r.To)
			clean = false
			continue
		}
		if from >= to {
			verr.add(slotField, CodeInvertedRange,
				"'from' time %s must be earlier than 'to' time %s", r.From, r.To)
			clean = false
			continue
		}
		items = append(items, parsed{r: r, from: from, to: to})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].from < items[j].from })

	if clean {
		for i := 1; i < len(items); i++ {
			if items[i].from < items[i-1].to {
				verr.add(field, CodeOverlappingSlots, "overlapping time slots found")
				break
			}
		}
	}

	sorted := make([]TimeRange, len(items))
	for i, it := range items {
		sorted[i] = it.r
	}
	return sorted
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
