package booking

import (
	"regexp"
	"strings"
	"time"
)

const (
	MsgDateFormat     = "Invalid date format. Use YYYY-MM-DD"
	MsgDatePast       = "Date cannot be in the past"
	MsgStartRequired  = "Start time is required"
	MsgEndRequired    = "End time is required"
	MsgEndBeforeStart = "End time must be after start time"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidationResult holds the per-field errors of a Draft.
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// ValidateDraft checks every field rule and collects all failures. today supplies
// both the calendar date and the location the draft date is interpreted in.
func ValidateDraft(d Draft, today time.Time) ValidationResult {
	errs := make(map[string]string)

	if msg := checkDate(d.Date, today); msg != "" {
		errs[FieldDate] = msg
	}

	_, okStart := ParseClock(d.StartTime)
	_, okEnd := ParseClock(d.EndTime)
	if !okStart {
		errs[FieldStartTime] = MsgStartRequired
	}
	if !okEnd {
		errs[FieldEndTime] = MsgEndRequired
	}
	if okStart && okEnd {
		if _, _, ok := d.Window(); !ok {
			errs[FieldEndTime] = MsgEndBeforeStart
		}
	}

	return ValidationResult{Valid: len(errs) == 0, FieldErrors: errs}
}

// ParseDate parses a strictly shaped YYYY-MM-DD date at midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if !datePattern.MatchString(value) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func checkDate(value string, today time.Time) string {
	date, ok := ParseDate(value, today.Location())
	if !ok {
		return MsgDateFormat
	}
	if date.Before(StartOfDay(today)) {
		return MsgDatePast
	}
	return ""
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
