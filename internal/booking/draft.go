package booking

import (
	"strings"
	"time"
)

// Field names used as keys in ValidationResult.FieldErrors and in Controller.SetField.
const (
	FieldDate          = "date"
	FieldStartTime     = "startTime"
	FieldEndTime       = "endTime"
	FieldVehicleNumber = "vehicleNumber"
)

const DateLayout = "2006-01-02"

var timeLayouts = []string{"15:04", "15:04:05"}

// Draft is the in-progress set of booking form values.
type Draft struct {
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	VehicleNumber string  `json:"vehicle_number"`
	HourlyRate    float64 `json:"hourly_rate"`
}

// ParseClock parses an HH:MM (or HH:MM:SS) wall-clock value. The result always
// carries the same reference date so two parsed values compare by time of day only.
func ParseClock(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Window returns the parsed start and end times and whether end is strictly after start.
func (d Draft) Window() (start, end time.Time, ok bool) {
	start, okStart := ParseClock(d.StartTime)
	end, okEnd := ParseClock(d.EndTime)
	if !okStart || !okEnd {
		return start, end, false
	}
	return start, end, end.After(start)
}
