package booking

import (
	"regexp"
	"strings"
)

// VehicleStatus is the tri-state outcome of a vehicle number check.
type VehicleStatus int

const (
	// VehicleIndeterminate means too little input to decide; the user is still typing.
	VehicleIndeterminate VehicleStatus = iota
	VehicleValid
	VehicleInvalid
)

const MsgInvalidStateCode = "Vehicle number must start with a valid Indian state code, Please refer Vehicle Number Format."

var registrationPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{1,2}[A-Z]{1,2}[0-9]{4}$`)

func (s VehicleStatus) String() string {
	switch s {
	case VehicleValid:
		return "valid"
	case VehicleInvalid:
		return "invalid"
	default:
		return "indeterminate"
	}
}

func (s VehicleStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// VehicleCheck is the result of ValidateVehicleNumber.
type VehicleCheck struct {
	Status     VehicleStatus `json:"status"`
	Normalized string        `json:"normalized"`
	Message    string        `json:"message,omitempty"`
}

// Blocks reports whether the check should prevent submission.
func (c VehicleCheck) Blocks() bool {
	return c.Status == VehicleInvalid
}

func NormalizeVehicleNumber(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidateVehicleNumber checks only the state-code prefix of raw.
func ValidateVehicleNumber(raw string) VehicleCheck {
	normalized := NormalizeVehicleNumber(raw)
	runes := []rune(normalized)
	if len(runes) < 2 {
		return VehicleCheck{Status: VehicleIndeterminate, Normalized: normalized}
	}
	if IsStateCode(string(runes[:2])) {
		return VehicleCheck{Status: VehicleValid, Normalized: normalized}
	}
	return VehicleCheck{Status: VehicleInvalid, Normalized: normalized, Message: MsgInvalidStateCode}
}

// ValidateVehicleNumberFinal is the submit-time variant: input too short to carry a
// state code is rejected instead of left indeterminate.
func ValidateVehicleNumberFinal(raw string) VehicleCheck {
	check := ValidateVehicleNumber(raw)
	if check.Status == VehicleIndeterminate {
		check.Status = VehicleInvalid
		check.Message = MsgInvalidStateCode
	}
	return check
}

// MatchesRegistrationFormat reports whether a normalized number has the full
// registration shape, e.g. GJ01AB1234.
func MatchesRegistrationFormat(normalized string) bool {
	return registrationPattern.MatchString(normalized)
}
