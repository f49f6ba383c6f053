package booking

// StateCodes holds the registration prefixes of the Indian states and union territories.
var StateCodes = map[string]struct{}{
	"AP": {}, "AR": {}, "AS": {}, "BR": {}, "CG": {}, "GA": {}, "GJ": {}, "HR": {}, "HP": {}, "JH": {},
	"KA": {}, "KL": {}, "MP": {}, "MH": {}, "ML": {}, "MN": {}, "MZ": {}, "NL": {}, "OD": {}, "PB": {},
	"RJ": {}, "SK": {}, "TN": {}, "TS": {}, "TR": {}, "UP": {}, "UK": {}, "WB": {}, "AN": {}, "CH": {},
	"DD": {}, "DN": {}, "DL": {}, "JK": {}, "LA": {}, "LD": {}, "PY": {},
}

// IsStateCode reports whether code is one of StateCodes. The check is case sensitive.
func IsStateCode(code string) bool {
	_, ok := StateCodes[code]
	return ok
}
