// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flight

// Status - flight status code
//
// the numeric values are part of the external interface and must not
// be renumbered: oracle agents report these exact codes
type Status uint8

// all possible status codes
const (
	Unknown       Status = 0
	OnTime        Status = 10
	LateAirline   Status = 20
	LateWeather   Status = 30
	LateTechnical Status = 40
	LateOther     Status = 50
)

// IsValid - check a code received from outside
func (s Status) IsValid() bool {
	switch s {
	case Unknown, OnTime, LateAirline, LateWeather, LateTechnical, LateOther:
		return true
	default:
		return false
	}
}

// IsTerminal - a finalised status; Unknown is the only non-terminal code
func (s Status) IsTerminal() bool {
	return Unknown != s && s.IsValid()
}

// String - status name for use by the fmt package (for %s)
func (s Status) String() string {
	switch s {
	case Unknown:
		return "Unknown"
	case OnTime:
		return "OnTime"
	case LateAirline:
		return "LateAirline"
	case LateWeather:
		return "LateWeather"
	case LateTechnical:
		return "LateTechnical"
	case LateOther:
		return "LateOther"
	default:
		return "*Invalid*"
	}
}
