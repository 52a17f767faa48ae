// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package currency - ledger amounts
//
// all balances are held as integral subunits to avoid floating point;
// one currency unit is 10^8 subunits, so the smallest representable
// value is 0.00000001 units
package currency

import (
	"fmt"

	"github.com/alexanderludwig/FlightSurety/fault"
)

// Amount - a value in subunits
type Amount uint64

// number of decimal places in one unit
const decimalPlaces = 8

// Unit - one whole currency unit
const Unit Amount = 100000000

// FromString - convert a decimal string like "0.5" or "10" to an Amount
//
// strict: only digits and at most one decimal point are accepted,
// anything beyond 8 decimal places is an error rather than being
// silently truncated, and a value too large for 64-bit subunits is an
// error rather than wrapping
func FromString(s string) (Amount, error) {
	if "" == s {
		return 0, fault.InvalidAmount
	}

	const limit = ^Amount(0)

	a := Amount(0)
	point := false
	decimals := 0
	digits := 0

	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			if decimals >= decimalPlaces {
				return 0, fault.InvalidAmount
			}
			digit := Amount(c - '0')
			if a > (limit-digit)/10 {
				return 0, fault.InvalidAmount
			}
			a = a*10 + digit
			digits += 1
			if point {
				decimals += 1
			}
		case '.' == c:
			if point {
				return 0, fault.InvalidAmount
			}
			point = true
		default:
			return 0, fault.InvalidAmount
		}
	}
	if 0 == digits {
		return 0, fault.InvalidAmount
	}

	for decimals < decimalPlaces {
		if a > limit/10 {
			return 0, fault.InvalidAmount
		}
		a *= 10
		decimals += 1
	}

	return a, nil
}

// Payout - insurance payout for a paid premium: 1.5 times the amount
//
// computed as 3n/2 in subunits so the result is exact for any even
// subunit count; an odd count rounds down by one subunit
func (a Amount) Payout() Amount {
	return a * 3 / 2
}

// IsZero - check for an empty amount
func (a Amount) IsZero() bool {
	return 0 == a
}

// String - decimal representation for use by the fmt package (for %s)
func (a Amount) String() string {
	return fmt.Sprintf("%d.%08d", uint64(a)/uint64(Unit), uint64(a)%uint64(Unit))
}

// MarshalText - amount as decimal text
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText - decimal text to amount
func (a *Amount) UnmarshalText(s []byte) error {
	value, err := FromString(string(s))
	if nil != err {
		return err
	}
	*a = value
	return nil
}
