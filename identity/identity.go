// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identity - fixed size account identifiers
//
// airlines, passengers, oracles and the contract owner are all
// identified by a 20 byte value, written as 40 hex digits
package identity

import (
	"encoding/hex"

	"github.com/alexanderludwig/FlightSurety/fault"
)

// Length - number of bytes in an identity
const Length = 20

// Identity - the account identifier
type Identity [Length]byte

// Nil - the zero identity, not valid as a caller
var Nil Identity

// FromHexString - convert 40 hex digits to an identity
func FromHexString(s string) (Identity, error) {
	var id Identity
	if hex.EncodedLen(Length) != len(s) {
		return id, fault.InvalidIdentity
	}
	byteCount, err := hex.Decode(id[:], []byte(s))
	if nil != err || Length != byteCount {
		return id, fault.InvalidIdentity
	}
	return id, nil
}

// IsNil - check for the zero identity
func (id Identity) IsNil() bool {
	return id == Nil
}

// Bytes - identity as a byte slice, for key construction
func (id Identity) Bytes() []byte {
	return id[:]
}

// String - identity as hex for use by the fmt package (for %s)
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// GoString - identity for use by the fmt package (for %#v)
func (id Identity) GoString() string {
	return "<identity:" + hex.EncodeToString(id[:]) + ">"
}

// MarshalText - identity to hex text
func (id Identity) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(Length))
	hex.Encode(buffer, id[:])
	return buffer, nil
}

// UnmarshalText - hex text to identity
func (id *Identity) UnmarshalText(s []byte) error {
	if hex.EncodedLen(Length) != len(s) {
		return fault.InvalidIdentity
	}
	byteCount, err := hex.Decode(id[:], s)
	if nil != err {
		return err
	}
	if Length != byteCount {
		return fault.InvalidIdentity
	}
	return nil
}
