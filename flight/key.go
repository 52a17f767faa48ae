// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flight

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/alexanderludwig/FlightSurety/fault"
	"github.com/alexanderludwig/FlightSurety/identity"
)

// KeyLength - number of bytes in a flight key
const KeyLength = 32

// Key - composite flight identifier
//
// the sha3-256 digest over (airline, flight code, timestamp) so the
// triple forms a single fixed size ledger key
type Key [KeyLength]byte

// MakeKey - digest a flight triple
func MakeKey(airline identity.Identity, code string, timestamp int64) Key {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(timestamp))

	h := sha3.New256()
	h.Write(airline.Bytes())
	h.Write([]byte(code))
	h.Write(ts[:])

	var key Key
	copy(key[:], h.Sum(nil))
	return key
}

// Bytes - key as a byte slice, for pool lookups
func (key Key) Bytes() []byte {
	return key[:]
}

// String - key as hex for use by the fmt package (for %s)
func (key Key) String() string {
	return hex.EncodeToString(key[:])
}

// MarshalText - key to hex text
func (key Key) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(KeyLength))
	hex.Encode(buffer, key[:])
	return buffer, nil
}

// UnmarshalText - hex text to key
func (key *Key) UnmarshalText(s []byte) error {
	if hex.EncodedLen(KeyLength) != len(s) {
		return fault.InvalidFlightCode
	}
	_, err := hex.Decode(key[:], s)
	return err
}
