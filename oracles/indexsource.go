// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package oracles

import (
	"encoding/binary"
	"sync"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/alexanderludwig/FlightSurety/identity"
)

// IndexSource - strategy for drawing shard indices
//
// injectable so tests can supply deterministic sequences; production
// uses the pseudo-random source below
type IndexSource interface {
	// Generate - draw count indices in [0, IndexDomain) for a caller
	Generate(caller identity.Identity, count int) []int
}

// the production source
//
// indices are drawn from a sha3 digest over the caller identity, a
// decrementing nonce and the current time.  deterministic per call and
// hard enough to predict for honest use, but NOT cryptographically
// secure: a caller influences its own draw.  a verifiable random
// beacon would be the real fix.
type pseudoRandomSource struct {
	sync.Mutex
	nonce uint64
}

func newPseudoRandomSource() IndexSource {
	return &pseudoRandomSource{
		nonce: 250,
	}
}

func (s *pseudoRandomSource) Generate(caller identity.Identity, count int) []int {
	s.Lock()
	defer s.Unlock()

	indices := make([]int, count)
	for i := 0; i < count; i += 1 {
		var seed [16]byte
		binary.BigEndian.PutUint64(seed[0:], s.nonce)
		binary.BigEndian.PutUint64(seed[8:], uint64(time.Now().UnixNano()))

		h := sha3.New256()
		h.Write(caller.Bytes())
		h.Write(seed[:])
		digest := h.Sum(nil)

		indices[i] = int(digest[0]) % IndexDomain

		if 0 == s.nonce {
			s.nonce = 250
		} else {
			s.nonce -= 1
		}
	}
	return indices
}
