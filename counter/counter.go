// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package counter - a trivial synchronised counter
//
// used for tracking active RPC connections
package counter

import (
	"sync/atomic"
)

// Counter - a 64 bit unsigned counter safe for concurrent use
type Counter uint64

// Increment - add 1 to the counter, returns the new value
func (c *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(c), 1)
}

// Decrement - subtract 1 from the counter, returns the new value
//
// decrementing past zero wraps, callers must keep increments and
// decrements paired
func (c *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(c), ^uint64(0))
}

// Uint64 - the current value
func (c *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(c))
}

// IsZero - check if the counter is zero
func (c *Counter) IsZero() bool {
	return 0 == atomic.LoadUint64((*uint64)(c))
}
