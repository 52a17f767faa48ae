// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mode - the process-wide operational flag
//
// every mutating ledger operation first checks that the system is in
// Normal mode; the owner can set Stopped to freeze all mutation while
// leaving queries working
package mode

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/fault"
)

// Mode - type to hold the mode
type Mode int

// all possible modes
const (
	Stopped Mode = iota
	Normal
	maximum
)

var globalData struct {
	sync.RWMutex
	log  *logger.L
	mode Mode

	// set once during initialise
	initialised bool
}

// Initialise - set up the mode system
//
// the ledger starts operational, matching the behaviour expected by
// callers that probe isOperational before anything else
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("mode")
	globalData.log.Info("starting…")

	globalData.mode = Normal
	globalData.initialised = true

	return nil
}

// Finalise - shutdown mode handling
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.mode = Stopped
	globalData.initialised = false
	globalData.log.Flush()

	return nil
}

// Set - change mode
//
// a call before Initialise is ignored
func Set(mode Mode) {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return
	}

	if mode >= Stopped && mode < maximum {
		globalData.mode = mode
		globalData.log.Infof("set: %s", mode)
	} else {
		globalData.log.Errorf("ignore invalid set: %d", mode)
	}
}

// Is - detect mode
func Is(mode Mode) bool {
	globalData.RLock()
	defer globalData.RUnlock()
	return mode == globalData.mode
}

// IsNot - detect mode
func IsNot(mode Mode) bool {
	globalData.RLock()
	defer globalData.RUnlock()
	return mode != globalData.mode
}

// String - current mode represented as a string
func String() string {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.mode.String()
}

// String - mode value as a string
func (m Mode) String() string {
	switch m {
	case Stopped:
		return "Stopped"
	case Normal:
		return "Normal"
	default:
		return "*Unknown*"
	}
}
