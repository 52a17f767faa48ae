// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - push notifications to external subscribers
//
// every notification placed on the internal message bus is rebroadcast
// over a zeromq PUB socket so oracle agents and dapp front ends can
// follow the ledger without polling
package publish

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/background"
	"github.com/alexanderludwig/FlightSurety/fault"
)

// Configuration - a block of configuration data
// this is read from the configuration file
type Configuration struct {
	Broadcast []string `gluamapper:"broadcast" json:"broadcast"`
}

var globalData struct {
	sync.RWMutex
	log  *logger.L
	brdc broadcaster

	// for background
	background *background.T

	// set once during initialise
	initialised bool
}

// Initialise - bind the broadcast sockets and start the publisher
func Initialise(configuration *Configuration) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("publish")
	globalData.log.Info("starting…")

	if err := globalData.brdc.initialise(configuration.Broadcast); nil != err {
		return err
	}

	globalData.initialised = true

	globalData.log.Info("start background…")

	processes := background.Processes{
		&globalData.brdc,
	}
	globalData.background = background.Start(processes, nil)

	return nil
}

// Finalise - stop all background tasks
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.background.Stop()

	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}
