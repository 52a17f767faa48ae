// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package flight - the flight registry
//
// participating airlines register flights; a flight starts Unknown and
// is finalised exactly once by the oracle consensus engine.  airlines
// and passengers can never write a status themselves.
package flight

import (
	"encoding/binary"
	"encoding/json"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/fault"
	"github.com/alexanderludwig/FlightSurety/identity"
	"github.com/alexanderludwig/FlightSurety/membership"
	"github.com/alexanderludwig/FlightSurety/messagebus"
	"github.com/alexanderludwig/FlightSurety/mode"
	"github.com/alexanderludwig/FlightSurety/storage"
)

// component name on the storage allow-list
const storageName = "flight"

// one registered flight
type flightData struct {
	Airline   identity.Identity `json:"airline"`
	Code      string            `json:"code"`
	Timestamp int64             `json:"timestamp"`
	Status    Status            `json:"status"`
}

var globalData struct {
	sync.RWMutex
	log     *logger.L
	flights map[Key]*flightData

	// components allowed to finalise a status
	finalisers map[string]struct{}

	// set once during initialise
	initialised bool
}

// Initialise - load the flight registry from storage
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("flight")
	globalData.log.Info("starting…")

	globalData.flights = make(map[Key]*flightData)
	globalData.finalisers = make(map[string]struct{})

	// reload persisted flights
	cursor := storage.Pool.Flights.NewFetchCursor()
	for {
		elements, err := cursor.Fetch(100)
		if nil != err {
			return err
		}
		if 0 == len(elements) {
			break
		}
		for _, e := range elements {
			var key Key
			if KeyLength != len(e.Key) {
				globalData.log.Criticalf("corrupt flight key: %x", e.Key)
				return fault.FlightNotFound
			}
			copy(key[:], e.Key)

			record := &flightData{}
			if err := json.Unmarshal(e.Value, record); nil != err {
				globalData.log.Criticalf("corrupt flight record: %x  error: %s", e.Value, err)
				return err
			}
			globalData.flights[key] = record
		}
	}
	globalData.log.Infof("loaded %d flights", len(globalData.flights))

	globalData.initialised = true
	return nil
}

// Finalise - shut down the registry
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.flights = nil
	globalData.finalisers = nil
	globalData.initialised = false
	globalData.log.Flush()

	return nil
}

// AuthoriseFinaliser - allow a component to set flight statuses
//
// wired once at startup; only the oracle consensus engine should ever
// be on this list
func AuthoriseFinaliser(name string) {
	globalData.Lock()
	globalData.finalisers[name] = struct{}{}
	globalData.Unlock()
}

// Register - record a new flight with status Unknown
func Register(airline identity.Identity, code string, timestamp int64, sender identity.Identity) error {
	if mode.IsNot(mode.Normal) {
		return fault.NotOperational
	}
	if !storage.IsAuthorised(storageName) {
		return fault.NotAuthorised
	}
	if "" == code {
		return fault.InvalidFlightCode
	}
	if !membership.IsParticipating(sender) {
		return fault.NotParticipating
	}

	key := MakeKey(airline, code, timestamp)

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	if _, ok := globalData.flights[key]; ok {
		return fault.FlightAlreadyRegistered
	}

	record := &flightData{
		Airline:   airline,
		Code:      code,
		Timestamp: timestamp,
		Status:    Unknown,
	}
	globalData.flights[key] = record
	store(key, record)

	globalData.log.Infof("registered: %s %q @ %d → %s", airline, code, timestamp, key)

	messagebus.Bus.Broadcast.Send("flight", airline.Bytes(), []byte(code), timestampBytes(timestamp))
	return nil
}

// SetStatus - finalise a flight status
//
// restricted to authorised finalisers; a second finalisation attempt
// is a no-op so duplicate quorums cannot rewrite history
func SetStatus(caller string, key Key, status Status) error {
	if !status.IsTerminal() {
		return fault.InvalidMode
	}
	if !storage.IsAuthorised(storageName) {
		return fault.NotAuthorised
	}

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	if _, ok := globalData.finalisers[caller]; !ok {
		return fault.NotAuthorised
	}

	record, ok := globalData.flights[key]
	if !ok {
		return fault.FlightNotFound
	}
	if record.Status.IsTerminal() {
		// idempotent against duplicate finalisation
		return nil
	}

	record.Status = status
	store(key, record)

	globalData.log.Infof("finalised: %s → %s", key, status)
	return nil
}

// Exists - check a flight key
func Exists(key Key) bool {
	globalData.RLock()
	defer globalData.RUnlock()
	_, ok := globalData.flights[key]
	return ok
}

// GetStatus - current status of a flight
func GetStatus(key Key) (Status, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	record, ok := globalData.flights[key]
	if !ok {
		return Unknown, fault.FlightNotFound
	}
	return record.Status, nil
}

// Count - number of registered flights
func Count() int {
	globalData.RLock()
	defer globalData.RUnlock()
	return len(globalData.flights)
}

// write one record through to the pool
func store(key Key, record *flightData) {
	packed, err := json.Marshal(record)
	if nil != err {
		logger.Panicf("flight.store marshal error: %s", err)
	}
	storage.Pool.Flights.Put(key.Bytes(), packed)
}

// timestamp as 8 big endian bytes for notifications
func timestampBytes(timestamp int64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, uint64(timestamp))
	return buffer
}
