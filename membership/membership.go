// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package membership - the airline registry
//
// admission works in two regimes: while fewer than four airlines are
// registered any participating airline can add another directly; from
// the fourth onwards a candidate needs confirmations from a strict
// majority of the registered airlines.  registration never unlocks
// anything by itself - an airline participates in governance only
// after it has funded at least the funding threshold.
package membership

import (
	"encoding/json"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/currency"
	"github.com/alexanderludwig/FlightSurety/fault"
	"github.com/alexanderludwig/FlightSurety/identity"
	"github.com/alexanderludwig/FlightSurety/messagebus"
	"github.com/alexanderludwig/FlightSurety/mode"
	"github.com/alexanderludwig/FlightSurety/storage"
)

// FundingThreshold - balance needed to become participating
const FundingThreshold = 10 * currency.Unit

// number of registered airlines below which no confirmations are needed
const bootstrapLimit = 4

// component name on the storage allow-list
const storageName = "membership"

// one airline record
//
// Confirmers holds the identities that endorsed this airline while it
// is still a candidate; the set is cleared on registration so it can
// never be reused for a later proposal
type airlineData struct {
	Registered    bool                           `json:"registered"`
	Participating bool                           `json:"participating"`
	Balance       currency.Amount                `json:"balance"`
	Confirmers    map[identity.Identity]struct{} `json:"confirmers"`
}

var globalData struct {
	sync.RWMutex
	log             *logger.L
	airlines        map[identity.Identity]*airlineData
	registeredCount int

	// set once during initialise
	initialised bool
}

// Initialise - load the registry, seeding the bootstrap airline
//
// the bootstrap airline is registered unconditionally but must still
// fund itself before it can participate
func Initialise(bootstrap identity.Identity) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}
	if bootstrap.IsNil() {
		return fault.InvalidIdentity
	}

	globalData.log = logger.New("membership")
	globalData.log.Info("starting…")

	globalData.airlines = make(map[identity.Identity]*airlineData)
	globalData.registeredCount = 0

	// reload persisted airlines
	cursor := storage.Pool.Airlines.NewFetchCursor()
	for {
		elements, err := cursor.Fetch(100)
		if nil != err {
			return err
		}
		if 0 == len(elements) {
			break
		}
		for _, e := range elements {
			var id identity.Identity
			if identity.Length != len(e.Key) {
				globalData.log.Criticalf("corrupt airline key: %x", e.Key)
				return fault.InvalidIdentity
			}
			copy(id[:], e.Key)

			record := &airlineData{}
			if err := json.Unmarshal(e.Value, record); nil != err {
				globalData.log.Criticalf("corrupt airline record: %x  error: %s", e.Value, err)
				return err
			}
			if nil == record.Confirmers {
				record.Confirmers = make(map[identity.Identity]struct{})
			}
			globalData.airlines[id] = record
			if record.Registered {
				globalData.registeredCount += 1
			}
		}
	}

	// a fresh ledger gets the bootstrap airline
	if 0 == globalData.registeredCount {
		record := &airlineData{
			Registered: true,
			Confirmers: make(map[identity.Identity]struct{}),
		}
		globalData.airlines[bootstrap] = record
		globalData.registeredCount = 1
		store(bootstrap, record)
		globalData.log.Infof("bootstrap airline: %s", bootstrap)
	}

	globalData.log.Infof("loaded %d airlines, %d registered",
		len(globalData.airlines), globalData.registeredCount)

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
	globalData.airlines = nil
	globalData.registeredCount = 0
	globalData.initialised = false
	globalData.log.Flush()

	return nil
}

// ProposeOrRegister - register a candidate airline
//
// below the bootstrap limit the candidate is registered immediately;
// afterwards the recorded confirmer set must already hold a strict
// majority of the registered airlines
func ProposeOrRegister(candidate identity.Identity, sender identity.Identity) error {
	if mode.IsNot(mode.Normal) {
		return fault.NotOperational
	}
	if !storage.IsAuthorised(storageName) {
		return fault.NotAuthorised
	}
	if candidate.IsNil() {
		return fault.InvalidIdentity
	}

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	if !isParticipating(sender) {
		return fault.NotParticipating
	}

	record := globalData.airlines[candidate]
	if nil != record && record.Registered {
		return fault.AirlineAlreadyRegistered
	}
	if nil == record {
		record = &airlineData{
			Confirmers: make(map[identity.Identity]struct{}),
		}
	}

	if globalData.registeredCount >= bootstrapLimit {
		needed := majority(globalData.registeredCount)
		if len(record.Confirmers) < needed {
			globalData.log.Infof("candidate: %s has %d of %d confirmations",
				candidate, len(record.Confirmers), needed)
			return fault.InsufficientConfirmations
		}
	}

	record.Registered = true
	// a used confirmation set may not carry over to a future proposal
	record.Confirmers = make(map[identity.Identity]struct{})
	globalData.airlines[candidate] = record
	globalData.registeredCount += 1
	store(candidate, record)

	globalData.log.Infof("registered: %s (by %s), now %d registered",
		candidate, sender, globalData.registeredCount)

	messagebus.Bus.Broadcast.Send("airline", candidate.Bytes())
	return nil
}

// Confirm - endorse a candidate airline
//
// re-confirming is harmless: the confirmer set has set semantics so a
// single airline never counts twice for the same candidate
func Confirm(candidate identity.Identity, sender identity.Identity) error {
	if mode.IsNot(mode.Normal) {
		return fault.NotOperational
	}
	if !storage.IsAuthorised(storageName) {
		return fault.NotAuthorised
	}
	if candidate.IsNil() {
		return fault.InvalidIdentity
	}

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	if !isParticipating(sender) {
		return fault.NotParticipating
	}

	record := globalData.airlines[candidate]
	if nil != record && record.Registered {
		return fault.AirlineAlreadyRegistered
	}
	if nil == record {
		record = &airlineData{
			Confirmers: make(map[identity.Identity]struct{}),
		}
		globalData.airlines[candidate] = record
	}

	if _, ok := record.Confirmers[sender]; ok {
		return nil // idempotent
	}
	record.Confirmers[sender] = struct{}{}
	store(candidate, record)

	globalData.log.Infof("confirmed: %s by %s (%d confirmations)",
		candidate, sender, len(record.Confirmers))

	messagebus.Bus.Broadcast.Send("confirm", sender.Bytes(), candidate.Bytes())
	return nil
}

// ProvideFunding - add to an airline's funded balance
//
// crossing the threshold while registered makes the airline
// participating; that flag never reverts
func ProvideFunding(sender identity.Identity, amount currency.Amount) error {
	if mode.IsNot(mode.Normal) {
		return fault.NotOperational
	}
	if !storage.IsAuthorised(storageName) {
		return fault.NotAuthorised
	}
	if amount.IsZero() {
		return fault.InvalidAmount
	}
	if sender.IsNil() {
		return fault.InvalidIdentity
	}

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	record := globalData.airlines[sender]
	if nil == record {
		// balance accumulates even before any registration
		record = &airlineData{
			Confirmers: make(map[identity.Identity]struct{}),
		}
		globalData.airlines[sender] = record
	}

	record.Balance += amount
	if record.Registered && !record.Participating && record.Balance >= FundingThreshold {
		record.Participating = true
		globalData.log.Infof("participating: %s with balance %s", sender, record.Balance)
	}
	store(sender, record)

	globalData.log.Infof("funding: %s + %s = %s", sender, amount, record.Balance)
	return nil
}

// IsRegistered - check registration
func IsRegistered(airline identity.Identity) bool {
	globalData.RLock()
	defer globalData.RUnlock()

	record := globalData.airlines[airline]
	return nil != record && record.Registered
}

// IsParticipating - check participation
func IsParticipating(airline identity.Identity) bool {
	globalData.RLock()
	defer globalData.RUnlock()
	return isParticipating(airline)
}

// Balance - current funded balance
func Balance(airline identity.Identity) currency.Amount {
	globalData.RLock()
	defer globalData.RUnlock()

	record := globalData.airlines[airline]
	if nil == record {
		return 0
	}
	return record.Balance
}

// RegisteredCount - number of registered airlines
func RegisteredCount() int {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.registeredCount
}

// Confirmations - current confirmation count for a candidate
func Confirmations(candidate identity.Identity) int {
	globalData.RLock()
	defer globalData.RUnlock()

	record := globalData.airlines[candidate]
	if nil == record {
		return 0
	}
	return len(record.Confirmers)
}

// internal check, lock already held
func isParticipating(airline identity.Identity) bool {
	record := globalData.airlines[airline]
	return nil != record && record.Participating
}

// strict majority of n registered airlines: ceil(n/2)
func majority(n int) int {
	return (n + 1) / 2
}

// write one record through to the pool
func store(id identity.Identity, record *airlineData) {
	packed, err := json.Marshal(record)
	if nil != err {
		logger.Panicf("membership.store marshal error: %s", err)
	}
	storage.Pool.Airlines.Put(id.Bytes(), packed)
}
