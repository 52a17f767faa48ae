// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package insurance - passenger policies and payout credits
//
// premiums are held in custody until the oracle consensus engine
// finalises the insured flight; an airline-fault delay credits every
// policy at 1.5 times the paid premium.  credits are only paid out
// through Withdraw, which zeroes the balance before transferring so a
// reentrant second withdrawal transfers nothing.
package insurance

import (
	"encoding/json"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/currency"
	"github.com/alexanderludwig/FlightSurety/fault"
	"github.com/alexanderludwig/FlightSurety/flight"
	"github.com/alexanderludwig/FlightSurety/identity"
	"github.com/alexanderludwig/FlightSurety/mode"
	"github.com/alexanderludwig/FlightSurety/storage"
)

// PurchaseCap - most a passenger may pay for one flight policy
const PurchaseCap = currency.Unit

// component name on the storage allow-list
const storageName = "insurance"

// one policy: a passenger's premium on one flight
type policyData struct {
	Passenger identity.Identity `json:"passenger"`
	FlightKey flight.Key        `json:"flightKey"`
	Paid      currency.Amount   `json:"paid"`
	Credited  bool              `json:"credited"`
}

var globalData struct {
	sync.RWMutex
	log *logger.L

	// policy lookup by flight, then passenger
	policies map[flight.Key]map[identity.Identity]*policyData

	// withdrawable balances
	credits map[identity.Identity]currency.Amount

	// per-passenger withdrawal sections
	withdrawals map[identity.Identity]*sync.Mutex

	// premiums held plus credits not yet withdrawn
	custody currency.Amount

	// components allowed to credit insurees
	finalisers map[string]struct{}

	// set once during initialise
	initialised bool
}

// Initialise - load policies and credits from storage
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("insurance")
	globalData.log.Info("starting…")

	globalData.policies = make(map[flight.Key]map[identity.Identity]*policyData)
	globalData.credits = make(map[identity.Identity]currency.Amount)
	globalData.withdrawals = make(map[identity.Identity]*sync.Mutex)
	globalData.finalisers = make(map[string]struct{})
	globalData.custody = 0

	policyCount := 0
	cursor := storage.Pool.Policies.NewFetchCursor()
	for {
		elements, err := cursor.Fetch(100)
		if nil != err {
			return err
		}
		if 0 == len(elements) {
			break
		}
		for _, e := range elements {
			record := &policyData{}
			if err := json.Unmarshal(e.Value, record); nil != err {
				globalData.log.Criticalf("corrupt policy record: %x  error: %s", e.Value, err)
				return err
			}
			byPassenger, ok := globalData.policies[record.FlightKey]
			if !ok {
				byPassenger = make(map[identity.Identity]*policyData)
				globalData.policies[record.FlightKey] = byPassenger
			}
			byPassenger[record.Passenger] = record
			if !record.Credited {
				globalData.custody += record.Paid
			}
			policyCount += 1
		}
	}

	creditCursor := storage.Pool.Credits.NewFetchCursor()
	for {
		elements, err := creditCursor.Fetch(100)
		if nil != err {
			return err
		}
		if 0 == len(elements) {
			break
		}
		for _, e := range elements {
			var id identity.Identity
			if identity.Length != len(e.Key) {
				globalData.log.Criticalf("corrupt credit key: %x", e.Key)
				return fault.InvalidIdentity
			}
			copy(id[:], e.Key)

			var amount currency.Amount
			if err := amount.UnmarshalText(e.Value); nil != err {
				globalData.log.Criticalf("corrupt credit record: %x  error: %s", e.Value, err)
				return err
			}
			if !amount.IsZero() {
				globalData.credits[id] = amount
				globalData.custody += amount
			}
		}
	}

	globalData.log.Infof("loaded %d policies, %d credit balances",
		policyCount, len(globalData.credits))

	globalData.initialised = true
	return nil
}

// Finalise - shut down the ledger
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.policies = nil
	globalData.credits = nil
	globalData.withdrawals = nil
	globalData.finalisers = nil
	globalData.initialised = false
	globalData.log.Flush()

	return nil
}

// AuthoriseFinaliser - allow a component to credit insurees
func AuthoriseFinaliser(name string) {
	globalData.Lock()
	globalData.finalisers[name] = struct{}{}
	globalData.Unlock()
}

// Buy - purchase or top up insurance on a flight
//
// only possible while the flight is still Unknown; the accumulated
// premium per (passenger, flight) may not exceed the purchase cap
func Buy(passenger identity.Identity, key flight.Key, amount currency.Amount) error {
	if mode.IsNot(mode.Normal) {
		return fault.NotOperational
	}
	if !storage.IsAuthorised(storageName) {
		return fault.NotAuthorised
	}
	if passenger.IsNil() {
		return fault.InvalidIdentity
	}
	if amount.IsZero() {
		return fault.InvalidAmount
	}

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	// checked under the ledger lock so a finalisation racing with the
	// purchase cannot slip in between the check and the insert
	status, err := flight.GetStatus(key)
	if nil != err {
		return err
	}
	if flight.Unknown != status {
		return fault.FlightNotPending
	}

	byPassenger, ok := globalData.policies[key]
	if !ok {
		byPassenger = make(map[identity.Identity]*policyData)
		globalData.policies[key] = byPassenger
	}

	record, ok := byPassenger[passenger]
	if !ok {
		record = &policyData{
			Passenger: passenger,
			FlightKey: key,
		}
		byPassenger[passenger] = record
	}
	if record.Credited {
		// a settled policy cannot be topped up
		return fault.FlightNotPending
	}
	if record.Paid+amount > PurchaseCap {
		return fault.PurchaseCapExceeded
	}

	record.Paid += amount
	globalData.custody += amount
	storePolicy(record)

	globalData.log.Infof("policy: %s on %s paid %s (total %s)",
		passenger, key, amount, record.Paid)
	return nil
}

// CreditInsurees - credit every uncredited policy on a flight
//
// called by the oracle consensus engine after an airline-fault
// finalisation; a policy is credited at most once no matter how often
// finalisation cascades fire
func CreditInsurees(caller string, key flight.Key) error {
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

	for passenger, record := range globalData.policies[key] {
		if record.Credited {
			continue // idempotent
		}

		payout := record.Paid.Payout()
		record.Credited = true
		globalData.credits[passenger] += payout

		// the premium leaves custody, the payout enters it
		globalData.custody += payout
		globalData.custody -= record.Paid

		storePolicy(record)
		storeCredit(passenger, globalData.credits[passenger])

		globalData.log.Infof("credited: %s with %s for %s", passenger, payout, key)
	}

	return nil
}

// Withdraw - pay out a passenger's accumulated credit
//
// the balance is zeroed before the transfer amount is returned, so a
// concurrent or reentrant second call observes zero and transfers
// nothing
func Withdraw(passenger identity.Identity) (currency.Amount, error) {
	if mode.IsNot(mode.Normal) {
		return 0, fault.NotOperational
	}
	if !storage.IsAuthorised(storageName) {
		return 0, fault.NotAuthorised
	}
	if passenger.IsNil() {
		return 0, fault.InvalidIdentity
	}

	// serialise withdrawals per passenger
	section := withdrawalSection(passenger)
	section.Lock()
	defer section.Unlock()

	globalData.Lock()
	if !globalData.initialised {
		globalData.Unlock()
		return 0, fault.NotInitialised
	}

	amount := globalData.credits[passenger]
	globalData.credits[passenger] = 0 // zero before transfer
	if !amount.IsZero() {
		globalData.custody -= amount
		storeCredit(passenger, 0)
	}
	globalData.Unlock()

	if !amount.IsZero() {
		globalData.log.Infof("withdraw: %s transfers %s", passenger, amount)
	}
	return amount, nil
}

// AccountCredit - current withdrawable balance
func AccountCredit(passenger identity.Identity) currency.Amount {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.credits[passenger]
}

// PaidPremium - accumulated premium of one policy
func PaidPremium(passenger identity.Identity, key flight.Key) currency.Amount {
	globalData.RLock()
	defer globalData.RUnlock()

	record := globalData.policies[key][passenger]
	if nil == record {
		return 0
	}
	return record.Paid
}

// Custody - total funds held by the ledger
func Custody() currency.Amount {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.custody
}

// fetch or create the per-passenger withdrawal mutex
func withdrawalSection(passenger identity.Identity) *sync.Mutex {
	globalData.Lock()
	defer globalData.Unlock()

	if nil == globalData.withdrawals {
		return &sync.Mutex{}
	}

	section, ok := globalData.withdrawals[passenger]
	if !ok {
		section = &sync.Mutex{}
		globalData.withdrawals[passenger] = section
	}
	return section
}

// write one policy through to the pool, keyed passenger||flight
func storePolicy(record *policyData) {
	packed, err := json.Marshal(record)
	if nil != err {
		logger.Panicf("insurance.storePolicy marshal error: %s", err)
	}
	key := append(record.Passenger.Bytes(), record.FlightKey.Bytes()...)
	storage.Pool.Policies.Put(key, packed)
}

// write one credit balance through to the pool
func storeCredit(passenger identity.Identity, amount currency.Amount) {
	packed, _ := amount.MarshalText()
	storage.Pool.Credits.Put(passenger.Bytes(), packed)
}
