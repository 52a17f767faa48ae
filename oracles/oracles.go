// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package oracles - the flight status consensus engine
//
// a status request is addressed to one shard index; only oracles that
// were assigned that index at registration may answer it.  three
// matching answers close the request, finalise the flight status and,
// for an airline-fault delay, credit the insured passengers.
//
// a response for an unassigned index or an already closed request is
// expected traffic, not an error: independent agents cannot know each
// other's shard assignments, so they probe with every index they hold.
package oracles

import (
	"encoding/binary"
	"encoding/json"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/currency"
	"github.com/alexanderludwig/FlightSurety/fault"
	"github.com/alexanderludwig/FlightSurety/flight"
	"github.com/alexanderludwig/FlightSurety/identity"
	"github.com/alexanderludwig/FlightSurety/insurance"
	"github.com/alexanderludwig/FlightSurety/messagebus"
	"github.com/alexanderludwig/FlightSurety/mode"
	"github.com/alexanderludwig/FlightSurety/storage"
)

// RegistrationFee - exact fee to register an oracle
const RegistrationFee = currency.Unit

// MinResponses - matching responses needed to finalise
const MinResponses = 3

// IndexDomain - shard indices are drawn from [0, IndexDomain)
const IndexDomain = 10

// IndexCount - shard indices held by each oracle
const IndexCount = 3

// component name on the storage allow-list and finaliser lists
const storageName = "oracles"

// persisted oracle assignment
type oracleData struct {
	Indexes [IndexCount]int `json:"indexes"`
}

// one open or closed status request
type requestKey struct {
	flightKey flight.Key
	index     int
}

type requestData struct {
	airline   identity.Identity
	code      string
	timestamp int64
	open      bool

	// status code → set of oracles that reported it
	responses map[flight.Status]map[identity.Identity]struct{}
}

var globalData struct {
	sync.RWMutex
	log      *logger.L
	source   IndexSource
	oracles  map[identity.Identity]*oracleData
	requests map[requestKey]*requestData
	fees     currency.Amount

	// set once during initialise
	initialised bool
}

// Initialise - start the engine, reloading oracle assignments
//
// a nil source selects the production pseudo-random source
func Initialise(source IndexSource) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("oracles")
	globalData.log.Info("starting…")

	if nil == source {
		source = newPseudoRandomSource()
	}
	globalData.source = source
	globalData.oracles = make(map[identity.Identity]*oracleData)
	globalData.requests = make(map[requestKey]*requestData)
	globalData.fees = 0

	cursor := storage.Pool.Oracles.NewFetchCursor()
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
				globalData.log.Criticalf("corrupt oracle key: %x", e.Key)
				return fault.InvalidIdentity
			}
			copy(id[:], e.Key)

			record := &oracleData{}
			if err := json.Unmarshal(e.Value, record); nil != err {
				globalData.log.Criticalf("corrupt oracle record: %x  error: %s", e.Value, err)
				return err
			}
			globalData.oracles[id] = record
		}
	}
	globalData.log.Infof("loaded %d oracles", len(globalData.oracles))

	globalData.initialised = true
	return nil
}

// Finalise - stop the engine
//
// open requests are volatile and vanish here: a request that never
// reached quorum before shutdown has to be fetched again
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.oracles = nil
	globalData.requests = nil
	globalData.source = nil
	globalData.initialised = false
	globalData.log.Flush()

	return nil
}

// Register - enrol an oracle and assign its three shard indices
//
// the fee must match exactly and is retained by the system
func Register(sender identity.Identity, fee currency.Amount) error {
	if mode.IsNot(mode.Normal) {
		return fault.NotOperational
	}
	if !storage.IsAuthorised(storageName) {
		return fault.NotAuthorised
	}
	if sender.IsNil() {
		return fault.InvalidIdentity
	}
	if RegistrationFee != fee {
		return fault.InvalidRegistrationFee
	}

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	if _, ok := globalData.oracles[sender]; ok {
		return fault.OracleAlreadyRegistered
	}

	record := &oracleData{
		Indexes: assignIndexes(sender),
	}
	globalData.oracles[sender] = record
	globalData.fees += fee
	store(sender, record)

	globalData.log.Infof("registered: %s with indexes %v", sender, record.Indexes)
	return nil
}

// Indexes - the shard indices assigned to an oracle
func Indexes(sender identity.Identity) ([IndexCount]int, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	record, ok := globalData.oracles[sender]
	if !ok {
		return [IndexCount]int{}, fault.OracleNotRegistered
	}
	return record.Indexes, nil
}

// FetchFlightStatus - open a status request for a flight
//
// one shard index is drawn for the request; if that (flight, index)
// pair already has an open request no new one is created, but the
// notification is re-broadcast so agents get another chance to see it.
// returns the index the request is addressed to.
func FetchFlightStatus(airline identity.Identity, code string, timestamp int64, caller identity.Identity) (int, error) {
	if mode.IsNot(mode.Normal) {
		return 0, fault.NotOperational
	}
	if !storage.IsAuthorised(storageName) {
		return 0, fault.NotAuthorised
	}
	if caller.IsNil() {
		return 0, fault.InvalidIdentity
	}

	key := flight.MakeKey(airline, code, timestamp)
	if !flight.Exists(key) {
		return 0, fault.FlightNotFound
	}

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return 0, fault.NotInitialised
	}

	index := globalData.source.Generate(caller, 1)[0] % IndexDomain
	rk := requestKey{
		flightKey: key,
		index:     index,
	}

	request, ok := globalData.requests[rk]
	if !ok || !request.open {
		request = &requestData{
			airline:   airline,
			code:      code,
			timestamp: timestamp,
			open:      true,
			responses: make(map[flight.Status]map[identity.Identity]struct{}),
		}
		globalData.requests[rk] = request
		globalData.log.Infof("request opened: %s index %d", key, index)
	}

	messagebus.Bus.Broadcast.Send("request",
		airline.Bytes(), []byte(code), timestampBytes(timestamp), []byte{byte(index)})

	return index, nil
}

// SubmitResponse - record one oracle's answer to an open request
//
// a registered oracle answering an index it does not hold, or a
// request that is not open, changes nothing and succeeds: such
// submissions are the normal consequence of agents probing every index
// they hold.  the third matching answer finalises the flight.
func SubmitResponse(sender identity.Identity, index int, airline identity.Identity,
	code string, timestamp int64, status flight.Status) error {

	if mode.IsNot(mode.Normal) {
		return fault.NotOperational
	}
	if !storage.IsAuthorised(storageName) {
		return fault.NotAuthorised
	}
	if !status.IsTerminal() {
		return fault.InvalidStatusCode
	}

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	oracle, ok := globalData.oracles[sender]
	if !ok {
		return fault.NotAuthorised
	}
	if !holdsIndex(oracle, index) {
		return nil // deliberate no-op
	}

	key := flight.MakeKey(airline, code, timestamp)
	rk := requestKey{
		flightKey: key,
		index:     index,
	}
	request, ok := globalData.requests[rk]
	if !ok || !request.open {
		return nil // deliberate no-op
	}

	reporters, ok := request.responses[status]
	if !ok {
		reporters = make(map[identity.Identity]struct{})
		request.responses[status] = reporters
	}
	if _, ok := reporters[sender]; ok {
		return nil // set semantics: resubmission has no weight
	}
	reporters[sender] = struct{}{}

	globalData.log.Debugf("response: %s index %d status %s (%d of %d)",
		key, index, status, len(reporters), MinResponses)

	if len(reporters) < MinResponses {
		return nil
	}

	// quorum reached: close first so a cascade failure cannot re-fire
	request.open = false

	if err := flight.SetStatus(storageName, key, status); nil != err {
		globalData.log.Criticalf("finalise %s status %s error: %s", key, status, err)
		return err
	}
	if flight.LateAirline == status {
		if err := insurance.CreditInsurees(storageName, key); nil != err {
			globalData.log.Criticalf("credit %s error: %s", key, err)
			return err
		}
	}

	globalData.log.Infof("finalised: %s → %s by index %d", key, status, index)

	messagebus.Bus.Broadcast.Send("status",
		airline.Bytes(), []byte(code), timestampBytes(timestamp), []byte{byte(status)})

	return nil
}

// IsRequestOpen - check an open request, for queries and tests
func IsRequestOpen(key flight.Key, index int) bool {
	globalData.RLock()
	defer globalData.RUnlock()

	request, ok := globalData.requests[requestKey{flightKey: key, index: index}]
	return ok && request.open
}

// OracleCount - number of registered oracles
func OracleCount() int {
	globalData.RLock()
	defer globalData.RUnlock()
	return len(globalData.oracles)
}

// FeesRetained - registration fees held by the system
func FeesRetained() currency.Amount {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.fees
}

// draw three distinct indices, lock already held
func assignIndexes(sender identity.Identity) [IndexCount]int {
	var indexes [IndexCount]int
	assigned := 0
	// a bounded number of draws: with ten indices a duplicate run this
	// long means the source is broken, not unlucky
	for attempts := 0; attempts < 100 && assigned < IndexCount; attempts += 1 {
		candidate := globalData.source.Generate(sender, 1)[0] % IndexDomain
		duplicate := false
		for i := 0; i < assigned; i += 1 {
			if indexes[i] == candidate {
				duplicate = true
				break
			}
		}
		if !duplicate {
			indexes[assigned] = candidate
			assigned += 1
		}
	}
	for assigned < IndexCount {
		// fall back to sequential fill, keeps registration total
		indexes[assigned] = (indexes[0] + assigned) % IndexDomain
		assigned += 1
	}
	return indexes
}

func holdsIndex(oracle *oracleData, index int) bool {
	for _, assigned := range oracle.Indexes {
		if assigned == index {
			return true
		}
	}
	return false
}

// write one oracle record through to the pool
func store(id identity.Identity, record *oracleData) {
	packed, err := json.Marshal(record)
	if nil != err {
		logger.Panicf("oracles.store marshal error: %s", err)
	}
	storage.Pool.Oracles.Put(id.Bytes(), packed)
}

// timestamp as 8 big endian bytes for notifications
func timestampBytes(timestamp int64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, uint64(timestamp))
	return buffer
}
