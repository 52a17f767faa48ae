// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flight_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/alexanderludwig/FlightSurety/fault"
	"github.com/alexanderludwig/FlightSurety/flight"
	"github.com/alexanderludwig/FlightSurety/identity"
	"github.com/alexanderludwig/FlightSurety/membership"
	"github.com/alexanderludwig/FlightSurety/mode"
	"github.com/alexanderludwig/FlightSurety/storage"
)

const (
	testingDirName   = "testing"
	databaseFileName = testingDirName + "/test.leveldb"

	flightCode = "ND1309"
	departure  = int64(1554000000)
)

var (
	airline   = makeIdentity(0x11)
	passenger = makeIdentity(0x22)
)

func makeIdentity(b byte) identity.Identity {
	var id identity.Identity
	id[0] = b
	return id
}

func setup(t *testing.T) {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)

	_ = mode.Initialise()

	if err := storage.Initialise(databaseFileName); nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
	for _, name := range []string{"membership", "flight"} {
		if err := storage.Authorise(name); nil != err {
			t.Fatalf("storage authorise error: %s", err)
		}
	}
	if err := membership.Initialise(airline); nil != err {
		t.Fatalf("membership initialise error: %s", err)
	}
	if err := membership.ProvideFunding(airline, membership.FundingThreshold); nil != err {
		t.Fatalf("funding error: %s", err)
	}
	if err := flight.Initialise(); nil != err {
		t.Fatalf("flight initialise error: %s", err)
	}
}

func teardown(t *testing.T) {
	_ = flight.Finalise()
	_ = membership.Finalise()
	_ = storage.Finalise()
	_ = mode.Finalise()
	removeFiles()
}

func removeFiles() {
	_ = os.RemoveAll(testingDirName)
}

func TestMakeKey(t *testing.T) {
	key := flight.MakeKey(airline, flightCode, departure)
	again := flight.MakeKey(airline, flightCode, departure)
	assert.Equal(t, key, again, "key not deterministic")

	other := flight.MakeKey(airline, flightCode, departure+3600)
	assert.NotEqual(t, key, other, "different timestamps share a key")

	text, err := key.MarshalText()
	assert.Nil(t, err, "wrong marshal")
	var decoded flight.Key
	err = decoded.UnmarshalText(text)
	assert.Nil(t, err, "wrong unmarshal")
	assert.Equal(t, key, decoded, "key text round trip failed")
}

func TestRegister(t *testing.T) {
	setup(t)
	defer teardown(t)

	err := flight.Register(airline, flightCode, departure, airline)
	assert.Nil(t, err, "wrong registration")

	key := flight.MakeKey(airline, flightCode, departure)
	assert.True(t, flight.Exists(key), "flight not found")
	assert.Equal(t, 1, flight.Count(), "wrong flight count")

	status, err := flight.GetStatus(key)
	assert.Nil(t, err, "wrong status query")
	assert.Equal(t, flight.Unknown, status, "new flight not Unknown")

	err = flight.Register(airline, flightCode, departure, airline)
	assert.Equal(t, fault.FlightAlreadyRegistered, err, "double registration must fail")

	err = flight.Register(airline, "", departure, airline)
	assert.Equal(t, fault.InvalidFlightCode, err, "empty code must fail")
}

func TestRegisterNotParticipating(t *testing.T) {
	setup(t)
	defer teardown(t)

	err := flight.Register(airline, flightCode, departure, passenger)
	assert.Equal(t, fault.NotParticipating, err, "unfunded sender must fail")
	assert.Equal(t, 0, flight.Count(), "wrong flight count")
}

func TestSetStatus(t *testing.T) {
	setup(t)
	defer teardown(t)

	err := flight.Register(airline, flightCode, departure, airline)
	assert.Nil(t, err, "wrong registration")
	key := flight.MakeKey(airline, flightCode, departure)

	// only listed finalisers may write a status
	err = flight.SetStatus("intruder", key, flight.OnTime)
	assert.Equal(t, fault.NotAuthorised, err, "unauthorised finaliser accepted")

	flight.AuthoriseFinaliser("testing")

	err = flight.SetStatus("testing", key, flight.Unknown)
	assert.Equal(t, fault.InvalidMode, err, "non-terminal status accepted")

	err = flight.SetStatus("testing", key, flight.OnTime)
	assert.Nil(t, err, "wrong finalisation")
	status, err := flight.GetStatus(key)
	assert.Nil(t, err, "wrong status query")
	assert.Equal(t, flight.OnTime, status, "wrong status")

	// a finalised flight keeps its first status
	err = flight.SetStatus("testing", key, flight.LateAirline)
	assert.Nil(t, err, "wrong duplicate finalisation")
	status, _ = flight.GetStatus(key)
	assert.Equal(t, flight.OnTime, status, "status rewritten")
}

func TestStatusOfUnknownFlight(t *testing.T) {
	setup(t)
	defer teardown(t)

	key := flight.MakeKey(airline, "XX0000", departure)
	_, err := flight.GetStatus(key)
	assert.Equal(t, fault.FlightNotFound, err, "missing flight must fail")

	flight.AuthoriseFinaliser("testing")
	err = flight.SetStatus("testing", key, flight.OnTime)
	assert.Equal(t, fault.FlightNotFound, err, "missing flight must fail")
}

func TestReload(t *testing.T) {
	setup(t)
	defer teardown(t)

	err := flight.Register(airline, flightCode, departure, airline)
	assert.Nil(t, err, "wrong registration")
	key := flight.MakeKey(airline, flightCode, departure)

	flight.AuthoriseFinaliser("testing")
	err = flight.SetStatus("testing", key, flight.LateWeather)
	assert.Nil(t, err, "wrong finalisation")

	// restart the registry on the same database
	err = flight.Finalise()
	assert.Nil(t, err, "wrong finalise")
	err = flight.Initialise()
	assert.Nil(t, err, "wrong initialise")

	assert.True(t, flight.Exists(key), "flight lost")
	status, err := flight.GetStatus(key)
	assert.Nil(t, err, "wrong status query")
	assert.Equal(t, flight.LateWeather, status, "status lost")
}
