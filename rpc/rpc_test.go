// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc_test

import (
	"os"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/alexanderludwig/FlightSurety/currency"
	"github.com/alexanderludwig/FlightSurety/fault"
	"github.com/alexanderludwig/FlightSurety/flight"
	"github.com/alexanderludwig/FlightSurety/identity"
	"github.com/alexanderludwig/FlightSurety/insurance"
	"github.com/alexanderludwig/FlightSurety/membership"
	"github.com/alexanderludwig/FlightSurety/mode"
	"github.com/alexanderludwig/FlightSurety/oracles"
	"github.com/alexanderludwig/FlightSurety/rpc"
	"github.com/alexanderludwig/FlightSurety/storage"
)

const (
	testingDirName   = "testing"
	databaseFileName = testingDirName + "/test.leveldb"

	flightCode = "ND1309"
	departure  = int64(1554000000)
)

var (
	owner     = makeIdentity(0x0a)
	airlineID = makeIdentity(0x11)
	bravo     = makeIdentity(0x12)
	passenger = makeIdentity(0x22)
)

func makeIdentity(b byte) identity.Identity {
	var id identity.Identity
	id[0] = b
	return id
}

// sequential index source so oracle results are predictable
type sequentialSource struct {
	next int
}

func (s *sequentialSource) Generate(caller identity.Identity, count int) []int {
	out := make([]int, count)
	for i := 0; i < count; i += 1 {
		out[i] = s.next % 10
		s.next += 1
	}
	return out
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
	for _, name := range []string{"membership", "flight", "insurance", "oracles"} {
		if err := storage.Authorise(name); nil != err {
			t.Fatalf("storage authorise error: %s", err)
		}
	}
	if err := membership.Initialise(airlineID); nil != err {
		t.Fatalf("membership initialise error: %s", err)
	}
	if err := flight.Initialise(); nil != err {
		t.Fatalf("flight initialise error: %s", err)
	}
	if err := insurance.Initialise(); nil != err {
		t.Fatalf("insurance initialise error: %s", err)
	}
	if err := oracles.Initialise(&sequentialSource{}); nil != err {
		t.Fatalf("oracles initialise error: %s", err)
	}
	flight.AuthoriseFinaliser("oracles")
	insurance.AuthoriseFinaliser("oracles")
}

func teardown(t *testing.T) {
	_ = oracles.Finalise()
	_ = insurance.Finalise()
	_ = flight.Finalise()
	_ = membership.Finalise()
	_ = storage.Finalise()
	_ = mode.Finalise()
	removeFiles()
}

func removeFiles() {
	_ = os.RemoveAll(testingDirName)
}

func testLog() *logger.L {
	return logger.New("testing")
}

func TestAirlineService(t *testing.T) {
	setup(t)
	defer teardown(t)

	service := rpc.NewAirline(testLog())

	var fundReply rpc.AirlineFundReply
	err := service.Fund(&rpc.AirlineFundArguments{
		Sender: airlineID,
		Amount: membership.FundingThreshold,
	}, &fundReply)
	assert.Nil(t, err, "wrong fund")
	assert.True(t, fundReply.Participating, "airline not participating")
	assert.Equal(t, membership.FundingThreshold, fundReply.Balance, "wrong balance")

	var registerReply rpc.AirlineRegisterReply
	err = service.Register(&rpc.AirlineRegisterArguments{
		Candidate: bravo,
		Sender:    airlineID,
	}, &registerReply)
	assert.Nil(t, err, "wrong register")
	assert.True(t, registerReply.Registered, "candidate not registered")

	var infoReply rpc.AirlineInfoReply
	err = service.Info(&rpc.AirlineInfoArguments{Airline: bravo}, &infoReply)
	assert.Nil(t, err, "wrong info")
	assert.True(t, infoReply.Registered, "wrong info registration")
	assert.False(t, infoReply.Participating, "wrong info participation")
}

func TestFlightAndInsuranceServices(t *testing.T) {
	setup(t)
	defer teardown(t)

	airlineService := rpc.NewAirline(testLog())
	flightService := rpc.NewFlight(testLog())
	insuranceService := rpc.NewInsurance(testLog())

	var fundReply rpc.AirlineFundReply
	err := airlineService.Fund(&rpc.AirlineFundArguments{
		Sender: airlineID,
		Amount: membership.FundingThreshold,
	}, &fundReply)
	assert.Nil(t, err, "wrong fund")

	var registerReply rpc.FlightRegisterReply
	err = flightService.Register(&rpc.FlightRegisterArguments{
		Airline:   airlineID,
		Code:      flightCode,
		Timestamp: departure,
		Sender:    airlineID,
	}, &registerReply)
	assert.Nil(t, err, "wrong flight register")
	assert.Equal(t, flight.MakeKey(airlineID, flightCode, departure), registerReply.Key, "wrong key")

	var statusReply rpc.FlightStatusReply
	err = flightService.Status(&rpc.FlightStatusArguments{
		Airline:   airlineID,
		Code:      flightCode,
		Timestamp: departure,
	}, &statusReply)
	assert.Nil(t, err, "wrong flight status")
	assert.Equal(t, flight.Unknown, statusReply.Status, "wrong status")
	assert.Equal(t, "Unknown", statusReply.Name, "wrong status name")

	var buyReply rpc.InsuranceBuyReply
	err = insuranceService.Buy(&rpc.InsuranceBuyArguments{
		Passenger: passenger,
		Airline:   airlineID,
		Code:      flightCode,
		Timestamp: departure,
		Amount:    currency.Unit / 2,
	}, &buyReply)
	assert.Nil(t, err, "wrong buy")
	assert.Equal(t, currency.Unit/2, buyReply.Paid, "wrong premium")

	var creditReply rpc.InsuranceCreditReply
	err = insuranceService.Credit(&rpc.InsuranceCreditArguments{Passenger: passenger}, &creditReply)
	assert.Nil(t, err, "wrong credit query")
	assert.True(t, creditReply.Credit.IsZero(), "credit before settlement")
}

func TestAdminService(t *testing.T) {
	setup(t)
	defer teardown(t)

	service := rpc.NewAdmin(testLog(), owner)

	var operationalReply rpc.AdminOperationalReply
	err := service.SetOperational(&rpc.AdminOperationalArguments{
		Caller:      passenger,
		Operational: false,
	}, &operationalReply)
	assert.Equal(t, fault.NotOwner, err, "non-owner accepted")

	err = service.SetOperational(&rpc.AdminOperationalArguments{
		Caller:      owner,
		Operational: false,
	}, &operationalReply)
	assert.Nil(t, err, "wrong set operational")
	assert.False(t, operationalReply.Operational, "still operational")
	assert.True(t, mode.Is(mode.Stopped), "mode not stopped")

	var statusReply rpc.AdminStatusReply
	err = service.Status(&rpc.AdminStatusArguments{}, &statusReply)
	assert.Nil(t, err, "wrong status")
	assert.False(t, statusReply.Operational, "wrong status flag")

	err = service.SetOperational(&rpc.AdminOperationalArguments{
		Caller:      owner,
		Operational: true,
	}, &operationalReply)
	assert.Nil(t, err, "wrong set operational")
	assert.True(t, mode.Is(mode.Normal), "mode not normal")

	var authoriseReply rpc.AdminAuthoriseReply
	err = service.Deauthorise(&rpc.AdminAuthoriseArguments{
		Caller:    owner,
		Component: "insurance",
	}, &authoriseReply)
	assert.Nil(t, err, "wrong deauthorise")
	assert.False(t, authoriseReply.Authorised, "still authorised")

	err = service.Authorise(&rpc.AdminAuthoriseArguments{
		Caller:    owner,
		Component: "insurance",
	}, &authoriseReply)
	assert.Nil(t, err, "wrong authorise")
	assert.True(t, authoriseReply.Authorised, "not authorised")
}

func TestNodeService(t *testing.T) {
	setup(t)
	defer teardown(t)

	service := rpc.NewNode(testLog(), time.Now(), "1.0.0")

	var reply rpc.NodeInfoReply
	err := service.Info(&rpc.NodeInfoArguments{}, &reply)
	assert.Nil(t, err, "wrong info")
	assert.Equal(t, "1.0.0", reply.Version, "wrong version")
	assert.Equal(t, "Normal", reply.Mode, "wrong mode")
	assert.Equal(t, 1, reply.Airlines, "wrong airline count")
	assert.Equal(t, 0, reply.Flights, "wrong flight count")
}
