// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package insurance_test

import (
	"os"
	"sync"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/alexanderludwig/FlightSurety/currency"
	"github.com/alexanderludwig/FlightSurety/fault"
	"github.com/alexanderludwig/FlightSurety/flight"
	"github.com/alexanderludwig/FlightSurety/identity"
	"github.com/alexanderludwig/FlightSurety/insurance"
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
	other     = makeIdentity(0x33)
)

func makeIdentity(b byte) identity.Identity {
	var id identity.Identity
	id[0] = b
	return id
}

func setup(t *testing.T) flight.Key {
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
	for _, name := range []string{"membership", "flight", "insurance"} {
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
	if err := insurance.Initialise(); nil != err {
		t.Fatalf("insurance initialise error: %s", err)
	}
	flight.AuthoriseFinaliser("testing")
	insurance.AuthoriseFinaliser("testing")

	if err := flight.Register(airline, flightCode, departure, airline); nil != err {
		t.Fatalf("flight registration error: %s", err)
	}
	return flight.MakeKey(airline, flightCode, departure)
}

func teardown(t *testing.T) {
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

func TestBuy(t *testing.T) {
	key := setup(t)
	defer teardown(t)

	premium := currency.Unit / 2
	err := insurance.Buy(passenger, key, premium)
	assert.Nil(t, err, "wrong purchase")
	assert.Equal(t, premium, insurance.PaidPremium(passenger, key), "wrong premium")
	assert.Equal(t, premium, insurance.Custody(), "wrong custody")

	err = insurance.Buy(passenger, key, 0)
	assert.Equal(t, fault.InvalidAmount, err, "zero premium must fail")

	missing := flight.MakeKey(airline, "XX0000", departure)
	err = insurance.Buy(passenger, missing, premium)
	assert.Equal(t, fault.FlightNotFound, err, "missing flight must fail")
}

func TestPurchaseCap(t *testing.T) {
	key := setup(t)
	defer teardown(t)

	err := insurance.Buy(passenger, key, 8*currency.Unit/10)
	assert.Nil(t, err, "wrong purchase")

	// topping up past the cap must fail without changing the policy
	err = insurance.Buy(passenger, key, 3*currency.Unit/10)
	assert.Equal(t, fault.PurchaseCapExceeded, err, "cap not enforced")
	assert.Equal(t, 8*currency.Unit/10, insurance.PaidPremium(passenger, key), "failed top up recorded")

	err = insurance.Buy(passenger, key, 2*currency.Unit/10)
	assert.Nil(t, err, "wrong top up")
	assert.Equal(t, insurance.PurchaseCap, insurance.PaidPremium(passenger, key), "wrong premium")
}

func TestBuyAfterFinalisation(t *testing.T) {
	key := setup(t)
	defer teardown(t)

	err := flight.SetStatus("testing", key, flight.OnTime)
	assert.Nil(t, err, "wrong finalisation")

	err = insurance.Buy(passenger, key, currency.Unit/2)
	assert.Equal(t, fault.FlightNotPending, err, "purchase on finalised flight accepted")
}

// purchases racing with finalisation must never leave an uncreditable
// policy: each buyer either loses to the terminal status or ends up
// credited once the finalisation cascade completes
func TestBuyDuringFinalisation(t *testing.T) {
	key := setup(t)
	defer teardown(t)

	const buyers = 8
	results := make([]error, buyers)

	var wg sync.WaitGroup
	for i := 0; i < buyers; i += 1 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = insurance.Buy(makeIdentity(byte(0x40+i)), key, currency.Unit/2)
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := flight.SetStatus("testing", key, flight.LateAirline); nil != err {
			t.Errorf("wrong finalisation: %s", err)
		}
		if err := insurance.CreditInsurees("testing", key); nil != err {
			t.Errorf("wrong crediting: %s", err)
		}
	}()
	wg.Wait()

	payout := (currency.Unit / 2).Payout()
	for i := 0; i < buyers; i += 1 {
		buyer := makeIdentity(byte(0x40 + i))
		switch results[i] {
		case nil:
			assert.Equal(t, payout, insurance.AccountCredit(buyer), "accepted policy not credited")
		case fault.FlightNotPending:
			assert.Equal(t, currency.Amount(0), insurance.AccountCredit(buyer), "rejected policy credited")
			assert.Equal(t, currency.Amount(0), insurance.PaidPremium(buyer, key), "rejected policy recorded")
		default:
			t.Errorf("%d: wrong purchase error: %s", i, results[i])
		}
	}
}

func TestCreditAndWithdraw(t *testing.T) {
	key := setup(t)
	defer teardown(t)

	premium := currency.Unit / 2
	err := insurance.Buy(passenger, key, premium)
	assert.Nil(t, err, "wrong purchase")

	err = insurance.CreditInsurees("intruder", key)
	assert.Equal(t, fault.NotAuthorised, err, "unauthorised finaliser accepted")

	err = insurance.CreditInsurees("testing", key)
	assert.Nil(t, err, "wrong credit")

	payout := premium.Payout()
	assert.Equal(t, payout, insurance.AccountCredit(passenger), "wrong credit")
	assert.Equal(t, payout, insurance.Custody(), "wrong custody")

	// crediting the same flight again must not pay twice
	err = insurance.CreditInsurees("testing", key)
	assert.Nil(t, err, "wrong duplicate credit")
	assert.Equal(t, payout, insurance.AccountCredit(passenger), "policy credited twice")

	amount, err := insurance.Withdraw(passenger)
	assert.Nil(t, err, "wrong withdrawal")
	assert.Equal(t, payout, amount, "wrong payout")
	assert.True(t, insurance.AccountCredit(passenger).IsZero(), "credit not zeroed")
	assert.True(t, insurance.Custody().IsZero(), "wrong custody")

	// a second withdrawal transfers nothing
	amount, err = insurance.Withdraw(passenger)
	assert.Nil(t, err, "wrong withdrawal")
	assert.True(t, amount.IsZero(), "second withdrawal transferred funds")
}

func TestCreditSkipsCreditedPolicies(t *testing.T) {
	key := setup(t)
	defer teardown(t)

	err := insurance.Buy(passenger, key, currency.Unit/2)
	assert.Nil(t, err, "wrong purchase")
	err = insurance.CreditInsurees("testing", key)
	assert.Nil(t, err, "wrong credit")

	// a settled policy cannot be topped up for another round
	err = insurance.Buy(passenger, key, currency.Unit/4)
	assert.Equal(t, fault.FlightNotPending, err, "top up of settled policy accepted")

	// a later purchase by another passenger is still credited
	err = insurance.Buy(other, key, currency.Unit/4)
	assert.Nil(t, err, "wrong purchase")
	err = insurance.CreditInsurees("testing", key)
	assert.Nil(t, err, "wrong credit")

	assert.Equal(t, (currency.Unit / 2).Payout(), insurance.AccountCredit(passenger), "first passenger paid twice")
	assert.Equal(t, (currency.Unit / 4).Payout(), insurance.AccountCredit(other), "second passenger not credited")
}

func TestReload(t *testing.T) {
	key := setup(t)
	defer teardown(t)

	premium := currency.Unit / 2
	err := insurance.Buy(passenger, key, premium)
	assert.Nil(t, err, "wrong purchase")
	err = insurance.Buy(other, key, currency.Unit/4)
	assert.Nil(t, err, "wrong purchase")
	err = insurance.CreditInsurees("testing", key)
	assert.Nil(t, err, "wrong credit")

	withdrawn, err := insurance.Withdraw(other)
	assert.Nil(t, err, "wrong withdrawal")
	assert.False(t, withdrawn.IsZero(), "nothing withdrawn")

	// restart the ledger on the same database
	err = insurance.Finalise()
	assert.Nil(t, err, "wrong finalise")
	err = insurance.Initialise()
	assert.Nil(t, err, "wrong initialise")
	insurance.AuthoriseFinaliser("testing")

	assert.Equal(t, premium.Payout(), insurance.AccountCredit(passenger), "credit lost")
	assert.True(t, insurance.AccountCredit(other).IsZero(), "withdrawn credit restored")
	assert.Equal(t, premium, insurance.PaidPremium(passenger, key), "premium lost")
	assert.Equal(t, premium.Payout(), insurance.Custody(), "wrong custody")

	// the reloaded policy is still marked credited
	err = insurance.CreditInsurees("testing", key)
	assert.Nil(t, err, "wrong credit")
	assert.Equal(t, premium.Payout(), insurance.AccountCredit(passenger), "policy credited twice")
}
