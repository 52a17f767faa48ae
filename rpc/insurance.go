// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/currency"
	"github.com/alexanderludwig/FlightSurety/flight"
	"github.com/alexanderludwig/FlightSurety/identity"
	"github.com/alexanderludwig/FlightSurety/insurance"
)

// Insurance - the policy and credit service
type Insurance struct {
	log     *logger.L
	limiter *rate.Limiter
}

// NewInsurance - create the service
func NewInsurance(log *logger.L) *Insurance {
	return &Insurance{
		log:     log,
		limiter: newServiceLimiter(),
	}
}

// ---

// InsuranceBuyArguments - purchase or top up a policy
type InsuranceBuyArguments struct {
	Passenger identity.Identity `json:"passenger"`
	Airline   identity.Identity `json:"airline"`
	Code      string            `json:"code"`
	Timestamp int64             `json:"timestamp"`
	Amount    currency.Amount   `json:"amount"`
}

// InsuranceBuyReply - accumulated premium after the purchase
type InsuranceBuyReply struct {
	Key  flight.Key      `json:"key"`
	Paid currency.Amount `json:"paid"`
}

// Buy - purchase or top up insurance on a flight
func (ins *Insurance) Buy(arguments *InsuranceBuyArguments, reply *InsuranceBuyReply) error {
	if err := rateLimit(ins.limiter); nil != err {
		return err
	}
	ins.log.Infof("Insurance.Buy: %v", arguments)

	key := flight.MakeKey(arguments.Airline, arguments.Code, arguments.Timestamp)
	if err := insurance.Buy(arguments.Passenger, key, arguments.Amount); nil != err {
		return err
	}
	reply.Key = key
	reply.Paid = insurance.PaidPremium(arguments.Passenger, key)
	return nil
}

// ---

// InsuranceWithdrawArguments - pay out a passenger's credit
type InsuranceWithdrawArguments struct {
	Passenger identity.Identity `json:"passenger"`
}

// InsuranceWithdrawReply - the transferred amount, zero on repeat
type InsuranceWithdrawReply struct {
	Amount currency.Amount `json:"amount"`
}

// Withdraw - pay out a passenger's accumulated credit
func (ins *Insurance) Withdraw(arguments *InsuranceWithdrawArguments, reply *InsuranceWithdrawReply) error {
	if err := rateLimit(ins.limiter); nil != err {
		return err
	}
	ins.log.Infof("Insurance.Withdraw: %v", arguments)

	amount, err := insurance.Withdraw(arguments.Passenger)
	if nil != err {
		return err
	}
	reply.Amount = amount
	return nil
}

// ---

// InsuranceCreditArguments - query a passenger's balance
type InsuranceCreditArguments struct {
	Passenger identity.Identity `json:"passenger"`
}

// InsuranceCreditReply - current withdrawable balance
type InsuranceCreditReply struct {
	Credit currency.Amount `json:"credit"`
}

// Credit - current withdrawable balance of a passenger
func (ins *Insurance) Credit(arguments *InsuranceCreditArguments, reply *InsuranceCreditReply) error {
	if err := rateLimit(ins.limiter); nil != err {
		return err
	}

	reply.Credit = insurance.AccountCredit(arguments.Passenger)
	return nil
}
