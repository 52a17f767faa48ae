// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/currency"
	"github.com/alexanderludwig/FlightSurety/fault"
	"github.com/alexanderludwig/FlightSurety/identity"
	"github.com/alexanderludwig/FlightSurety/membership"
)

// Airline - the airline registry service
type Airline struct {
	log     *logger.L
	limiter *rate.Limiter
}

// NewAirline - create the service
func NewAirline(log *logger.L) *Airline {
	return &Airline{
		log:     log,
		limiter: newServiceLimiter(),
	}
}

// ---

// AirlineRegisterArguments - propose or register a candidate airline
type AirlineRegisterArguments struct {
	Candidate identity.Identity `json:"candidate"`
	Sender    identity.Identity `json:"sender"`
}

// AirlineRegisterReply - result of a registration attempt
//
// a candidate short of the required majority is not an error: the
// reply carries the current confirmation count instead
type AirlineRegisterReply struct {
	Registered    bool `json:"registered"`
	Confirmations int  `json:"confirmations"`
}

// Register - propose or register a candidate airline
func (airline *Airline) Register(arguments *AirlineRegisterArguments, reply *AirlineRegisterReply) error {
	if err := rateLimit(airline.limiter); nil != err {
		return err
	}
	airline.log.Infof("Airline.Register: %v", arguments)

	err := membership.ProposeOrRegister(arguments.Candidate, arguments.Sender)
	if fault.InsufficientConfirmations == err {
		reply.Registered = false
		reply.Confirmations = membership.Confirmations(arguments.Candidate)
		return nil
	}
	if nil != err {
		return err
	}
	reply.Registered = true
	return nil
}

// ---

// AirlineConfirmArguments - endorse a candidate airline
type AirlineConfirmArguments struct {
	Candidate identity.Identity `json:"candidate"`
	Sender    identity.Identity `json:"sender"`
}

// AirlineConfirmReply - confirmation count after the endorsement
type AirlineConfirmReply struct {
	Confirmations int `json:"confirmations"`
}

// Confirm - endorse a candidate airline
func (airline *Airline) Confirm(arguments *AirlineConfirmArguments, reply *AirlineConfirmReply) error {
	if err := rateLimit(airline.limiter); nil != err {
		return err
	}
	airline.log.Infof("Airline.Confirm: %v", arguments)

	if err := membership.Confirm(arguments.Candidate, arguments.Sender); nil != err {
		return err
	}
	reply.Confirmations = membership.Confirmations(arguments.Candidate)
	return nil
}

// ---

// AirlineFundArguments - add to an airline's funded balance
type AirlineFundArguments struct {
	Sender identity.Identity `json:"sender"`
	Amount currency.Amount   `json:"amount"`
}

// AirlineFundReply - balance after the deposit
type AirlineFundReply struct {
	Balance       currency.Amount `json:"balance"`
	Participating bool            `json:"participating"`
}

// Fund - add to an airline's funded balance
func (airline *Airline) Fund(arguments *AirlineFundArguments, reply *AirlineFundReply) error {
	if err := rateLimit(airline.limiter); nil != err {
		return err
	}
	airline.log.Infof("Airline.Fund: %v", arguments)

	if err := membership.ProvideFunding(arguments.Sender, arguments.Amount); nil != err {
		return err
	}
	reply.Balance = membership.Balance(arguments.Sender)
	reply.Participating = membership.IsParticipating(arguments.Sender)
	return nil
}

// ---

// AirlineInfoArguments - query one airline
type AirlineInfoArguments struct {
	Airline identity.Identity `json:"airline"`
}

// AirlineInfoReply - current state of one airline
type AirlineInfoReply struct {
	Registered    bool            `json:"registered"`
	Participating bool            `json:"participating"`
	Balance       currency.Amount `json:"balance"`
	Confirmations int             `json:"confirmations"`
}

// Info - query one airline
func (airline *Airline) Info(arguments *AirlineInfoArguments, reply *AirlineInfoReply) error {
	if err := rateLimit(airline.limiter); nil != err {
		return err
	}

	reply.Registered = membership.IsRegistered(arguments.Airline)
	reply.Participating = membership.IsParticipating(arguments.Airline)
	reply.Balance = membership.Balance(arguments.Airline)
	reply.Confirmations = membership.Confirmations(arguments.Airline)
	return nil
}
