// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/flight"
	"github.com/alexanderludwig/FlightSurety/identity"
)

// Flight - the flight registry service
type Flight struct {
	log     *logger.L
	limiter *rate.Limiter
}

// NewFlight - create the service
func NewFlight(log *logger.L) *Flight {
	return &Flight{
		log:     log,
		limiter: newServiceLimiter(),
	}
}

// ---

// FlightRegisterArguments - register a flight
type FlightRegisterArguments struct {
	Airline   identity.Identity `json:"airline"`
	Code      string            `json:"code"`
	Timestamp int64             `json:"timestamp"`
	Sender    identity.Identity `json:"sender"`
}

// FlightRegisterReply - the derived flight key
type FlightRegisterReply struct {
	Key flight.Key `json:"key"`
}

// Register - record a new flight with status Unknown
func (f *Flight) Register(arguments *FlightRegisterArguments, reply *FlightRegisterReply) error {
	if err := rateLimit(f.limiter); nil != err {
		return err
	}
	f.log.Infof("Flight.Register: %v", arguments)

	err := flight.Register(arguments.Airline, arguments.Code, arguments.Timestamp, arguments.Sender)
	if nil != err {
		return err
	}
	reply.Key = flight.MakeKey(arguments.Airline, arguments.Code, arguments.Timestamp)
	return nil
}

// ---

// FlightStatusArguments - query a flight by its triple
type FlightStatusArguments struct {
	Airline   identity.Identity `json:"airline"`
	Code      string            `json:"code"`
	Timestamp int64             `json:"timestamp"`
}

// FlightStatusReply - key, numeric code and status name
type FlightStatusReply struct {
	Key    flight.Key    `json:"key"`
	Status flight.Status `json:"status"`
	Name   string        `json:"name"`
}

// Status - current status of a flight
func (f *Flight) Status(arguments *FlightStatusArguments, reply *FlightStatusReply) error {
	if err := rateLimit(f.limiter); nil != err {
		return err
	}

	key := flight.MakeKey(arguments.Airline, arguments.Code, arguments.Timestamp)
	status, err := flight.GetStatus(key)
	if nil != err {
		return err
	}
	reply.Key = key
	reply.Status = status
	reply.Name = status.String()
	return nil
}
