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
	"github.com/alexanderludwig/FlightSurety/oracles"
)

// Oracle - the consensus engine service
type Oracle struct {
	log     *logger.L
	limiter *rate.Limiter
}

// NewOracle - create the service
func NewOracle(log *logger.L) *Oracle {
	return &Oracle{
		log:     log,
		limiter: newServiceLimiter(),
	}
}

// ---

// OracleRegisterArguments - enrol an oracle
type OracleRegisterArguments struct {
	Sender identity.Identity `json:"sender"`
	Fee    currency.Amount   `json:"fee"`
}

// OracleRegisterReply - the assigned shard indices
type OracleRegisterReply struct {
	Indexes [oracles.IndexCount]int `json:"indexes"`
}

// Register - enrol an oracle and return its shard indices
func (o *Oracle) Register(arguments *OracleRegisterArguments, reply *OracleRegisterReply) error {
	if err := rateLimit(o.limiter); nil != err {
		return err
	}
	o.log.Infof("Oracle.Register: %s", arguments.Sender)

	if err := oracles.Register(arguments.Sender, arguments.Fee); nil != err {
		return err
	}
	indexes, err := oracles.Indexes(arguments.Sender)
	if nil != err {
		return err
	}
	reply.Indexes = indexes
	return nil
}

// ---

// OracleIndexesArguments - query an oracle's assignment
type OracleIndexesArguments struct {
	Sender identity.Identity `json:"sender"`
}

// OracleIndexesReply - the assigned shard indices
type OracleIndexesReply struct {
	Indexes [oracles.IndexCount]int `json:"indexes"`
}

// Indexes - the shard indices assigned to an oracle
func (o *Oracle) Indexes(arguments *OracleIndexesArguments, reply *OracleIndexesReply) error {
	if err := rateLimit(o.limiter); nil != err {
		return err
	}

	indexes, err := oracles.Indexes(arguments.Sender)
	if nil != err {
		return err
	}
	reply.Indexes = indexes
	return nil
}

// ---

// OracleFetchArguments - open a status request for a flight
type OracleFetchArguments struct {
	Airline   identity.Identity `json:"airline"`
	Code      string            `json:"code"`
	Timestamp int64             `json:"timestamp"`
	Caller    identity.Identity `json:"caller"`
}

// OracleFetchReply - the shard index the request is addressed to
type OracleFetchReply struct {
	Key   flight.Key `json:"key"`
	Index int        `json:"index"`
}

// Fetch - open a status request for a flight
func (o *Oracle) Fetch(arguments *OracleFetchArguments, reply *OracleFetchReply) error {
	if err := rateLimit(o.limiter); nil != err {
		return err
	}
	o.log.Infof("Oracle.Fetch: %v", arguments)

	index, err := oracles.FetchFlightStatus(arguments.Airline, arguments.Code, arguments.Timestamp, arguments.Caller)
	if nil != err {
		return err
	}
	reply.Key = flight.MakeKey(arguments.Airline, arguments.Code, arguments.Timestamp)
	reply.Index = index
	return nil
}

// ---

// OracleResponseArguments - one oracle's answer to a request
type OracleResponseArguments struct {
	Sender    identity.Identity `json:"sender"`
	Index     int               `json:"index"`
	Airline   identity.Identity `json:"airline"`
	Code      string            `json:"code"`
	Timestamp int64             `json:"timestamp"`
	Status    flight.Status     `json:"status"`
}

// OracleResponseReply - flight status after the answer was processed
//
// Final reports whether the flight is finalised; an accepted answer
// below quorum and an ignored probe both come back with Final false
type OracleResponseReply struct {
	Status flight.Status `json:"status"`
	Final  bool          `json:"final"`
}

// Response - record one oracle's answer
func (o *Oracle) Response(arguments *OracleResponseArguments, reply *OracleResponseReply) error {
	if err := rateLimit(o.limiter); nil != err {
		return err
	}
	o.log.Infof("Oracle.Response: %v", arguments)

	err := oracles.SubmitResponse(arguments.Sender, arguments.Index,
		arguments.Airline, arguments.Code, arguments.Timestamp, arguments.Status)
	if nil != err {
		return err
	}

	key := flight.MakeKey(arguments.Airline, arguments.Code, arguments.Timestamp)
	status, err := flight.GetStatus(key)
	if nil != err {
		return err
	}
	reply.Status = status
	reply.Final = status.IsTerminal()
	return nil
}
