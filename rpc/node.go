// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/currency"
	"github.com/alexanderludwig/FlightSurety/flight"
	"github.com/alexanderludwig/FlightSurety/insurance"
	"github.com/alexanderludwig/FlightSurety/membership"
	"github.com/alexanderludwig/FlightSurety/mode"
	"github.com/alexanderludwig/FlightSurety/oracles"
)

// Node - information about this node
type Node struct {
	log     *logger.L
	limiter *rate.Limiter
	start   time.Time
	version string
}

// NewNode - create the service
func NewNode(log *logger.L, start time.Time, version string) *Node {
	return &Node{
		log:     log,
		limiter: newServiceLimiter(),
		start:   start,
		version: version,
	}
}

// NodeInfoArguments - no parameters
type NodeInfoArguments struct{}

// NodeInfoReply - a summary of the ledger and this node
type NodeInfoReply struct {
	Version     string          `json:"version"`
	Mode        string          `json:"mode"`
	Uptime      string          `json:"uptime"`
	Airlines    int             `json:"airlines"`
	Flights     int             `json:"flights"`
	Oracles     int             `json:"oracles"`
	Custody     currency.Amount `json:"custody"`
	Fees        currency.Amount `json:"fees"`
	Connections uint64          `json:"connections"`
}

// Info - return some information about this node
func (node *Node) Info(arguments *NodeInfoArguments, reply *NodeInfoReply) error {
	if err := rateLimit(node.limiter); nil != err {
		return err
	}

	reply.Version = node.version
	reply.Mode = mode.String()
	reply.Uptime = time.Since(node.start).String()
	reply.Airlines = membership.RegisteredCount()
	reply.Flights = flight.Count()
	reply.Oracles = oracles.OracleCount()
	reply.Custody = insurance.Custody()
	reply.Fees = oracles.FeesRetained()
	reply.Connections = connectionCount.Uint64()

	return nil
}
