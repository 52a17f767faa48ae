// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"io"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/counter"
	"github.com/alexanderludwig/FlightSurety/identity"
)

// ServerArgument - the argument passed to the callback
type ServerArgument struct {
	Log    *logger.L
	Server *rpc.Server
}

var connectionCount counter.Counter

// Callback - handle one connection from the listener
func Callback(conn io.ReadWriteCloser, argument interface{}) {
	serverArgument := argument.(*ServerArgument)

	log := serverArgument.Log
	log.Debug("starting…")

	connectionCount.Increment()
	defer connectionCount.Decrement()

	codec := jsonrpc.NewServerCodec(conn)
	defer codec.Close()
	serverArgument.Server.ServeCodec(codec)

	log.Debug("finished")
}

// Create - make a server instance with all services registered
//
// owner is the identity allowed to call the Admin service
func Create(log *logger.L, version string, owner identity.Identity) *rpc.Server {
	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(NewAirline(log))
	_ = server.Register(NewFlight(log))
	_ = server.Register(NewInsurance(log))
	_ = server.Register(NewOracle(log))
	_ = server.Register(NewAdmin(log, owner))
	_ = server.Register(NewNode(log, start, version))

	return server
}

// ConnectionCount - number of active RPC connections
func ConnectionCount() uint64 {
	return connectionCount.Uint64()
}
