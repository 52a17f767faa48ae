// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"

	"github.com/alexanderludwig/FlightSurety/fault"
)

// Client - a JSON-RPC connection to a flightsuretyd node
type Client struct {
	conn    net.Conn
	client  *rpc.Client
	verbose bool
	handle  io.Writer // if verbose is set, calls are echoed here
}

// openClient - connect to the node named by the global --connect flag
//
// the node uses a self-signed certificate so verification is skipped;
// trust is by fingerprint, out of band
func openClient(m *metadata) (*Client, error) {

	if "" == m.connect {
		return nil, fault.MissingParameters
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	conn, err := tls.Dial("tcp", m.connect, tlsConfig)
	if nil != err {
		return nil, err
	}

	r := &Client{
		conn:    conn,
		client:  jsonrpc.NewClient(conn),
		verbose: m.verbose,
		handle:  m.e,
	}
	return r, nil
}

// Call - make one RPC call, echoing it when verbose
func (c *Client) Call(method string, arguments interface{}, reply interface{}) error {
	if c.verbose {
		fmt.Fprintf(c.handle, "call: %s\n", method)
		printJson(c.handle, arguments)
	}
	return c.client.Call(method, arguments, reply)
}

// Close - shutdown the node connection
func (c *Client) Close() {
	c.client.Close()
	c.conn.Close()
}
