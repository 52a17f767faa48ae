// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	rpcservice "github.com/alexanderludwig/FlightSurety/rpc"
)

func runRegisterFlight(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	// the calling identity is both operator and sender
	sender, err := callingIdentity(m)
	if nil != err {
		return err
	}

	code := c.String("code")
	timestamp := c.Int64("departure")

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.FlightRegisterArguments{
		Airline:   sender,
		Code:      code,
		Timestamp: timestamp,
		Sender:    sender,
	}
	var reply rpcservice.FlightRegisterReply
	if err := client.Call("Flight.Register", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

func runFlightStatus(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	airline, code, timestamp, err := flightTriple(c)
	if nil != err {
		return err
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.FlightStatusArguments{
		Airline:   airline,
		Code:      code,
		Timestamp: timestamp,
	}
	var reply rpcservice.FlightStatusReply
	if err := client.Call("Flight.Status", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}
