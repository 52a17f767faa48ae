// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/alexanderludwig/FlightSurety/flight"
	rpcservice "github.com/alexanderludwig/FlightSurety/rpc"
)

func runOracleRegister(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	sender, err := callingIdentity(m)
	if nil != err {
		return err
	}

	fee, err := amountFlag(c, "fee")
	if nil != err {
		return err
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.OracleRegisterArguments{
		Sender: sender,
		Fee:    fee,
	}
	var reply rpcservice.OracleRegisterReply
	if err := client.Call("Oracle.Register", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

func runOracleIndexes(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	sender, err := callingIdentity(m)
	if nil != err {
		return err
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.OracleIndexesArguments{
		Sender: sender,
	}
	var reply rpcservice.OracleIndexesReply
	if err := client.Call("Oracle.Indexes", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

func runFetchStatus(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, err := callingIdentity(m)
	if nil != err {
		return err
	}

	airline, code, timestamp, err := flightTriple(c)
	if nil != err {
		return err
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.OracleFetchArguments{
		Airline:   airline,
		Code:      code,
		Timestamp: timestamp,
		Caller:    caller,
	}
	var reply rpcservice.OracleFetchReply
	if err := client.Call("Oracle.Fetch", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

func runOracleResponse(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	sender, err := callingIdentity(m)
	if nil != err {
		return err
	}

	airline, code, timestamp, err := flightTriple(c)
	if nil != err {
		return err
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.OracleResponseArguments{
		Sender:    sender,
		Index:     c.Int("index"),
		Airline:   airline,
		Code:      code,
		Timestamp: timestamp,
		Status:    flight.Status(c.Int("status")),
	}
	var reply rpcservice.OracleResponseReply
	if err := client.Call("Oracle.Response", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}
