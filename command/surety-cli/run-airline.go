// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	rpcservice "github.com/alexanderludwig/FlightSurety/rpc"
)

func runRegisterAirline(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	sender, err := callingIdentity(m)
	if nil != err {
		return err
	}

	candidate, err := identityFlag(c, "candidate")
	if nil != err {
		return err
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.AirlineRegisterArguments{
		Candidate: candidate,
		Sender:    sender,
	}
	var reply rpcservice.AirlineRegisterReply
	if err := client.Call("Airline.Register", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

func runConfirm(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	sender, err := callingIdentity(m)
	if nil != err {
		return err
	}

	candidate, err := identityFlag(c, "candidate")
	if nil != err {
		return err
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.AirlineConfirmArguments{
		Candidate: candidate,
		Sender:    sender,
	}
	var reply rpcservice.AirlineConfirmReply
	if err := client.Call("Airline.Confirm", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

func runFund(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	sender, err := callingIdentity(m)
	if nil != err {
		return err
	}

	amount, err := amountFlag(c, "amount")
	if nil != err {
		return err
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.AirlineFundArguments{
		Sender: sender,
		Amount: amount,
	}
	var reply rpcservice.AirlineFundReply
	if err := client.Call("Airline.Fund", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

func runAirlineInfo(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	airline, err := identityFlagOrCaller(c, "airline", m)
	if nil != err {
		return err
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.AirlineInfoArguments{
		Airline: airline,
	}
	var reply rpcservice.AirlineInfoReply
	if err := client.Call("Airline.Info", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}
