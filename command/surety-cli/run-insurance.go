// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	rpcservice "github.com/alexanderludwig/FlightSurety/rpc"
)

func runBuy(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	passenger, err := callingIdentity(m)
	if nil != err {
		return err
	}

	airline, code, timestamp, err := flightTriple(c)
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

	arguments := rpcservice.InsuranceBuyArguments{
		Passenger: passenger,
		Airline:   airline,
		Code:      code,
		Timestamp: timestamp,
		Amount:    amount,
	}
	var reply rpcservice.InsuranceBuyReply
	if err := client.Call("Insurance.Buy", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

func runWithdraw(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	passenger, err := callingIdentity(m)
	if nil != err {
		return err
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.InsuranceWithdrawArguments{
		Passenger: passenger,
	}
	var reply rpcservice.InsuranceWithdrawReply
	if err := client.Call("Insurance.Withdraw", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

func runCredit(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	passenger, err := identityFlagOrCaller(c, "passenger", m)
	if nil != err {
		return err
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.InsuranceCreditArguments{
		Passenger: passenger,
	}
	var reply rpcservice.InsuranceCreditReply
	if err := client.Call("Insurance.Credit", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}
