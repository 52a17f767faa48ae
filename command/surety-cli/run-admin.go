// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	rpcservice "github.com/alexanderludwig/FlightSurety/rpc"
)

func runInfo(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.NodeInfoArguments{}
	var reply rpcservice.NodeInfoReply
	if err := client.Call("Node.Info", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

func runStatus(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.AdminStatusArguments{}
	var reply rpcservice.AdminStatusReply
	if err := client.Call("Admin.Status", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

func runSetOperational(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, err := callingIdentity(m)
	if nil != err {
		return err
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.AdminOperationalArguments{
		Caller:      caller,
		Operational: c.Bool("resume"),
	}
	var reply rpcservice.AdminOperationalReply
	if err := client.Call("Admin.SetOperational", &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

func runAuthorise(c *cli.Context) error {
	return callAuthorise(c, "Admin.Authorise")
}

func runDeauthorise(c *cli.Context) error {
	return callAuthorise(c, "Admin.Deauthorise")
}

func callAuthorise(c *cli.Context, method string) error {

	m := c.App.Metadata["config"].(*metadata)

	caller, err := callingIdentity(m)
	if nil != err {
		return err
	}

	component := c.String("component")
	if "" == component {
		return fmt.Errorf("missing --component flag")
	}

	client, err := openClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	arguments := rpcservice.AdminAuthoriseArguments{
		Caller:    caller,
		Component: component,
	}
	var reply rpcservice.AdminAuthoriseReply
	if err := client.Call(method, &arguments, &reply); nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}
