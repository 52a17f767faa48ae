// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/alexanderludwig/FlightSurety/currency"
	"github.com/alexanderludwig/FlightSurety/identity"
)

// the account every state-changing call is made on behalf of
func callingIdentity(m *metadata) (identity.Identity, error) {
	if m.identity.IsNil() {
		return identity.Nil, fmt.Errorf("missing --identity flag")
	}
	return m.identity, nil
}

// a required identity flag
func identityFlag(c *cli.Context, name string) (identity.Identity, error) {
	s := c.String(name)
	if "" == s {
		return identity.Nil, fmt.Errorf("missing --%s flag", name)
	}
	id, err := identity.FromHexString(s)
	if nil != err {
		return identity.Nil, fmt.Errorf("%s: %q error: %s", name, s, err)
	}
	return id, nil
}

// an identity flag that falls back to the calling identity
func identityFlagOrCaller(c *cli.Context, name string, m *metadata) (identity.Identity, error) {
	if "" == c.String(name) {
		return callingIdentity(m)
	}
	return identityFlag(c, name)
}

// a required decimal amount flag
func amountFlag(c *cli.Context, name string) (currency.Amount, error) {
	s := c.String(name)
	if "" == s {
		return 0, fmt.Errorf("missing --%s flag", name)
	}
	amount, err := currency.FromString(s)
	if nil != err {
		return 0, fmt.Errorf("%s: %q error: %s", name, s, err)
	}
	return amount, nil
}

// the flight triple shared by several commands
func flightTriple(c *cli.Context) (identity.Identity, string, int64, error) {
	airline, err := identityFlag(c, "airline")
	if nil != err {
		return identity.Nil, "", 0, err
	}

	code := c.String("code")
	if "" == code {
		return identity.Nil, "", 0, fmt.Errorf("missing --code flag")
	}

	timestamp := c.Int64("departure")
	if timestamp <= 0 {
		return identity.Nil, "", 0, fmt.Errorf("missing --departure flag")
	}

	return airline, code, timestamp, nil
}
