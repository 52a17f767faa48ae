// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// command-line client for a flightsuretyd node
//
// every state-changing call is made on behalf of the account given by
// the global --identity flag; queries default to the same account
// unless overridden by a command flag
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/alexanderludwig/FlightSurety/identity"
)

type metadata struct {
	connect  string
	identity identity.Identity
	verbose  bool
	e        io.Writer
	w        io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "surety-cli"
	app.Usage = "flight insurance ledger client"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "connect, c",
			Value: "",
			Usage: "*flightsuretyd RPC, `HOST:PORT`",
		},
		cli.StringFlag{
			Name:  "identity, i",
			Value: "",
			Usage: "*account to act as, 40 hex digits `IDENTITY`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "info",
			Usage:  "display node version, counters and mode",
			Action: runInfo,
		},
		{
			Name:   "status",
			Usage:  "display the operational state",
			Action: runStatus,
		},
		{
			Name:      "register-airline",
			Usage:     "propose or register a candidate airline",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "candidate, a",
					Value: "",
					Usage: "*candidate airline `IDENTITY`",
				},
			},
			Action: runRegisterAirline,
		},
		{
			Name:      "confirm",
			Usage:     "endorse a candidate airline",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "candidate, a",
					Value: "",
					Usage: "*candidate airline `IDENTITY`",
				},
			},
			Action: runConfirm,
		},
		{
			Name:      "fund",
			Usage:     "add to the calling airline's funded balance",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "amount, m",
					Value: "",
					Usage: "*deposit in currency units `AMOUNT`",
				},
			},
			Action: runFund,
		},
		{
			Name:  "airline",
			Usage: "display the state of one airline",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "airline, a",
					Value: "",
					Usage: " airline `IDENTITY` [calling identity]",
				},
			},
			Action: runAirlineInfo,
		},
		{
			Name:      "register-flight",
			Usage:     "register a flight for the calling airline",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "code, f",
					Value: "",
					Usage: "*flight code `CODE`",
				},
				cli.Int64Flag{
					Name:  "departure, t",
					Usage: "*scheduled departure, Unix seconds `TIMESTAMP`",
				},
			},
			Action: runRegisterFlight,
		},
		{
			Name:      "flight",
			Usage:     "display the status of a flight",
			ArgsUsage: "\n   (* = required)",
			Flags:     flightFlags,
			Action:    runFlightStatus,
		},
		{
			Name:      "buy",
			Usage:     "buy or top up insurance on a flight",
			ArgsUsage: "\n   (* = required)",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "amount, m",
					Value: "",
					Usage: "*premium in currency units `AMOUNT`",
				},
			}, flightFlags...),
			Action: runBuy,
		},
		{
			Name:   "withdraw",
			Usage:  "pay out the calling passenger's credit",
			Action: runWithdraw,
		},
		{
			Name:  "credit",
			Usage: "display a passenger's withdrawable balance",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "passenger, p",
					Value: "",
					Usage: " passenger `IDENTITY` [calling identity]",
				},
			},
			Action: runCredit,
		},
		{
			Name:      "oracle-register",
			Usage:     "enrol the calling identity as an oracle",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "fee, m",
					Value: "",
					Usage: "*registration fee in currency units `AMOUNT`",
				},
			},
			Action: runOracleRegister,
		},
		{
			Name:   "oracle-indexes",
			Usage:  "display the calling oracle's shard indices",
			Action: runOracleIndexes,
		},
		{
			Name:      "fetch-status",
			Usage:     "open an oracle status request for a flight",
			ArgsUsage: "\n   (* = required)",
			Flags:     flightFlags,
			Action:    runFetchStatus,
		},
		{
			Name:      "oracle-response",
			Usage:     "submit the calling oracle's answer to a request",
			ArgsUsage: "\n   (* = required)",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "index, x",
					Usage: "*shard index the request was addressed to `INDEX`",
				},
				cli.IntFlag{
					Name:  "status, s",
					Usage: "*status code [10|20|30|40|50] `STATUS`",
				},
			}, flightFlags...),
			Action: runOracleResponse,
		},
		{
			Name:      "set-operational",
			Usage:     "pause or resume the node (owner only)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "resume, r",
					Usage: " resume rather than pause",
				},
			},
			Action: runSetOperational,
		},
		{
			Name:      "authorise",
			Usage:     "allow a component to write to storage (owner only)",
			ArgsUsage: "\n   (* = required)",
			Flags:     componentFlags,
			Action:    runAuthorise,
		},
		{
			Name:      "deauthorise",
			Usage:     "remove a component from the storage allow-list (owner only)",
			ArgsUsage: "\n   (* = required)",
			Flags:     componentFlags,
			Action:    runDeauthorise,
		},
		{
			Name:   "version",
			Usage:  "display this program's version",
			Action: runVersion,
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer

		verbose := c.GlobalBool("verbose")

		connect := c.GlobalString("connect")

		var caller identity.Identity
		if s := c.GlobalString("identity"); "" != s {
			var err error
			caller, err = identity.FromHexString(s)
			if nil != err {
				return fmt.Errorf("identity: %q error: %s", s, err)
			}
		}

		c.App.Metadata["config"] = &metadata{
			connect:  connect,
			identity: caller,
			verbose:  verbose,
			e:        e,
			w:        w,
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

// the flight triple shared by several commands
var flightFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "airline, a",
		Value: "",
		Usage: "*operating airline `IDENTITY`",
	},
	cli.StringFlag{
		Name:  "code, f",
		Value: "",
		Usage: "*flight code `CODE`",
	},
	cli.Int64Flag{
		Name:  "departure, t",
		Usage: "*scheduled departure, Unix seconds `TIMESTAMP`",
	},
}

var componentFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "component, o",
		Value: "",
		Usage: "*component `NAME` [membership|flight|insurance|oracles]",
	},
}

func runVersion(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "%s\n", version)
	return nil
}
