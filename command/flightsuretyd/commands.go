// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/alexanderludwig/FlightSurety/configuration"
	"github.com/alexanderludwig/FlightSurety/identity"
)

const (
	rpcCertificateFilename = "rpc.crt"
	rpcPrivateKeyFilename  = "rpc.key"
)

// setup command handler
//
// commands that run to create certificate files; these commands
// cannot access any internal database or states or the configuration
// file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "version", "v":
		fmt.Printf("%s\n", version)

	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := makeSelfSignedCertificate("rpc", certificateFilename, privateKeyFilename, 0 != len(addresses), addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "gen-identity", "id":
		var id identity.Identity
		if _, err := rand.Read(id[:]); nil != err {
			fmt.Printf("generate identity error: %s\n", err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("%s\n", id)

	case "config-test", "cfg":
		return false // defer processing until configuration is read

	case "start", "run":
		return false // continue into main

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                    (h)   - display this message\n\n")
		fmt.Printf("  version                 (v)   - display version string\n\n")

		fmt.Printf("  gen-rpc-cert [DIR]      (rpc) - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                  and the certificate in: %q\n", "DIR/"+rpcCertificateFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...]   - as above, certificate includes the IPs\n")
		fmt.Printf("\n")

		fmt.Printf("  gen-identity            (id)  - create a random ledger identity\n")
		fmt.Printf("\n")

		fmt.Printf("  start                   (run) - just run the program, same as no arguments\n")
		fmt.Printf("                                  for convenience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test             (cfg) - just check the configuration file\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *configuration.Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		_ = json.Indent(&out, b, "", "  ")
		fmt.Printf("%s\n", out.String())

	case "start", "run":
		return false // continue into main

	default:
		return false // continue into main
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// command arguments: [DIR]; default to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	directory := "."
	if len(arguments) >= 1 && "" != arguments[0] {
		directory = arguments[0]
	}
	return filepath.Join(directory, name)
}
