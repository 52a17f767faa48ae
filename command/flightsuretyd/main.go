// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/configuration"
	"github.com/alexanderludwig/FlightSurety/flight"
	"github.com/alexanderludwig/FlightSurety/insurance"
	"github.com/alexanderludwig/FlightSurety/membership"
	"github.com/alexanderludwig/FlightSurety/mode"
	"github.com/alexanderludwig/FlightSurety/oracles"
	"github.com/alexanderludwig/FlightSurety/publish"
	"github.com/alexanderludwig/FlightSurety/rpc"
	"github.com/alexanderludwig/FlightSurety/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// the logic components on the storage allow-list
var authorisedComponents = []string{
	"membership",
	"flight",
	"insurance",
	"oracles",
}

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := configuration.GetConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)

	// decoded at configuration time, cannot fail here
	owner, _ := theConfiguration.OwnerIdentity()
	bootstrap, _ := theConfiguration.BootstrapIdentity()

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// set the initial system mode - before any background tasks are started
	err = mode.Initialise()
	if nil != err {
		log.Criticalf("mode initialise error: %s", err)
		exitwithstatus.Message("mode initialise error: %s", err)
	}
	defer mode.Finalise()

	log.Infof("database: %q", theConfiguration.DatabaseFile())

	// start the data storage
	log.Info("initialise storage")
	err = storage.Initialise(theConfiguration.DatabaseFile())
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	// the logic components are the only storage writers
	for _, name := range authorisedComponents {
		if err := storage.Authorise(name); nil != err {
			log.Criticalf("storage authorise: %q error: %s", name, err)
			exitwithstatus.Message("storage authorise: %q error: %s", name, err)
		}
	}

	// airline registry
	log.Info("initialise membership")
	err = membership.Initialise(bootstrap)
	if nil != err {
		log.Criticalf("membership initialise error: %s", err)
		exitwithstatus.Message("membership initialise error: %s", err)
	}
	defer membership.Finalise()

	// flight registry
	log.Info("initialise flight")
	err = flight.Initialise()
	if nil != err {
		log.Criticalf("flight initialise error: %s", err)
		exitwithstatus.Message("flight initialise error: %s", err)
	}
	defer flight.Finalise()

	// policy ledger
	log.Info("initialise insurance")
	err = insurance.Initialise()
	if nil != err {
		log.Criticalf("insurance initialise error: %s", err)
		exitwithstatus.Message("insurance initialise error: %s", err)
	}
	defer insurance.Finalise()

	// consensus engine with the production index source
	log.Info("initialise oracles")
	err = oracles.Initialise(nil)
	if nil != err {
		log.Criticalf("oracles initialise error: %s", err)
		exitwithstatus.Message("oracles initialise error: %s", err)
	}
	defer oracles.Finalise()

	// only the consensus engine may finalise flights and credit insurees
	flight.AuthoriseFinaliser("oracles")
	insurance.AuthoriseFinaliser("oracles")

	// start up the publishing background processes
	if 0 != len(theConfiguration.Publishing.Broadcast) {
		err = publish.Initialise(&theConfiguration.Publishing)
		if nil != err {
			log.Criticalf("publish initialise error: %s", err)
			exitwithstatus.Message("publish initialise error: %s", err)
		}
		defer publish.Finalise()
	} else {
		log.Warn("publishing disabled")
	}

	// start up the RPC listener
	err = rpc.Initialise(&theConfiguration.ClientRPC, version, owner)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer rpc.Finalise()

	// wait for termination signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	log.Info("shutting down…")
}
