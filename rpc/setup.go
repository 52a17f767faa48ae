// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"crypto/tls"
	"sync"

	"github.com/bitmark-inc/listener"
	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/sha3"

	"github.com/alexanderludwig/FlightSurety/fault"
	"github.com/alexanderludwig/FlightSurety/identity"
	"github.com/alexanderludwig/FlightSurety/util"
)

// Configuration - a block of configuration data
// this is read from the configuration file
type Configuration struct {
	MaximumConnections int      `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
}

var globalData struct {
	sync.RWMutex
	log      *logger.L
	listener *listener.MultiListener
	argument *ServerArgument

	// set once during initialise
	initialised bool
}

// Initialise - start serving the RPC services
func Initialise(configuration *Configuration, version string, owner identity.Identity) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	log := logger.New("rpc")
	globalData.log = log
	log.Info("starting…")

	if configuration.MaximumConnections < 1 {
		log.Errorf("invalid maximum connection limit: %d", configuration.MaximumConnections)
		return fault.MissingParameters
	}
	if 0 == len(configuration.Listen) {
		log.Error("no listen addresses")
		return fault.MissingParameters
	}

	if !util.EnsureFileExists(configuration.Certificate) {
		log.Errorf("certificate: %q does not exist", configuration.Certificate)
		return fault.CertificateFileNotFound
	}
	if !util.EnsureFileExists(configuration.PrivateKey) {
		log.Errorf("private key: %q does not exist", configuration.PrivateKey)
		return fault.KeyFileNotFound
	}

	keyPair, err := tls.LoadX509KeyPair(configuration.Certificate, configuration.PrivateKey)
	if nil != err {
		log.Errorf("failed to load keypair: %s", err)
		return err
	}

	tlsConfiguration := &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
	}

	fingerprint := sha3.Sum256(keyPair.Certificate[0])
	log.Infof("SHA3-256 fingerprint: %x", fingerprint)

	globalData.argument = &ServerArgument{
		Log:    log,
		Server: Create(log, version, owner),
	}

	limiter := listener.NewLimiter(configuration.MaximumConnections)
	ml, err := listener.NewMultiListener("rpc", configuration.Listen, tlsConfiguration, limiter, Callback)
	if nil != err {
		log.Errorf("invalid listen addresses: %v  error: %s", configuration.Listen, err)
		return err
	}
	globalData.listener = ml
	globalData.listener.Start(globalData.argument)

	globalData.initialised = true
	return nil
}

// Finalise - stop serving
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.listener.Stop()
	globalData.listener = nil
	globalData.initialised = false
	globalData.log.Flush()

	return nil
}
