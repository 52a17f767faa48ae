// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - read the daemon configuration
//
// the configuration file is a Lua script whose final expression is the
// configuration table; relative paths are resolved against the data
// directory
package configuration

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/identity"
	"github.com/alexanderludwig/FlightSurety/publish"
	"github.com/alexanderludwig/FlightSurety/rpc"
	"github.com/alexanderludwig/FlightSurety/util"
)

// basic defaults (directories and files are relative to the
// "data_directory" from the configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultKeyFile         = "rpc.key"
	defaultCertificateFile = "rpc.crt"

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "flightsurety.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "flightsuretyd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients = 10
)

// DatabaseType - the ledger database location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// Configuration - the daemon configuration
//
// Owner is the identity allowed to use the Admin RPC service and
// BootstrapAirline is the airline seeded into an empty ledger; both
// are hex encoded identities
type Configuration struct {
	DataDirectory    string `gluamapper:"data_directory" json:"data_directory"`
	PidFile          string `gluamapper:"pidfile" json:"pidfile"`
	Owner            string `gluamapper:"owner" json:"owner"`
	BootstrapAirline string `gluamapper:"bootstrap_airline" json:"bootstrap_airline"`

	Database DatabaseType `gluamapper:"database" json:"database"`

	ClientRPC  rpc.Configuration     `gluamapper:"client_rpc" json:"client_rpc"`
	Publishing publish.Configuration `gluamapper:"publishing" json:"publishing"`
	Logging    logger.Configuration  `gluamapper:"logging" json:"logging"`
}

// GetConfiguration - read, decode and verify the configuration
func GetConfiguration(configurationFileName string) (*Configuration, error) {
	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		ClientRPC: rpc.Configuration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	fileInfo, err := os.Stat(options.DataDirectory)
	if nil != err {
		return nil, err
	}
	if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// the identities must decode
	if _, err := options.OwnerIdentity(); nil != err {
		return nil, fmt.Errorf("owner: %q error: %s", options.Owner, err)
	}
	if _, err := options.BootstrapIdentity(); nil != err {
		return nil, fmt.Errorf("bootstrap_airline: %q error: %s", options.BootstrapAirline, err)
	}

	return options, nil
}

// DatabaseFile - composed path of the ledger database
func (configuration *Configuration) DatabaseFile() string {
	return filepath.Join(configuration.Database.Directory, configuration.Database.Name)
}

// OwnerIdentity - the decoded admin identity
func (configuration *Configuration) OwnerIdentity() (identity.Identity, error) {
	return identity.FromHexString(configuration.Owner)
}

// BootstrapIdentity - the decoded bootstrap airline identity
func (configuration *Configuration) BootstrapIdentity() (identity.Identity, error) {
	return identity.FromHexString(configuration.BootstrapAirline)
}
