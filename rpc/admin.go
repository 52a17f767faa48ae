// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/alexanderludwig/FlightSurety/fault"
	"github.com/alexanderludwig/FlightSurety/identity"
	"github.com/alexanderludwig/FlightSurety/mode"
	"github.com/alexanderludwig/FlightSurety/storage"
)

// Admin - operational control, restricted to the configured owner
type Admin struct {
	log     *logger.L
	limiter *rate.Limiter
	owner   identity.Identity
}

// NewAdmin - create the service
func NewAdmin(log *logger.L, owner identity.Identity) *Admin {
	return &Admin{
		log:     log,
		limiter: newServiceLimiter(),
		owner:   owner,
	}
}

func (admin *Admin) checkOwner(caller identity.Identity) error {
	if admin.owner != caller {
		return fault.NotOwner
	}
	return nil
}

// ---

// AdminOperationalArguments - flip the operational flag
type AdminOperationalArguments struct {
	Caller      identity.Identity `json:"caller"`
	Operational bool              `json:"operational"`
}

// AdminOperationalReply - flag after the change
type AdminOperationalReply struct {
	Operational bool `json:"operational"`
}

// SetOperational - pause or resume all state-changing operations
func (admin *Admin) SetOperational(arguments *AdminOperationalArguments, reply *AdminOperationalReply) error {
	if err := rateLimit(admin.limiter); nil != err {
		return err
	}
	if err := admin.checkOwner(arguments.Caller); nil != err {
		return err
	}

	if arguments.Operational {
		mode.Set(mode.Normal)
	} else {
		mode.Set(mode.Stopped)
	}
	admin.log.Warnf("operational: %t", arguments.Operational)

	reply.Operational = mode.Is(mode.Normal)
	return nil
}

// ---

// AdminAuthoriseArguments - change the storage allow-list
type AdminAuthoriseArguments struct {
	Caller    identity.Identity `json:"caller"`
	Component string            `json:"component"`
}

// AdminAuthoriseReply - allow-list state after the change
type AdminAuthoriseReply struct {
	Authorised bool `json:"authorised"`
}

// Authorise - allow a component to write to storage
func (admin *Admin) Authorise(arguments *AdminAuthoriseArguments, reply *AdminAuthoriseReply) error {
	if err := rateLimit(admin.limiter); nil != err {
		return err
	}
	if err := admin.checkOwner(arguments.Caller); nil != err {
		return err
	}

	if err := storage.Authorise(arguments.Component); nil != err {
		return err
	}
	admin.log.Warnf("authorised: %q", arguments.Component)

	reply.Authorised = storage.IsAuthorised(arguments.Component)
	return nil
}

// Deauthorise - remove a component from the storage allow-list
func (admin *Admin) Deauthorise(arguments *AdminAuthoriseArguments, reply *AdminAuthoriseReply) error {
	if err := rateLimit(admin.limiter); nil != err {
		return err
	}
	if err := admin.checkOwner(arguments.Caller); nil != err {
		return err
	}

	if err := storage.Deauthorise(arguments.Component); nil != err {
		return err
	}
	admin.log.Warnf("deauthorised: %q", arguments.Component)

	reply.Authorised = storage.IsAuthorised(arguments.Component)
	return nil
}

// ---

// AdminStatusArguments - query the operational state
type AdminStatusArguments struct{}

// AdminStatusReply - operational flag and mode name
type AdminStatusReply struct {
	Operational bool   `json:"operational"`
	Mode        string `json:"mode"`
}

// Status - current operational state
func (admin *Admin) Status(arguments *AdminStatusArguments, reply *AdminStatusReply) error {
	if err := rateLimit(admin.limiter); nil != err {
		return err
	}

	reply.Operational = mode.Is(mode.Normal)
	reply.Mode = mode.String()
	return nil
}
