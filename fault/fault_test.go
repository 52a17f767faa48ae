// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/alexanderludwig/FlightSurety/fault"
)

var (
	errExistsOne       = fault.ExistsError("exists one")
	errInvalidOne      = fault.InvalidError("invalid one")
	errNotFoundOne     = fault.NotFoundError("not found one")
	errProcessOne      = fault.ProcessError("process one")
	errUnauthorizedOne = fault.UnauthorizedError("unauthorized one")
	errConsensusOne    = fault.ConsensusError("consensus one")
)

// test that the error classes stay distinguishable
func TestClasses(t *testing.T) {
	errorList := []struct {
		err          error
		exists       bool
		invalid      bool
		notFound     bool
		process      bool
		unauthorized bool
		consensus    bool
	}{
		{errExistsOne, true, false, false, false, false, false},
		{errInvalidOne, false, true, false, false, false, false},
		{errNotFoundOne, false, false, true, false, false, false},
		{errProcessOne, false, false, false, true, false, false},
		{errUnauthorizedOne, false, false, false, false, true, false},
		{errConsensusOne, false, false, false, false, false, true},
		{fault.NotParticipating, false, false, false, false, true, false},
		{fault.InsufficientConfirmations, false, false, false, false, false, true},
		{fault.AirlineAlreadyRegistered, true, false, false, false, false, false},
		{fault.InvalidAmount, false, true, false, false, false, false},
	}

	for i, item := range errorList {
		if fault.IsErrExists(item.err) != item.exists {
			t.Errorf("%d: expected exists == %v for: %v", i, item.exists, item.err)
		}
		if fault.IsErrInvalid(item.err) != item.invalid {
			t.Errorf("%d: expected invalid == %v for: %v", i, item.invalid, item.err)
		}
		if fault.IsErrNotFound(item.err) != item.notFound {
			t.Errorf("%d: expected not found == %v for: %v", i, item.notFound, item.err)
		}
		if fault.IsErrProcess(item.err) != item.process {
			t.Errorf("%d: expected process == %v for: %v", i, item.process, item.err)
		}
		if fault.IsErrUnauthorized(item.err) != item.unauthorized {
			t.Errorf("%d: expected unauthorized == %v for: %v", i, item.unauthorized, item.err)
		}
		if fault.IsErrConsensus(item.err) != item.consensus {
			t.Errorf("%d: expected consensus == %v for: %v", i, item.consensus, item.err)
		}
	}
}

// singleton errors must compare equal to themselves
func TestComparison(t *testing.T) {
	if fault.NotParticipating != fault.UnauthorizedError("not participating") {
		t.Error("singleton comparison failed")
	}
	if fault.NotParticipating == fault.NotAuthorised {
		t.Error("distinct errors compared equal")
	}
}
