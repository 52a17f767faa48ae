// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/alexanderludwig/FlightSurety/fault"
)

// Authorise - put a component name on the authorised caller list
//
// ownership of the admin surface is checked by the caller; the data
// tier only records the resulting list
func Authorise(caller string) error {
	poolData.Lock()
	defer poolData.Unlock()

	if !poolData.initialised {
		return fault.NotInitialised
	}
	if "" == caller {
		return fault.MissingParameters
	}

	poolData.authorised[caller] = struct{}{}
	poolLog.Infof("authorised: %q", caller)
	return nil
}

// Deauthorise - remove a component from the authorised caller list
func Deauthorise(caller string) error {
	poolData.Lock()
	defer poolData.Unlock()

	if !poolData.initialised {
		return fault.NotInitialised
	}
	if _, ok := poolData.authorised[caller]; !ok {
		return fault.NotAuthorised
	}

	delete(poolData.authorised, caller)
	poolLog.Infof("deauthorised: %q", caller)
	return nil
}

// IsAuthorised - check a component against the allow-list
func IsAuthorised(caller string) bool {
	poolData.RLock()
	defer poolData.RUnlock()

	if !poolData.initialised {
		return false
	}
	_, ok := poolData.authorised[caller]
	return ok
}
