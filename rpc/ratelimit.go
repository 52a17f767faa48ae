// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/alexanderludwig/FlightSurety/fault"
)

// per-service limiter parameters
const (
	rateLimitService = 200
	rateBurstService = 100
)

func newServiceLimiter() *rate.Limiter {
	return rate.NewLimiter(rateLimitService, rateBurstService)
}

// limiting for a single request
func rateLimit(limiter *rate.Limiter) error {
	r := limiter.Reserve()
	if !r.OK() {
		return fault.RateLimiting
	}
	time.Sleep(r.Delay())
	return nil
}
