// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - fan-out of ledger notifications
//
// the core sends a Message for every externally observable state
// change; dashboards, the ZMQ publisher and oracle agent bridges each
// hold their own subscriber channel.  sending never blocks: a message
// for a full subscriber queue is dropped for that subscriber only.
//
// commands currently in use:
//
//	airline  (airline)                              airline registered
//	confirm  (confirmer, candidate)                 confirmation recorded
//	flight   (airline, code, timestamp)             flight registered
//	request  (airline, code, timestamp, index)      oracle request opened
//	status   (airline, code, timestamp, statusCode) flight status finalised
package messagebus
