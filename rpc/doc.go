// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - JSON-RPC interface to the ledger
//
// services are exposed over TLS using the net/rpc jsonrpc codec; a
// caller identity is an explicit field in every argument record since
// connections are not authenticated at the transport level
package rpc
