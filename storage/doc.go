// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - the ledger data tier
//
// maintains one LevelDB database divided into pools by a one byte
// key prefix.  all mutable ledger state (airlines, flights, policies,
// credits, oracles) lives here; the logic packages keep working copies
// in memory and write through on every accepted mutation so a restart
// reloads the same ledger.
//
// access control: the data tier refuses writes on behalf of components
// that are not on the authorised caller list, mirroring a storage
// contract that only accepts calls from an allow-listed application
// contract.  the list is maintained by the owner through the admin
// interface.
package storage
