// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/alexanderludwig/FlightSurety/fault"
)

// PoolHandle - handle of a record pool inside the database
type PoolHandle struct {
	prefix byte
	limit  []byte
}

// Element - a binary key/value pair
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value pair
func (p *PoolHandle) Put(key []byte, value []byte) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		logger.Panic("pool.Put nil database")
		return
	}
	prefixed := p.prefixKey(key)
	poolData.cache.Set(dbPut, string(prefixed), value)
	err := poolData.db.Put(prefixed, value, nil)
	logger.PanicIfError("pool.Put", err)
}

// Delete - remove a key
func (p *PoolHandle) Delete(key []byte) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		logger.Panic("pool.Delete nil database")
		return
	}
	prefixed := p.prefixKey(key)
	poolData.cache.Set(dbDelete, string(prefixed), []byte{})
	err := poolData.db.Delete(prefixed, nil)
	logger.PanicIfError("pool.Delete", err)
}

// Get - read the value for a given key
//
// returns nil if the record was not found
func (p *PoolHandle) Get(key []byte) []byte {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return nil
	}
	prefixed := p.prefixKey(key)
	if value, found := poolData.cache.Get(string(prefixed)); found {
		return value
	}
	value, err := poolData.db.Get(prefixed, nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("pool.Get", err)
	return value
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return false
	}
	prefixed := p.prefixKey(key)
	if _, found := poolData.cache.Get(string(prefixed)); found {
		return true
	}
	value, err := poolData.db.Has(prefixed, nil)
	logger.PanicIfError("pool.Has", err)
	return value
}

// FetchCursor - cursor over a key range of one pool
type FetchCursor struct {
	pool     *PoolHandle
	maxRange ldb_util.Range
}

// NewFetchCursor - initialise a cursor to the start of the pool
func (p *PoolHandle) NewFetchCursor() *FetchCursor {
	return &FetchCursor{
		pool: p,
		maxRange: ldb_util.Range{
			Start: []byte{p.prefix}, // included in the range
			Limit: p.limit,          // excluded from the range
		},
	}
}

// Seek - move the cursor to a specific key position
func (cursor *FetchCursor) Seek(key []byte) *FetchCursor {
	cursor.maxRange.Start = cursor.pool.prefixKey(key)
	return cursor
}

// Fetch - return up to count elements from the cursor position
//
// element keys have the pool prefix stripped; the cursor advances past
// the last returned element so repeated calls walk the whole pool
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if nil == cursor {
		return nil, fault.MissingParameters
	}
	if count <= 0 {
		return nil, fault.MissingParameters
	}

	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return nil, fault.NotInitialised
	}

	iter := poolData.db.NewIterator(&cursor.maxRange, nil)
	defer iter.Release()

	results := make([]Element, 0, count)
	n := 0
	for iter.Next() {
		key := iter.Key()
		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])

		value := iter.Value()
		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		results = append(results, Element{
			Key:   dataKey,
			Value: dataValue,
		})

		n += 1
		if n >= count {
			break
		}
	}

	// advance the range start just past the last returned key, even on
	// a short batch, so repeated calls terminate
	if n > 0 {
		last := results[n-1].Key
		next := make([]byte, 1, len(last)+2)
		next[0] = cursor.pool.prefix
		next = append(next, last...)
		cursor.maxRange.Start = append(next, 0x00)
	}

	return results, iter.Error()
}
