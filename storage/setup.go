// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"reflect"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/alexanderludwig/FlightSurety/fault"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	Airlines *PoolHandle `prefix:"A"`
	Flights  *PoolHandle `prefix:"F"`
	Policies *PoolHandle `prefix:"P"`
	Credits  *PoolHandle `prefix:"C"`
	Oracles  *PoolHandle `prefix:"O"`
	TestData *PoolHandle `prefix:"Z"`
}

// Pool - the set of exported pools
var Pool pools

// holds the database handle and the caller allow-list
var poolData struct {
	sync.RWMutex
	db         *leveldb.DB
	cache      Cache
	authorised map[string]struct{}

	// set once during initialise
	initialised bool
}

var poolLog *logger.L

// Initialise - open the database and attach all pools
//
// this must be called before any pool is accessed
func Initialise(database string) error {
	poolData.Lock()
	defer poolData.Unlock()

	if poolData.initialised {
		return fault.AlreadyInitialised
	}

	poolLog = logger.New("storage")
	poolLog.Info("starting…")

	db, err := leveldb.OpenFile(database, nil)
	if nil != err {
		poolLog.Criticalf("open database: %q  error: %s", database, err)
		return err
	}

	poolData.db = db
	poolData.cache = newCache()
	poolData.authorised = make(map[string]struct{})

	// this will be a struct type
	poolType := reflect.TypeOf(Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&Pool).Elem()

	// scan each field to locate its prefix tag
	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)
		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			logger.Panicf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
		}
		newPool := reflect.ValueOf(p)
		poolValue.Field(i).Set(newPool)
	}

	poolData.initialised = true

	return nil
}

// Finalise - close the database connection
func Finalise() error {
	poolData.Lock()
	defer poolData.Unlock()

	if !poolData.initialised {
		return fault.NotInitialised
	}

	poolLog.Info("shutting down…")

	poolData.cache.Clear()
	poolData.db.Close()
	poolData.db = nil
	poolData.authorised = nil
	poolData.initialised = false

	poolLog.Info("finished")
	poolLog.Flush()

	return nil
}
