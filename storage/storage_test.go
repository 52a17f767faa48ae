// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/alexanderludwig/FlightSurety/storage"
)

const (
	testingDirName   = "testing"
	databaseFileName = testingDirName + "/test.leveldb"
)

func setup(t *testing.T) {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)

	err := storage.Initialise(databaseFileName)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
}

func teardown(t *testing.T) {
	_ = storage.Finalise()
	removeFiles()
}

func removeFiles() {
	_ = os.RemoveAll(testingDirName)
}

func TestPutGetDelete(t *testing.T) {
	setup(t)
	defer teardown(t)

	key := []byte("ND1309")
	value := []byte("some record")

	p := storage.Pool.TestData
	p.Put(key, value)

	assert.True(t, p.Has(key), "missing record")
	assert.Equal(t, value, p.Get(key), "wrong record")

	p.Delete(key)
	assert.False(t, p.Has(key), "record not deleted")
	assert.Nil(t, p.Get(key), "deleted record still present")
}

// pools with different prefixes must not see each other's records
func TestPoolIsolation(t *testing.T) {
	setup(t)
	defer teardown(t)

	key := []byte("shared-key")

	storage.Pool.Airlines.Put(key, []byte("airline"))
	storage.Pool.Flights.Put(key, []byte("flight"))

	assert.Equal(t, []byte("airline"), storage.Pool.Airlines.Get(key), "wrong airline record")
	assert.Equal(t, []byte("flight"), storage.Pool.Flights.Get(key), "wrong flight record")

	storage.Pool.Airlines.Delete(key)
	assert.False(t, storage.Pool.Airlines.Has(key), "airline record not deleted")
	assert.True(t, storage.Pool.Flights.Has(key), "flight record lost")
}

func TestFetchCursor(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData
	records := map[string]string{
		"one":   "1",
		"two":   "2",
		"three": "3",
		"four":  "4",
	}
	for k, v := range records {
		p.Put([]byte(k), []byte(v))
	}

	fetched := make(map[string]string)
	cursor := p.NewFetchCursor()
	for {
		elements, err := cursor.Fetch(2)
		assert.Nil(t, err, "wrong fetch")
		if 0 == len(elements) {
			break
		}
		for _, e := range elements {
			fetched[string(e.Key)] = string(e.Value)
		}
	}

	assert.Equal(t, records, fetched, "wrong fetched records")
}

// a short batch must still advance the cursor: a record count below
// the batch size, and one that is not a multiple of it, both have to
// terminate and return every record exactly once
func TestFetchCursorShortBatch(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData
	records := map[string]string{
		"alpha":   "1",
		"bravo":   "2",
		"charlie": "3",
		"delta":   "4",
		"echo":    "5",
	}
	for k, v := range records {
		p.Put([]byte(k), []byte(v))
	}

	// batch size larger than the pool: one short batch then empty
	cursor := p.NewFetchCursor()
	elements, err := cursor.Fetch(100)
	assert.Nil(t, err, "wrong fetch")
	assert.Equal(t, len(records), len(elements), "wrong first batch size")

	elements, err = cursor.Fetch(100)
	assert.Nil(t, err, "wrong fetch")
	assert.Equal(t, 0, len(elements), "cursor did not advance after a short batch")

	// batch size that does not divide the record count evenly
	fetched := make(map[string]string)
	batches := 0
	cursor = p.NewFetchCursor()
	for {
		elements, err := cursor.Fetch(2)
		assert.Nil(t, err, "wrong fetch")
		if 0 == len(elements) {
			break
		}
		for _, e := range elements {
			_, seen := fetched[string(e.Key)]
			assert.False(t, seen, "record fetched twice: %q", e.Key)
			fetched[string(e.Key)] = string(e.Value)
		}
		batches += 1
		if batches > len(records) {
			t.Fatal("cursor loop did not terminate")
		}
	}

	assert.Equal(t, records, fetched, "wrong fetched records")
	assert.Equal(t, 3, batches, "wrong batch count")
}

func TestAccessList(t *testing.T) {
	setup(t)
	defer teardown(t)

	assert.False(t, storage.IsAuthorised("membership"), "unexpected initial authorisation")

	err := storage.Authorise("membership")
	assert.Nil(t, err, "wrong authorise")
	assert.True(t, storage.IsAuthorised("membership"), "authorisation not recorded")

	err = storage.Deauthorise("membership")
	assert.Nil(t, err, "wrong deauthorise")
	assert.False(t, storage.IsAuthorised("membership"), "authorisation not removed")

	err = storage.Deauthorise("membership")
	assert.NotNil(t, err, "deauthorise of unknown caller must fail")

	err = storage.Authorise("")
	assert.NotNil(t, err, "empty caller must fail")
}
