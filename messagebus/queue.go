// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"
)

// internal constants
const (
	defaultQueueSize = 1000
)

// Message - notification item
type Message struct {
	Command    string   // the notification name
	Parameters [][]byte // opaque byte string parameters
}

// the broadcaster with its subscriber channels
type broadcaster struct {
	sync.RWMutex
	subscribers []chan Message
}

// Bus - the single process-wide bus
var Bus struct {
	Broadcast *broadcaster
}

func init() {
	Bus.Broadcast = &broadcaster{}
}

// Send - fan a message out to all current subscribers
//
// never blocks: a subscriber whose queue is full misses the message
func (b *broadcaster) Send(command string, parameters ...[]byte) {
	message := Message{
		Command:    command,
		Parameters: parameters,
	}

	b.RLock()
	defer b.RUnlock()

	for _, subscriber := range b.subscribers {
		select {
		case subscriber <- message:
		default: // drop for lagging subscriber
		}
	}
}

// Chan - allocate a new subscriber channel
//
// a size of zero selects the default queue size
func (b *broadcaster) Chan(size int) <-chan Message {
	if size <= 0 {
		size = defaultQueueSize
	}
	subscriber := make(chan Message, size)

	b.Lock()
	b.subscribers = append(b.subscribers, subscriber)
	b.Unlock()

	return subscriber
}

// Release - close all subscriber channels and detach them
//
// only for shutdown and tests; Send after Release is a no-op until a
// new subscriber appears
func (b *broadcaster) Release() {
	b.Lock()
	defer b.Unlock()

	for _, subscriber := range b.subscribers {
		close(subscriber)
	}
	b.subscribers = nil
}
