// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - process manager for long-lived goroutines
package background

// Process - a single background process
//
// Run must return promptly once the shutdown channel is closed
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - a list of processes to start as a group
type Processes []Process

// T - handle for a started group
type T struct {
	shutdown chan struct{}
	finished chan struct{}
	count    int
}

// Start - run a group of background processes
func Start(processes Processes, args interface{}) *T {
	register := &T{
		shutdown: make(chan struct{}),
		finished: make(chan struct{}, len(processes)),
		count:    len(processes),
	}

	for _, p := range processes {
		go func(p Process) {
			p.Run(args, register.shutdown)
			register.finished <- struct{}{}
		}(p)
	}
	return register
}

// Stop - shut down the group and wait for every process to finish
func (t *T) Stop() {
	if nil == t {
		return
	}

	close(t.shutdown)
	for i := 0; i < t.count; i += 1 {
		<-t.finished
	}
}
