// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/alexanderludwig/FlightSurety/fault"
	"github.com/alexanderludwig/FlightSurety/messagebus"
	"github.com/alexanderludwig/FlightSurety/util"
)

// the high water mark for the PUB socket; a slow subscriber past this
// simply misses notifications
const sendHighWaterMark = 1000

type broadcaster struct {
	log    *logger.L
	socket *zmq.Socket
}

// bind one PUB socket to all configured addresses
func (brdc *broadcaster) initialise(broadcast []string) error {
	log := logger.New("broadcaster")
	if nil == log {
		return fault.InvalidLoggerChannel
	}
	brdc.log = log

	log.Info("initialising…")

	socket, err := zmq.NewSocket(zmq.PUB)
	if nil != err {
		log.Errorf("socket error: %s", err)
		return err
	}

	_ = socket.SetLinger(0)
	_ = socket.SetSndhwm(sendHighWaterMark)

	for _, address := range broadcast {
		canonical, err := util.CanonicalIPandPort(address)
		if nil != err {
			log.Errorf("address: %q  error: %s", address, err)
			socket.Close()
			return err
		}
		bindTo := "tcp://" + canonical
		if err := socket.Bind(bindTo); nil != err {
			log.Errorf("bind: %q  error: %s", bindTo, err)
			socket.Close()
			return err
		}
		log.Infof("publishing on: %s", bindTo)
	}

	brdc.socket = socket
	return nil
}

// drain the message bus into the PUB socket until shutdown
func (brdc *broadcaster) Run(args interface{}, shutdown <-chan struct{}) {
	log := brdc.log

	log.Info("starting…")

	queue := messagebus.Bus.Broadcast.Chan(0)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item, ok := <-queue:
			if !ok {
				break loop
			}
			log.Infof("sending: %s  data: %x", item.Command, item.Parameters)
			brdc.process(&item)
		}
	}

	if nil != brdc.socket {
		brdc.socket.Close()
		brdc.socket = nil
	}
}

// send one notification as a multipart message
func (brdc *broadcaster) process(item *messagebus.Message) {
	_, err := brdc.socket.Send(item.Command, zmq.SNDMORE|zmq.DONTWAIT)
	if nil != err {
		brdc.log.Errorf("send command: %s  error: %s", item.Command, err)
		return
	}
	last := len(item.Parameters) - 1
	for i, p := range item.Parameters {
		flags := zmq.SNDMORE | zmq.DONTWAIT
		if i == last {
			flags = zmq.DONTWAIT
		}
		if _, err := brdc.socket.SendBytes(p, flags); nil != err {
			brdc.log.Errorf("send parameter: %x  error: %s", p, err)
			return
		}
	}
}
