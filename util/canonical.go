// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"net"
	"strconv"
	"strings"

	"github.com/alexanderludwig/FlightSurety/fault"
)

// CanonicalIPandPort - make the IP:Port canonical
//
// examples:
//   IPv4:  127.0.0.1:1234
//   IPv6:  [::1]:1234
func CanonicalIPandPort(hostPort string) (string, error) {
	host, port, err := net.SplitHostPort(hostPort)
	if nil != err {
		return "", err
	}

	IP := net.ParseIP(strings.Trim(host, " "))
	if nil == IP {
		return "", fault.InvalidIPAddress
	}

	numericPort, err := strconv.Atoi(strings.Trim(port, " "))
	if nil != err {
		return "", err
	}
	if numericPort < 1 || numericPort > 65535 {
		return "", fault.InvalidPortNumber
	}

	if nil != IP.To4() {
		return IP.String() + ":" + strconv.Itoa(numericPort), nil
	}
	return "[" + IP.String() + "]:" + strconv.Itoa(numericPort), nil
}
