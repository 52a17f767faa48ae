// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type UnauthorizedError GenericError
type ConsensusError GenericError

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string       { return string(e) }
func (e InvalidError) Error() string      { return string(e) }
func (e NotFoundError) Error() string     { return string(e) }
func (e ProcessError) Error() string      { return string(e) }
func (e UnauthorizedError) Error() string { return string(e) }
func (e ConsensusError) Error() string    { return string(e) }

// checks for the class of an error
func IsErrExists(e error) bool       { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool      { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool     { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool      { _, ok := e.(ProcessError); return ok }
func IsErrUnauthorized(e error) bool { _, ok := e.(UnauthorizedError); return ok }
func IsErrConsensus(e error) bool    { _, ok := e.(ConsensusError); return ok }

// common errors - keep in alphabetic order
var (
	AirlineAlreadyRegistered  = ExistsError("airline already registered")
	AirlineNotFound           = NotFoundError("airline not found")
	AlreadyInitialised        = ProcessError("already initialised")
	CertificateFileExists     = ExistsError("certificate file already exists")
	CertificateFileNotFound   = NotFoundError("certificate file not found")
	FlightAlreadyFinalised    = ExistsError("flight already finalised")
	FlightAlreadyRegistered   = ExistsError("flight already registered")
	FlightNotFound            = NotFoundError("flight not found")
	FlightNotPending          = InvalidError("flight not pending")
	InsufficientConfirmations = ConsensusError("insufficient confirmations")
	InvalidAmount             = InvalidError("invalid amount")
	InvalidFlightCode         = InvalidError("invalid flight code")
	InvalidIPAddress          = InvalidError("invalid IP Address")
	InvalidIdentity           = InvalidError("invalid identity")
	InvalidLoggerChannel      = InvalidError("invalid logger channel")
	InvalidMode               = InvalidError("invalid mode")
	InvalidPortNumber         = InvalidError("invalid port number")
	InvalidRegistrationFee    = InvalidError("invalid registration fee")
	InvalidStatusCode         = InvalidError("invalid status code")
	KeyFileExists             = ExistsError("key file already exists")
	KeyFileNotFound           = NotFoundError("key file not found")
	MissingParameters         = InvalidError("missing parameters")
	NotAuthorised             = UnauthorizedError("not authorised")
	NotInitialised            = ProcessError("not initialised")
	NotOperational            = UnauthorizedError("not operational")
	NotOwner                  = UnauthorizedError("not owner")
	NotParticipating          = UnauthorizedError("not participating")
	OracleAlreadyRegistered   = ExistsError("oracle already registered")
	OracleNotRegistered       = NotFoundError("oracle not registered")
	PurchaseCapExceeded       = InvalidError("purchase cap exceeded")
	RateLimiting              = ProcessError("rate limiting active")
)
