// Package engine is the request dispatcher. It validates caller parameters,
// resolves credentials and defaults from an explicit environment snapshot and
// an optional provider config file, selects exactly one provider profile, and
// turns the single outbound request into a normalized [Result].
//
// Errors that can be detected before any I/O ([ErrInvalidParameter],
// [ErrMissingCredential], [ErrMissingEndpoint]) are returned to the caller.
// Once a request has been attempted, failures are reported inside the Result
// ([ErrNetworkFailure], [ErrUnexpectedResponseShape]) and Invoke returns a
// nil error.
//
// An Engine holds no mutable state and is safe for concurrent use.
package engine
