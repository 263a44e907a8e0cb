package cordra

import "errors"

var (
	// ErrCordraAuth means the Cordra repository rejected the configured
	// credentials.
	ErrCordraAuth = errors.New("cordra authentication failed")

	// ErrCordraUnavailable means the Cordra repository could not be reached,
	// or responded with a server-side error.
	ErrCordraUnavailable = errors.New("cordra repository unavailable")

	// ErrCordraRejected means the Cordra repository refused the request, for
	// example because the object did not validate against its schema.
	ErrCordraRejected = errors.New("cordra rejected the request")
)
