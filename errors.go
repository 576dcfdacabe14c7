package vehiclegraph

import "errors"

// ErrClientClosed is returned when closing a Client twice.
var ErrClientClosed = errors.New("vehiclegraph: client is closed")
