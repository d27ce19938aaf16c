package cache

import "errors"

// ErrUnavailable reports that the cache store could not be reached.
// It never leaves the gateway: callers degrade to a cache miss.
var ErrUnavailable = errors.New("cache unavailable")
