package dispatch

import "errors"

var ErrHandlerFailed = errors.New("route handler failed")
