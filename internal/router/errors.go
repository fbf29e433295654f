package router

import "errors"

var ErrInvalidQuery = errors.New("query must not be empty")
