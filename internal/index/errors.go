package index

import "errors"

var (
	ErrInvalidTopK       = errors.New("top_k must be at least 1")
	ErrDimensionMismatch = errors.New("vector dimension does not match index")
)
