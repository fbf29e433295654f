package middleware

import (
	"intent-router/pkg/log"
)

type Middleware struct {
	l          log.Logger
	limiter    *rateLimiter
	adminToken string
}

// New builds the middleware set. requestsPerMin <= 0 disables rate limiting;
// an empty adminToken leaves admin routes open.
func New(l log.Logger, requestsPerMin int, adminToken string) Middleware {
	mw := Middleware{
		l:          l,
		adminToken: adminToken,
	}
	if requestsPerMin > 0 {
		mw.limiter = newRateLimiter(requestsPerMin)
	}
	return mw
}
