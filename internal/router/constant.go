package router

// Log prefixes
const (
	LogPrefixRoute = "internal.router.Route"
)

// Router defaults, matching the sentence-transformer defaults the routes
// were tuned against.
const (
	DefaultTopK      = 5
	DefaultThreshold = 0.5
)

const tracerName = "intent-router/internal/router"
