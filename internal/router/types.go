package router

// Config tunes scoring.
type Config struct {
	TopK             int     // Hits fetched per query across all routes
	DefaultThreshold float64 // Used by routes without their own threshold
}

// DefaultConfig returns DefaultTopK and DefaultThreshold.
func DefaultConfig() Config {
	return Config{TopK: DefaultTopK, DefaultThreshold: DefaultThreshold}
}
