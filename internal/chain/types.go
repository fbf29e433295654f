package chain

import "time"

// Transports
const (
	TransportHTTP   = "http"
	TransportNATS   = "nats"
	TransportStatic = "static"
)

// Spec describes the external handler of one route.
type Spec struct {
	Route     string
	Transport string
	URL       string        // http
	Subject   string        // nats
	Response  string        // static
	Timeout   time.Duration // http and nats; zero means DefaultTimeout
}

// Request is the body sent to http and nats handlers.
type Request struct {
	Query string `json:"query"`
}

// Reply is the body expected back. A non-empty Error fails the call.
type Reply struct {
	Answer string `json:"answer"`
	Error  string `json:"error,omitempty"`
}
