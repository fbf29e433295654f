package response

// Resp is the JSON body of every API response. ErrorCode is 0 on success,
// 1 for a rejected request and the HTTP status for server-side failures.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}
