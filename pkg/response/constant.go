package response

const (
	MessageSuccess = "Success"

	InternalServerErrorCode = 500
	DefaultErrorMessage     = "Something went wrong"

	ConflictCode           = 409
	TooManyRequestsCode    = 429
	BadGatewayCode         = 502
	ServiceUnavailableCode = 503
)
