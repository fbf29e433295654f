package dispatch

const (
	LogPrefixDispatch = "internal.dispatch.Dispatch"

	placeholderFormat        = "Route %s not implemented yet"
	DefaultUnresolvedMessage = "Sorry, I could not understand your question. Could you rephrase it?"
)
