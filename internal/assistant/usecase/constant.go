package usecase

const (
	LogPrefixAsk    = "internal.assistant.usecase.Ask"
	LogPrefixSync   = "internal.assistant.usecase.Sync"
	LogPrefixRoutes = "internal.assistant.usecase.Routes"
)
