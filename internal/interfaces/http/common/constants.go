package common

const (
	// MaxRequestBody limits JSON request bodies for portal endpoints.
	MaxRequestBody = 1 << 20
	// DefaultPageSize is used when the client omits a limit.
	DefaultPageSize = 20
	// MaxPageSize caps list endpoints to keep payloads sane.
	MaxPageSize = 100
)
