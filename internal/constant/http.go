package constant

const (
	ContextKeyRequestID      = "requestId"
	ContextKeyUser           = "user"
	ContextKeyTranslator     = "T"
	ContextKeyIdempotencyKey = "idempotencyKey"
)

const (
	RequestIDHeader      = "X-Zonefinder-Request-ID"
	IdempotencyKeyHeader = "X-Zonefinder-Idempotency-Key"
	// IdempotencyHeader is set to "saved" or "hit" on idempotent responses.
	IdempotencyHeader = "X-Zonefinder-Idempotency"

	IdempotencyKeyLengthLimit = 128

	BearerRealm = "Bearer "
)
