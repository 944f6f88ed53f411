package models

const (
	// AuthHeader carries the session credential on every authenticated call.
	// The server expects this exact header, not an Authorization bearer.
	AuthHeader = "x-auth-token"

	// RequestIDHeader is attached to outbound calls for server-side tracing.
	RequestIDHeader = "x-request-id"

	// CredentialKey is the fixed key the credential is stored under locally.
	CredentialKey = "auth_token"

	// DefaultCurrency is the currency payment orders are denominated in.
	DefaultCurrency = "INR"

	// MinorUnitFactor converts a service price to the smallest currency unit.
	MinorUnitFactor = 100
)

const (
	DefaultStateTTL       = 1800 // seconds, draft state lifetime
	DefaultRequestTimeout = 10   // seconds, outbound HTTP timeout
)
