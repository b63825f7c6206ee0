package models

// Error taxonomy for the API surface. Handlers map these onto HTTP
// status codes; everything else is treated as an internal error.

// AuthError means the call carried no valid session. It is raised
// before any side effect.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "not authenticated"
	}
	return e.Message
}

// ValidationError reports a missing or malformed field. No side effect
// has happened when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// UnavailableError is returned on write paths when no database
// connection exists. Reads degrade to empty instead; writes must never
// be dropped silently.
type UnavailableError struct {
	Op string
}

func (e *UnavailableError) Error() string {
	if e.Op == "" {
		return "database not available"
	}
	return "database not available: cannot " + e.Op
}

// UpstreamError wraps any failure from the Telegram-automation service.
// Message carries the upstream detail when the response had one.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}
