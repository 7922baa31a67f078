package middleware

// contextKey is a private type for request context values.
type contextKey string
