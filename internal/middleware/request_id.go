package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// RequestIDHeader is the HTTP header carrying the request correlation ID,
	// inbound and outbound. Header lookup is case-insensitive, so an inbound
	// `x-request-id` matches too.
	RequestIDHeader = echo.HeaderXRequestID

	// RequestIDKey is the internal key used to store the ID in Echo context.
	RequestIDKey = "request_id"
)

// ResolveRequestID returns the correlation id for a request whose inbound
// header value is header.
//
// A non-empty header is used verbatim. Anything else (absent or empty) gets
// a fresh random UUID v4. It never fails and never returns "".
func ResolveRequestID(header string) string {
	if header != "" {
		return header
	}
	return uuid.New().String()
}

// RequestID returns an Echo middleware that resolves the request ID once per
// request.
//
// Behavior:
//   - Resolve it from the inbound X-Request-Id header.
//   - Store it in Echo context (c.Set) for internal access.
//   - Set it on the response header so every response carries it, including
//     the ones written by the global error handler.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := ResolveRequestID(c.Request().Header.Get(RequestIDHeader))

			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}

// GetRequestID retrieves the request ID from Echo context.
//
// Returns empty string if not set.
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
