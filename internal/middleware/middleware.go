// Package middleware stores global middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request id resolution, request logging, tracing,
// secure headers, and panic recovery
package middleware
