// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps the only route,
// GET /hello, to its handler
package router

import (
	"github.com/deppfellow/hello-service/internal/handler"
	"github.com/deppfellow/hello-service/internal/middleware"
	"github.com/deppfellow/hello-service/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance.
//
// Middleware order matters:
//  1. RequestID first, so every later layer (and every response) has the id
//  2. New Relic transaction, then the context logger that reads its trace ids
//  3. tracing attributes, access log, secure headers
//  4. Recover last, so panics in the handler still pass through the layers above
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Secure(),
		middlewares.Global.Recover(),
	)

	registerHelloRoutes(router, h)

	return router
}
