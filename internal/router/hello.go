package router

import (
	"github.com/deppfellow/hello-service/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerHelloRoutes registers the greeting endpoint.
func registerHelloRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/hello", h.Hello.Hello)
}
