package handler

import (
	"net/http"

	"github.com/deppfellow/hello-service/internal/server"
	"github.com/deppfellow/hello-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HelloHandler serves GET /hello.
type HelloHandler struct {
	Handler
	greeting *service.GreetingService
}

// NewHelloHandler constructs a HelloHandler.
func NewHelloHandler(s *server.Server, greeting *service.GreetingService) *HelloHandler {
	return &HelloHandler{
		Handler:  NewHandler(s),
		greeting: greeting,
	}
}

// Hello greets the caller named in the query.
//
//	GET /hello?name=Alice&age=30  ->  200 "Hello Alice!"
//	GET /hello?name=Bob&age=50    ->  400 "too old!"
//
// Both branches carry X-Request-Id.
func (h *HelloHandler) Hello(c echo.Context) error {
	return handleRequest(c, func(c echo.Context, logger *zerolog.Logger, requestID string) (interface{}, error) {
		return h.greeting.Greet(c.Request().Context(), logger, requestID, c.QueryParams())
	}, TextResponseHandler{status: http.StatusOK}, PipelineErrorHandler{})
}
