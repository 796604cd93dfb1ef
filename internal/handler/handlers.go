package handler

import (
	"github.com/deppfellow/hello-service/internal/server"
	"github.com/deppfellow/hello-service/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	Hello *HelloHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Hello: NewHelloHandler(s, services.Greeting),
	}
}
