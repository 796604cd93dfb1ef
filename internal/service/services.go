package service

import (
	"github.com/deppfellow/hello-service/internal/lib/todo"
	"github.com/deppfellow/hello-service/internal/server"
	"github.com/deppfellow/hello-service/internal/validation"
)

// Services is a container that groups all business services.
type Services struct {
	Greeting *GreetingService
}

// NewService builds every service from the application container.
//
// The lookup stage is only part of the greeting pipeline when
// lookup.enabled is set.
func NewService(s *server.Server) (*Services, error) {
	var lookup Lookup
	if s.Config.Lookup.Enabled {
		lookup = todo.NewClient(s.Config.Lookup, s.Logger)
	}

	greeting := NewGreetingService(validation.AgeRule{MaxAge: s.Config.Rules.MaxAge}, lookup)

	return &Services{
		Greeting: greeting,
	}, nil
}
