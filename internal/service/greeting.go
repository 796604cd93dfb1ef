package service

import (
	"context"
	"net/url"

	"github.com/deppfellow/hello-service/internal/model"
	"github.com/deppfellow/hello-service/internal/pipeline"
	"github.com/deppfellow/hello-service/internal/validation"
	"github.com/rs/zerolog"
)

// Lookup is the downstream read the greeting pipeline can include.
// *todo.Client implements it.
type Lookup interface {
	Fetch(ctx context.Context, requestID string) (model.Todo, error)
}

// GreetingService runs the /hello pipeline:
//
//	DecodingQuery -> ValidatingAge -> [CallingService]
//
// The request id is resolved before Greet is called and is passed to every
// stage through pipeline.Context.
type GreetingService struct {
	rule   validation.AgeRule
	lookup Lookup
	stages []pipeline.Stage
}

// NewGreetingService builds the service. A nil lookup leaves the
// CallingService stage out.
func NewGreetingService(rule validation.AgeRule, lookup Lookup) *GreetingService {
	s := &GreetingService{
		rule:   rule,
		lookup: lookup,
	}

	s.stages = []pipeline.Stage{
		{State: pipeline.StateValidatingAge, Run: s.validateAge},
	}
	if lookup != nil {
		s.stages = append(s.stages, pipeline.Stage{State: pipeline.StateCallingService, Run: s.callService})
	}

	return s
}

// WithLookup reports whether the CallingService stage is part of the pipeline.
func (s *GreetingService) WithLookup() bool {
	return s.lookup != nil
}

// Greet runs the pipeline for one request.
//
// values is decoded as the first stage. On failure the returned error wraps
// the *errs.PipelineError produced by the stage that failed; nothing after
// that stage ran.
func (s *GreetingService) Greet(ctx context.Context, logger *zerolog.Logger, requestID string, values url.Values) (model.Greeting, error) {
	p := &pipeline.Pipeline{
		Name:     "hello",
		Stages:   append([]pipeline.Stage{{State: pipeline.StateDecodingQuery, Run: decodeQuery(values)}}, s.stages...),
		Observer: pipeline.NewLogObserver(logger),
	}

	out, err := p.Run(ctx, pipeline.Context{RequestID: requestID})
	if err != nil {
		return model.Greeting{}, err
	}

	return model.Greeting{Query: *out.Query, Todo: out.Todo}, nil
}

func decodeQuery(values url.Values) pipeline.StageFunc {
	return func(_ context.Context, pc pipeline.Context) (pipeline.Context, error) {
		query, err := validation.DecodeQuery(values)
		if err != nil {
			return pc, err
		}
		pc.Query = &query
		return pc, nil
	}
}

func (s *GreetingService) validateAge(_ context.Context, pc pipeline.Context) (pipeline.Context, error) {
	if err := s.rule.Check(*pc.Query); err != nil {
		return pc, err
	}
	return pc, nil
}

func (s *GreetingService) callService(ctx context.Context, pc pipeline.Context) (pipeline.Context, error) {
	todo, err := s.lookup.Fetch(ctx, pc.RequestID)
	if err != nil {
		return pc, err
	}
	pc.Todo = &todo
	return pc, nil
}
