package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/hello-service/internal/model"
)

// State names a step of the request lifecycle.
type State string

const (
	StateResolvingID    State = "ResolvingId"
	StateDecodingQuery  State = "DecodingQuery"
	StateValidatingAge  State = "ValidatingAge"
	StateCallingService State = "CallingService"
	StateRendering      State = "Rendering"
)

// Context is the value threaded through the stages of one request.
//
// RequestID is set before the run starts and is never changed by a stage.
// Query and Todo are filled in by the stages that produce them.
type Context struct {
	RequestID string
	Query     *model.Query
	Todo      *model.Todo
}

// StageFunc is the body of a stage.
type StageFunc func(ctx context.Context, pc Context) (Context, error)

// Stage pairs a StageFunc with the State it represents.
type Stage struct {
	State State
	Run   StageFunc
}

// Observer provides pre/post hooks around each stage. Hooks must not block;
// they cannot fail the run.
type Observer interface {
	BeforeStage(ctx context.Context, state State, pc Context)
	AfterStage(ctx context.Context, state State, pc Context, err error, duration time.Duration)
}

// Pipeline is an ordered, short-circuiting list of stages.
type Pipeline struct {
	Name     string
	Stages   []Stage
	Observer Observer
}

// StageError records which stage stopped the run.
type StageError struct {
	State State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Run executes the stages in order, starting from pc.
//
// On success it returns the final Context. On the first stage error it
// returns the Context as it was before that stage and a *StageError.
// Stages that block (the lookup) are expected to honour ctx themselves.
func (p *Pipeline) Run(ctx context.Context, pc Context) (Context, error) {
	for _, stage := range p.Stages {
		if p.Observer != nil {
			p.Observer.BeforeStage(ctx, stage.State, pc)
		}

		start := time.Now()
		next, err := stage.Run(ctx, pc)
		duration := time.Since(start)

		if p.Observer != nil {
			p.Observer.AfterStage(ctx, stage.State, pc, err, duration)
		}

		if err != nil {
			return pc, &StageError{State: stage.State, Err: err}
		}
		pc = next
	}
	return pc, nil
}
