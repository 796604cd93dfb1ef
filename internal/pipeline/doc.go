// Package pipeline runs a request through an ordered list of stages.
//
// Each Stage receives the Context accumulated so far and returns either an
// updated Context or an error. The first error ends the run: later stages
// are skipped and the error comes back wrapped in a *StageError naming the
// State that failed. A Pipeline never renders anything itself; the caller
// decides how success and failure are written out.
//
// An optional Observer sees every stage start and finish, which is where
// request-scoped logging hooks in:
//
//	p := &pipeline.Pipeline{
//		Name:     "hello",
//		Stages:   []pipeline.Stage{decode, validateAge},
//		Observer: pipeline.NewLogObserver(logger),
//	}
//	out, err := p.Run(ctx, pipeline.Context{RequestID: requestID})
package pipeline
