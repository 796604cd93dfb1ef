package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogObserver writes one debug line per stage start and one line per stage
// end (warn on failure) to a request-scoped zerolog logger.
type LogObserver struct {
	logger *zerolog.Logger
}

// NewLogObserver returns an Observer logging to logger.
func NewLogObserver(logger *zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) BeforeStage(_ context.Context, state State, pc Context) {
	o.logger.Debug().
		Str("request_id", pc.RequestID).
		Str("stage", string(state)).
		Msg("stage started")
}

func (o *LogObserver) AfterStage(_ context.Context, state State, pc Context, err error, duration time.Duration) {
	if err != nil {
		o.logger.Warn().
			Err(err).
			Str("request_id", pc.RequestID).
			Str("stage", string(state)).
			Dur("duration", duration).
			Msg("stage failed")
		return
	}

	o.logger.Debug().
		Str("request_id", pc.RequestID).
		Str("stage", string(state)).
		Dur("duration", duration).
		Msg("stage completed")
}
