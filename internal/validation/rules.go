package validation

import (
	"github.com/deppfellow/hello-service/internal/errs"
	"github.com/deppfellow/hello-service/internal/model"
)

// DefaultMaxAge is the oldest age /hello greets.
const DefaultMaxAge = 41

// TooOldMessage is the response body when the age rule fails.
const TooOldMessage = "too old!"

// AgeRule rejects queries whose Age is above MaxAge.
type AgeRule struct {
	MaxAge int
}

// Check returns a KindRule *errs.PipelineError when q.Age > MaxAge.
// It does no I/O and never modifies q.
func (r AgeRule) Check(q model.Query) error {
	if q.Age > r.MaxAge {
		return errs.NewRuleError(TooOldMessage)
	}
	return nil
}
