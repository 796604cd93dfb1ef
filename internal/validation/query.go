package validation

import (
	"net/url"
	"sort"
	"strconv"

	"github.com/deppfellow/hello-service/internal/errs"
	"github.com/deppfellow/hello-service/internal/model"
)

// helloQuery is the raw, still untyped shape of the /hello query string.
type helloQuery struct {
	Name string `query:"name" validate:"required"`
	Age  string `query:"age" validate:"required,integer"`
}

func (q *helloQuery) Validate() error {
	return Struct(q)
}

// allowedParams is the closed set of keys /hello accepts, in report order.
var allowedParams = []string{"name", "age"}

// DecodeQuery decodes raw query parameters into a model.Query.
//
// The schema is closed: unknown keys and repeated keys are failures too.
// Every failure is collected, so the returned *errs.PipelineError lists all
// of them at once: unknown keys first (sorted), then name, then age.
func DecodeQuery(values url.Values) (model.Query, error) {
	var fieldErrors []errs.FieldError

	unknown := make([]string, 0)
	for key := range values {
		if !isAllowed(key) {
			unknown = append(unknown, key)
		}
	}
	// Map order is random; keep messages stable.
	sort.Strings(unknown)
	for _, key := range unknown {
		fieldErrors = append(fieldErrors, errs.FieldError{Field: key, Error: "is not an allowed parameter"})
	}

	// A repeated key gets its own message and skips the tag checks.
	repeated := make(map[string]bool)
	for _, key := range allowedParams {
		if len(values[key]) > 1 {
			repeated[key] = true
		}
	}

	raw := &helloQuery{
		Name: values.Get("name"),
		Age:  values.Get("age"),
	}

	tagErrors := make(map[string]errs.FieldError)
	for _, fe := range Check(raw) {
		tagErrors[fe.Field] = fe
	}

	for _, key := range allowedParams {
		if repeated[key] {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: key, Error: "must be a single value"})
			continue
		}
		if fe, ok := tagErrors[key]; ok {
			fieldErrors = append(fieldErrors, fe)
		}
	}

	if len(fieldErrors) > 0 {
		return model.Query{}, errs.NewQueryError(Lines(fieldErrors))
	}

	// Validate already proved Atoi succeeds.
	age, _ := strconv.Atoi(raw.Age)

	return model.Query{Name: raw.Name, Age: age}, nil
}

func isAllowed(key string) bool {
	for _, allowed := range allowedParams {
		if key == allowed {
			return true
		}
	}
	return false
}
