// Package todo provides the client for the downstream todo lookup.
//
// It performs one GET against a fixed URL and decodes the `title`
// field of the JSON object it returns. Every failure comes back as an
// *errs.PipelineError so the request pipeline can render it directly.
package todo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/deppfellow/hello-service/internal/config"
	"github.com/deppfellow/hello-service/internal/errs"
	"github.com/deppfellow/hello-service/internal/model"
	"github.com/deppfellow/hello-service/internal/validation"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps how much of the downstream body is read.
const maxBodyBytes = 1 << 20

// Client wraps an http.Client bound to the lookup URL and a logger.
type Client struct {
	// client performs the outbound request. Its Timeout bounds the whole
	// call, including reading the body.
	client *http.Client

	// url is the fixed resource to read.
	url string

	logger *zerolog.Logger
}

// NewClient creates a lookup Client from config.
//
// The transport is wrapped with newrelic.NewRoundTripper, which records an
// external segment when the request context carries a transaction and
// does nothing otherwise.
func NewClient(cfg config.LookupConfig, logger *zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newrelic.NewRoundTripper(http.DefaultTransport),
		},
		url:    cfg.URL,
		logger: logger,
	}
}

// Fetch performs the lookup for the request identified by requestID.
//
// Errors:
//   - KindTransport: the request could not be made, timed out, was cancelled
//     through ctx, or answered with a non-2xx status
//   - KindDecode: the body is not a JSON object with a string `title`
func (c *Client) Fetch(ctx context.Context, requestID string) (model.Todo, error) {
	c.logger.Info().
		Str("request_id", requestID).
		Str("url", c.url).
		Msg("calling service")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return model.Todo{}, errs.NewTransportError(errors.WithStack(err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return model.Todo{}, errs.NewTransportError(errors.WithStack(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return model.Todo{}, errs.NewTransportError(
			errors.Errorf("Request failed with status code %d", resp.StatusCode),
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.Todo{}, errs.NewTransportError(errors.Wrap(err, "read response body"))
	}

	todo, err := DecodeTodo(body)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("request_id", requestID).
			Msg("could not decode service response")
		return model.Todo{}, err
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Msg("service call succeeded")

	return todo, nil
}

// DecodeTodo decodes a lookup response body.
//
// The body must be a JSON object; extra fields are ignored. `title` must be
// present, non-null, and a string (the empty string is allowed).
func DecodeTodo(body []byte) (model.Todo, error) {
	if !json.Valid(body) {
		return model.Todo{}, decodeError("body", "is not valid JSON")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return model.Todo{}, decodeError("body", "must be a JSON object")
	}

	raw, ok := fields["title"]
	if !ok || string(raw) == "null" {
		return model.Todo{}, decodeError("title", "is required")
	}

	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		return model.Todo{}, decodeError("title", "must be a string")
	}

	return model.Todo{Title: title}, nil
}

func decodeError(field, message string) error {
	return errs.NewDecodeError(validation.Lines([]errs.FieldError{{Field: field, Error: message}}))
}
