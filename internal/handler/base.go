package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/hello-service/internal/errs"
	"github.com/deppfellow/hello-service/internal/middleware"
	"github.com/deppfellow/hello-service/internal/pipeline"
	"github.com/deppfellow/hello-service/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Handler is the base handler type that holds shared application dependencies.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// --- Response rendering --------------------------------------------------------

// ResponseHandler defines how a handler result is written to the HTTP response,
// and how observability attributes should be attached for that response type.
//
// Every implementation sets X-Request-Id to the requestID it is given.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given result.
	Handle(c echo.Context, requestID string, result interface{}) error

	// GetOperation returns an operation name used for structured logging.
	GetOperation() string

	// AddAttributes attaches New Relic attributes based on the result.
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// TextResponseHandler writes a fmt.Stringer result as a text/plain body.
type TextResponseHandler struct {
	status int
}

func (h TextResponseHandler) Handle(c echo.Context, requestID string, result interface{}) error {
	body, ok := result.(fmt.Stringer)
	if !ok {
		return fmt.Errorf("text response: expected fmt.Stringer, got %T", result)
	}
	return writeText(c, h.status, requestID, body.String())
}

func (h TextResponseHandler) GetOperation() string {
	return "handler_text"
}

func (h TextResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by tracing middleware (EnhanceTracing).
}

// PipelineErrorHandler renders a failed pipeline: 400 with the
// *errs.PipelineError message verbatim as the body.
type PipelineErrorHandler struct{}

func (h PipelineErrorHandler) Handle(c echo.Context, requestID string, result interface{}) error {
	err, _ := result.(error)

	var pipelineErr *errs.PipelineError
	if !errors.As(err, &pipelineErr) {
		// Not a pipeline failure: the global error handler renders it.
		return err
	}
	return writeText(c, http.StatusBadRequest, requestID, pipelineErr.Message)
}

func (h PipelineErrorHandler) GetOperation() string {
	return "handler_pipeline_error"
}

func (h PipelineErrorHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn == nil {
		return
	}
	if err, ok := result.(error); ok {
		txn.AddAttribute("pipeline.error_kind", string(errs.KindOf(err)))
	}
}

func writeText(c echo.Context, status int, requestID, body string) error {
	c.Response().Header().Set(middleware.RequestIDHeader, requestID)
	return c.String(status, body)
}

// --- Request plumbing ----------------------------------------------------------

// PipelineFunc runs the business logic of an endpoint for one request.
type PipelineFunc func(c echo.Context, logger *zerolog.Logger, requestID string) (interface{}, error)

// handleRequest is the shared execution path for pipeline endpoints.
//
// It centralizes:
//
// - reading the request id resolved by the RequestID middleware
// - structured logging (with request context)
// - New Relic tracing attributes and error reporting
// - timing (handler duration)
// - rendering the success or the error branch
//
// The request id it reads is the one every branch renders.
func handleRequest(c echo.Context, run PipelineFunc, success ResponseHandler, failure ResponseHandler) error {
	start := time.Now()

	requestID := middleware.GetRequestID(c)
	if requestID == "" {
		// RequestID middleware not installed (e.g. handler mounted alone).
		requestID = middleware.ResolveRequestID(c.Request().Header.Get(middleware.RequestIDHeader))
	}

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", success.GetOperation()).
		Str("request_id", requestID).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Logger()

	logger.Info().Msg("handling request")

	result, err := run(c, &logger, requestID)
	duration := time.Since(start)

	logger.Debug().
		Str("stage", string(pipeline.StateRendering)).
		Bool("failed", err != nil).
		Msg("stage started")

	if err != nil {
		logger.Warn().
			Err(err).
			Str("error_kind", string(errs.KindOf(err))).
			Dur("handler_duration", duration).
			Msg("request pipeline failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", duration.Milliseconds())
			failure.AddAttributes(txn, err)
		}

		return failure.Handle(c, requestID, err)
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", duration.Milliseconds())
		success.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", duration).
		Msg("request completed successfully")

	return success.Handle(c, requestID, result)
}
