package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"runtime"
	"runtime/debug"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"salesreg/internal/dataset"
	"salesreg/internal/regression"
)

// Common error types following RFC 7807
const (
	TypeValidation       = "/errors/validation"
	TypeNotFound         = "/errors/not-found"
	TypeRateLimit        = "/errors/rate-limit"
	TypeInternal         = "/errors/internal"
	TypeTimeout          = "/errors/timeout"
	TypePayloadTooLarge  = "/errors/payload-too-large"
	TypeUnsupportedMedia = "/errors/unsupported-media-type"
	TypeMethodNotAllowed = "/errors/method-not-allowed"
)

// Domain-specific error types
const (
	TypeDatasetUnreadable = "/errors/dataset/unreadable"
	TypeParse             = "/errors/regression/parse"
	TypePrecondition      = "/errors/regression/insufficient-data"
	TypeSingular          = "/errors/regression/singular"
	TypeStorage           = "/errors/storage"
)

// Error classes reported as the error_type metric attribute
const (
	ClassParse        = "parse"
	ClassSingular     = "singular_matrix"
	ClassPrecondition = "precondition"
	ClassRead         = "read"
	ClassFormat       = "unsupported_format"
	ClassTooLarge     = "payload_too_large"
	ClassCanceled     = "canceled"
	ClassRequest      = "request"
	ClassNotFound     = "not_found"
	ClassStorage      = "storage"
	ClassInternal     = "internal"
)

// Classify returns a short stable label for err
func Classify(err error) string {
	var (
		parseErr    *regression.ParseError
		singularErr *regression.SingularMatrixError
		precondErr  *regression.PreconditionError
		readErr     *dataset.ReadError
		maxBytesErr *http.MaxBytesError
		apiErr      *APIError
		appErr      *AppError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &parseErr):
		return ClassParse
	case errors.As(err, &singularErr):
		return ClassSingular
	case errors.As(err, &precondErr):
		return ClassPrecondition
	case errors.As(err, &maxBytesErr):
		return ClassTooLarge
	case errors.As(err, &readErr):
		return ClassRead
	case errors.Is(err, dataset.ErrUnsupportedFormat):
		return ClassFormat
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ClassCanceled
	case errors.As(err, &apiErr):
		return ClassRequest
	case errors.As(err, &appErr) && appErr.Type == ErrTypeNotFound:
		return ClassNotFound
	case errors.As(err, &appErr) && appErr.Type == ErrTypeStorage:
		return ClassStorage
	default:
		return ClassInternal
	}
}

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	problem := h.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.String("error_type", Classify(err)),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem.WithExtension("trace_id", reqID)
	if h.includeStack {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	var parseErr *regression.ParseError
	if errors.As(err, &parseErr) {
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeParse,
			"Invalid Numeric Value",
			parseErr.Error(),
			r.URL.Path,
		).
			WithExtension("field", parseErr.Field).
			WithExtension("row", parseErr.SourceRow).
			WithExtension("value", parseErr.Value)
	}

	var singularErr *regression.SingularMatrixError
	if errors.As(err, &singularErr) {
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeSingular,
			"Singular Normal Matrix",
			"The features are constant or collinear, so the regression has no unique solution",
			r.URL.Path,
		).WithExtension("condition", formatCondition(singularErr.Condition))
	}

	var precondErr *regression.PreconditionError
	if errors.As(err, &precondErr) {
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypePrecondition,
			"Insufficient Data",
			precondErr.Error(),
			r.URL.Path,
		)
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return h.apiErrorToProblem(ErrPayloadTooLarge, r).WithExtension("limit", maxBytesErr.Limit)
	}

	var readErr *dataset.ReadError
	if errors.As(err, &readErr) {
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeDatasetUnreadable,
			"Unreadable Dataset",
			readErr.Error(),
			r.URL.Path,
		).WithExtension("format", string(readErr.Format))
	}

	if errors.Is(err, dataset.ErrUnsupportedFormat) {
		return h.apiErrorToProblem(ErrUnsupportedMediaType, r)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrTypeNotFound:
			return NewProblemDetails(http.StatusNotFound, TypeNotFound, "Resource Not Found", appErr.Message, r.URL.Path)
		case ErrTypeValidation:
			return NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", appErr.Message, r.URL.Path)
		case ErrTypeStorage:
			return NewProblemDetails(http.StatusInternalServerError, TypeStorage, "Storage Error",
				"The run history could not be accessed", r.URL.Path)
		}
	}

	return h.apiErrorToProblem(ErrInternalServer, r)
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "INVALID_PARAMETER", "MISSING_CONTENT_TYPE":
		problemType = TypeValidation
	case "NOT_FOUND":
		problemType = TypeNotFound
	case "PAYLOAD_TOO_LARGE":
		problemType = TypePayloadTooLarge
	case "UNSUPPORTED_MEDIA_TYPE":
		problemType = TypeUnsupportedMedia
	case "RATE_LIMIT_EXCEEDED":
		problemType = TypeRateLimit
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", reqID)

	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeMethodNotAllowed,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// formatCondition renders a condition number; JSON has no infinity
func formatCondition(c float64) string {
	if math.IsInf(c, 1) {
		return "inf"
	}
	return strconv.FormatFloat(c, 'g', 6, 64)
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
