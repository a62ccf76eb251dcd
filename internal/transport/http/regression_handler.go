package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salesreg/internal/errors"
	"salesreg/internal/exporter"
	"salesreg/internal/regression"
	"salesreg/internal/services"
	"salesreg/internal/store"
)

// Query parameters and form fields of the regression endpoints
const (
	ParamSeed  = "seed"
	ParamName  = "name"
	ParamLimit = "limit"
	FormFile   = "file"

	// MaxListLimit caps the limit query parameter of the run list
	MaxListLimit = 500
)

// RegressionService is the service surface used by RegressionHandler
type RegressionService interface {
	Fit(ctx context.Context, req services.RunRequest) (*regression.Report, error)
	GetRun(ctx context.Context, id string) (*store.Run, error)
	ListRuns(ctx context.Context, limit int) ([]store.Summary, error)
}

// RegressionHandler handles regression run HTTP requests
type RegressionHandler struct {
	service        RegressionService
	errorHandler   *apierrors.ErrorHandler
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewRegressionHandler creates a new regression handler
func NewRegressionHandler(service RegressionService, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, logger *slog.Logger) *RegressionHandler {
	return &RegressionHandler{
		service:        service,
		errorHandler:   errorHandler,
		logger:         logger.With(slog.String("handler", "regression")),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the regression routes
func (h *RegressionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Fit)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	return r
}

// Fit handles POST /api/v1/regressions. The dataset is either the raw
// request body (Content-Type text/csv or the XLSX media type) or the "file"
// part of a multipart form. With Accept: text/csv the response is the
// per-row predictions instead of the JSON report.
func (h *RegressionHandler) Fit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	seed, err := parseInt64(r, ParamSeed)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req, err := h.readUpload(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	req.Source = services.SourceHTTP
	req.Seed = seed

	report, err := h.service.Fit(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("X-Run-ID", report.RunID)
	if acceptsCSV(r) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="predictions-`+report.RunID+`.csv"`)
		if err := exporter.WritePredictions(w, report); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to stream predictions",
				slog.String("run_id", report.RunID),
				slog.String("error", err.Error()))
		}
		return
	}
	render.JSON(w, r, report)
}

// List handles GET /api/v1/regressions
func (h *RegressionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := parseInt64(r, ParamLimit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if limit < 0 || limit > MaxListLimit {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter(ParamLimit,
			fmt.Errorf("must be between 0 and %d", MaxListLimit)))
		return
	}

	runs, err := h.service.ListRuns(r.Context(), int(limit))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// Get handles GET /api/v1/regressions/{id}
func (h *RegressionHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, run)
}

// readUpload extracts the dataset bytes, file name and content type
func (h *RegressionHandler) readUpload(r *http.Request) (services.RunRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return services.RunRequest{}, err
		}
		return services.RunRequest{
			Name:        r.URL.Query().Get(ParamName),
			ContentType: r.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}

	file, header, err := r.FormFile(FormFile)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.RunRequest{}, tooLarge
		}
		return services.RunRequest{}, apierrors.InvalidParameter(FormFile, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.RunRequest{}, err
	}
	return services.RunRequest{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// parseInt64 reads an optional integer query parameter; absent means 0
func parseInt64(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierrors.InvalidParameter(name, err)
	}
	return v, nil
}

func acceptsCSV(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == "text/csv" {
			return true
		}
	}
	return false
}
