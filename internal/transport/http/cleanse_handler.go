// Package http provides the chi HTTP handlers of the cleaning service.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"tsclean/internal/cleanse"
	"tsclean/internal/config"
	apierrors "tsclean/internal/errors"
	"tsclean/internal/services"
)

// CleanseRequestDTO is the JSON body of POST /api/cleanse.
type CleanseRequestDTO struct {
	InputPath  string      `json:"input_path" validate:"required"`
	OutputPath string      `json:"output_path,omitempty"`
	Preset     string      `json:"preset,omitempty"`
	Filters    []FilterDTO `json:"filters,omitempty" validate:"dive"`

	OutlierMethod string `json:"outlier_method,omitempty"`
	Disposition   string `json:"disposition,omitempty"`
	Normalization string `json:"normalization,omitempty"`

	SnapTimestamps  bool   `json:"snap_timestamps,omitempty"`
	SnapInterval    string `json:"snap_interval,omitempty"`
	RealignStart    string `json:"realign_start,omitempty"`
	RealignInterval string `json:"realign_interval,omitempty"`

	BOMPrefix bool `json:"bom_prefix,omitempty"`
}

// FilterDTO is one row condition in a cleanse request.
type FilterDTO struct {
	Column   string  `json:"column" validate:"required"`
	Operator string  `json:"operator" validate:"required"`
	Value    float64 `json:"value,omitempty"`
	Low      float64 `json:"low,omitempty"`
	High     float64 `json:"high,omitempty"`
}

// CleanseHandler handles cleaning runs and file inspection.
type CleanseHandler struct {
	service      *services.CleanseService
	presets      *services.PresetService
	defaults     config.PipelineConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewCleanseHandler creates a cleanse handler.
func NewCleanseHandler(service *services.CleanseService, presets *services.PresetService, defaults config.PipelineConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CleanseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanseHandler{
		service:      service,
		presets:      presets,
		defaults:     defaults,
		logger:       logger.With(slog.String("component", "cleanse_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the cleanse routes.
func (h *CleanseHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.RunCleanse)
	r.Get("/columns", h.GetColumns)
	return r
}

// RunCleanse handles POST /api/cleanse.
func (h *CleanseHandler) RunCleanse(w http.ResponseWriter, r *http.Request) {
	var dto CleanseRequestDTO
	if err := render.DecodeJSON(r.Body, &dto); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error()))
		return
	}

	req, err := h.buildRequest(r, dto)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Run(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// buildRequest resolves presets, defaults, and duration strings into a
// service request.
func (h *CleanseHandler) buildRequest(r *http.Request, dto CleanseRequestDTO) (services.CleanseRequest, error) {
	opts := h.defaults.DefaultOptions()
	if dto.Preset != "" {
		p, err := h.presets.Load(r.Context(), dto.Preset)
		if err != nil {
			return services.CleanseRequest{}, apierrors.NotFoundError("preset " + dto.Preset)
		}
		opts = p.Settings
	}

	if len(dto.Filters) > 0 {
		opts.Conditions = make([]cleanse.FilterCondition, len(dto.Filters))
		for i, f := range dto.Filters {
			opts.Conditions[i] = cleanse.FilterCondition{
				Column: f.Column,
				Op:     cleanse.Operator(f.Operator),
				Value:  f.Value,
				Low:    f.Low,
				High:   f.High,
			}
		}
	}
	if dto.OutlierMethod != "" {
		opts.Outlier = cleanse.OutlierMethod(dto.OutlierMethod)
	}
	if dto.Disposition != "" {
		opts.Disposition = cleanse.Disposition(dto.Disposition)
	}
	if dto.Normalization != "" {
		opts.Normalization = cleanse.NormalizationMethod(dto.Normalization)
	}
	if err := opts.Validate(); err != nil {
		return services.CleanseRequest{}, apierrors.InvalidRequestWithError(err)
	}

	req := services.CleanseRequest{
		InputPath:      dto.InputPath,
		OutputPath:     dto.OutputPath,
		Options:        opts,
		SnapTimestamps: dto.SnapTimestamps,
		BOMPrefix:      dto.BOMPrefix,
	}
	if dto.SnapInterval != "" {
		d, err := time.ParseDuration(dto.SnapInterval)
		if err != nil {
			return services.CleanseRequest{}, apierrors.ErrValidation("snap_interval", err.Error())
		}
		req.SnapInterval = d
	}
	if dto.RealignStart != "" {
		ts, err := time.Parse("2006-01-02 15:04:05", dto.RealignStart)
		if err != nil {
			return services.CleanseRequest{}, apierrors.ErrValidation("realign_start", err.Error())
		}
		req.RealignStart = &ts
	}
	if dto.RealignInterval != "" {
		d, err := time.ParseDuration(dto.RealignInterval)
		if err != nil {
			return services.CleanseRequest{}, apierrors.ErrValidation("realign_interval", err.Error())
		}
		req.RealignInterval = d
	}
	return req, nil
}

// GetColumns handles GET /api/cleanse/columns?file=...
func (h *CleanseHandler) GetColumns(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "query parameter is required"))
		return
	}
	infos, err := h.service.Inspect(r.Context(), file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"columns": infos})
}
