package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"tsclean/internal/cleanse"
	apierrors "tsclean/internal/errors"
	"tsclean/internal/services"
)

// PresetDTO is the JSON body of POST /api/presets.
type PresetDTO struct {
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description,omitempty"`
	Filters     []FilterDTO `json:"filters,omitempty" validate:"dive"`

	OutlierMethod string `json:"outlier_method" validate:"required"`
	Disposition   string `json:"disposition" validate:"required"`
	Normalization string `json:"normalization" validate:"required"`
}

// PresetHandler handles preset CRUD.
type PresetHandler struct {
	service      *services.PresetService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewPresetHandler creates a preset handler.
func NewPresetHandler(service *services.PresetService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PresetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PresetHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "preset_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the preset routes.
func (h *PresetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.ListPresets)
	r.Post("/", h.SavePreset)
	r.Get("/{name}", h.GetPreset)
	r.Delete("/{name}", h.DeletePreset)
	return r
}

// ListPresets handles GET /api/presets.
func (h *PresetHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := h.service.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"presets": presets,
		"count":   len(presets),
	})
}

// SavePreset handles POST /api/presets.
func (h *PresetHandler) SavePreset(w http.ResponseWriter, r *http.Request) {
	var dto PresetDTO
	if err := render.DecodeJSON(r.Body, &dto); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error()))
		return
	}

	opts := cleanse.Options{
		Outlier:       cleanse.OutlierMethod(dto.OutlierMethod),
		Disposition:   cleanse.Disposition(dto.Disposition),
		Normalization: cleanse.NormalizationMethod(dto.Normalization),
	}
	for _, f := range dto.Filters {
		opts.Conditions = append(opts.Conditions, cleanse.FilterCondition{
			Column: f.Column,
			Op:     cleanse.Operator(f.Operator),
			Value:  f.Value,
			Low:    f.Low,
			High:   f.High,
		})
	}
	if err := opts.Validate(); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.service.Save(r.Context(), dto.Name, dto.Description, opts); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"status": "saved", "name": dto.Name})
}

// GetPreset handles GET /api/presets/{name}.
func (h *PresetHandler) GetPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := h.service.Load(r.Context(), name)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("preset "+name))
		return
	}
	render.JSON(w, r, p)
}

// DeletePreset handles DELETE /api/presets/{name}.
func (h *PresetHandler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.service.Delete(r.Context(), name); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("preset "+name))
		return
	}
	render.JSON(w, r, map[string]string{"status": "deleted", "name": name})
}
