package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"tsclean/internal/cleanse"
	"tsclean/internal/infrastructure"
)

// ErrorHandler converts errors into APIError responses and logs them with
// request context.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{logger: logger.With(slog.String("component", "error_handler"))}
}

// HandleError renders err as a structured response. Pipeline condition
// errors become 400s carrying the offending condition in the details so the
// client can show the user exactly which filter to fix; everything else maps
// to a generic status.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", infrastructure.GetTraceID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	apiErr := h.toAPIError(err)
	if renderErr := render.Render(w, r, apiErr); renderErr != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}

func (h *ErrorHandler) toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if ce, ok := cleanse.AsConditionError(err); ok {
		code := "INVALID_OPERAND"
		if ce.Kind == cleanse.ErrKindUnknownColumn {
			code = "UNKNOWN_COLUMN"
		}
		return NewWithDetails(http.StatusBadRequest, code, ce.Error(), ce)
	}

	return InternalError(err)
}
