// Package response writes JSON bodies and maps domain errors to status codes.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status its kind maps to. Unexpected errors are
// logged and reported without detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var ve *apperr.ValidationError

	switch {
	case errors.As(err, &ve):
		body := errorBody{Error: err.Error()}
		if ve.Field != "" {
			body.Fields = map[string]string{ve.Field: ve.Message}
		}

		JSON(w, http.StatusBadRequest, body)
	case errors.Is(err, apperr.ErrValidation):
		JSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		JSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, apperr.ErrSourceUnavailable):
		JSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// Decode reads a JSON body into v and checks its validate tags.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("", fmt.Sprintf("invalid request body: %v", err))
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperr.Validation(fieldName(fe), describe(fe))
		}

		return apperr.Validation("", err.Error())
	}

	return nil
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "email":
		return "must be an email address"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
