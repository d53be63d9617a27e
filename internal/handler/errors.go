package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trailcrew/internal/domain"
)

// ErrorDetail is the body of every non-2xx response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// maxRequestBody bounds JSON request bodies decoded by the handlers.
const maxRequestBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError rejects a request before it reaches the service layer
// (e.g. missing body or malformed path parameter).
func requestError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// fail maps a service error onto a status code. what names the resource
// for 404 messages, e.g. "trip".
func (s *Server) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", what+" not found")
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		writeError(w, http.StatusUnprocessableEntity, "invalid_status_transition", unwrapMessage(err))
	case errors.Is(err, domain.ErrValidation), domain.IsPolicyError(err):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrTripNotFinalized):
		writeError(w, http.StatusConflict, "trip_not_finalized", "trip dates are not finalized")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", what+" already exists")
	case errors.Is(err, domain.ErrConfiguration):
		s.logger.ErrorContext(r.Context(), "request blocked by configuration", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, "configuration_error", unwrapMessage(err))
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.SiteService.Create: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{
		domain.ErrValidation,
		domain.ErrInvalidStatusTransition,
		domain.ErrConfiguration,
	} {
		prefix := sentinel.Error() + ": "
		if i := strings.LastIndex(msg, prefix); i >= 0 && len(msg) > i+len(prefix) {
			return msg[i+len(prefix):]
		}
	}
	return msg
}

// decode reads a JSON body into dst and runs struct validation on it.
// It writes the 422 response itself and reports false when the body is unusable.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return s.decodeBody(w, r, dst, false)
}

// decodeOptional is decode for endpoints whose body may be left out.
// An empty body, chunked or not, leaves dst untouched.
func (s *Server) decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	return s.decodeBody(w, r, dst, true)
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		if optional {
			return true
		}
		requestError(w, "request body is required")
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if optional {
				return true
			}
			requestError(w, "request body is required")
			return false
		}
		requestError(w, "invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		requestError(w, validationMessage(err))
		return false
	}
	return true
}

// validationMessage turns validator field errors into "field: rule" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// pathParam binds a chi URL parameter using the OpenAPI simple style.
func pathParam(r *http.Request, name string, dest any) error {
	return runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
}

// queryParam binds an optional form-style query parameter.
func queryParam(r *http.Request, name string, dest any) error {
	return runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest)
}
