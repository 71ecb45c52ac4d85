package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
	"github.com/dmitrymomot/letterpress/pkg/letter"
)

// statusClientClosedRequest is reported when the caller went away.
const statusClientClosedRequest = 499

var errMalformedBody = errors.New("malformed request body")

// errorBody is the JSON error payload.
type errorBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// statusOf maps an error class to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	}
	switch dispatch.Class(err) {
	case "input":
		return http.StatusUnprocessableEntity
	case "not_found":
		return http.StatusNotFound
	case "conflict":
		return http.StatusConflict
	case "collaborator":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// bodyOf builds the error payload. Internal details of resource and
// collaborator failures are not exposed.
func bodyOf(err error, status int) errorBody {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := map[string][]string{}
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			fields[field] = append(fields[field], fe.Tag())
		}
		return errorBody{Error: "validation_failed", Fields: fields}
	}

	var missing *letter.ValidationError
	if errors.As(err, &missing) {
		fields := make(map[string][]string, len(missing.Missing))
		for _, name := range missing.Missing {
			fields[name] = []string{"required"}
		}
		return errorBody{Error: "missing_variables", Fields: fields}
	}

	switch status {
	case http.StatusInternalServerError:
		return errorBody{Error: "internal_error"}
	case http.StatusBadGateway:
		return errorBody{Error: "upstream_failed"}
	case http.StatusGatewayTimeout:
		return errorBody{Error: "timeout"}
	}
	return errorBody{Error: err.Error()}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	attrs := []slog.Attr{
		slog.Int("status", status),
		slog.String("class", dispatch.Class(err)),
		slog.Any("error", err),
	}
	if name := dispatch.Collaborator(err); name != "" {
		attrs = append(attrs, slog.String("collaborator", name))
	}
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.LogAttrs(r.Context(), level, "request failed", attrs...)

	writeJSON(w, status, bodyOf(err, status))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
