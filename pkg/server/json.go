package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/noisegraph/noisegraph/pkg/errors"
	"github.com/noisegraph/noisegraph/pkg/expr"
	"github.com/noisegraph/noisegraph/pkg/graph"
	"github.com/noisegraph/noisegraph/pkg/store"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to an HTTP status using its code and writes the
// JSON error body. Unrecognized errors become 500s with a generic message
// so internals do not leak to clients.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := errors.UserMessage(err)
	code := string(errors.GetCode(err))

	if status == http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", RequestIDFrom(r.Context()))
		if code == "" {
			code = string(errors.ErrCodeInternal)
			msg = "internal error"
		}
	}
	if code == "" {
		switch {
		case stderrors.Is(err, store.ErrNotFound):
			code = string(errors.ErrCodeNotFound)
		case graph.IsBuildError(err):
			code = string(errors.ErrCodeInvalidGraph)
		case expr.IsCompileError(err):
			code = string(errors.ErrCodeCompile)
		default:
			code = string(errors.ErrCodeInvalidInput)
		}
	}

	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func statusFor(err error) int {
	if stderrors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	if graph.IsBuildError(err) {
		return http.StatusBadRequest
	}
	if expr.IsCompileError(err) {
		return http.StatusUnprocessableEntity
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeOutputNotFound,
		errors.ErrCodeFileNotFound, errors.ErrCodeDocumentNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidPatch,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath,
		errors.ErrCodeUnknownVariant:
		return http.StatusBadRequest
	case errors.ErrCodeCompile, errors.ErrCodeDimensionMismatch:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
