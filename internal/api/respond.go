package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alexanderramin/sitewise/internal/domain"
	"github.com/alexanderramin/sitewise/internal/narration"
	"github.com/alexanderramin/sitewise/internal/repository"
	"github.com/alexanderramin/sitewise/internal/service"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// errBadRequest marks malformed input that never reached a service.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto status codes. Unexpected errors are
// logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, service.ErrImportInvalid):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, narration.ErrUnknownView), errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			"request_id", middleware.GetReqID(r.Context()),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Join(errBadRequest, errors.New("id must be a positive integer"))
	}
	return id, nil
}

// queryID reads an optional positive integer query parameter.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.Join(errBadRequest, errors.New(name+" must be a positive integer"))
	}
	return &id, nil
}
