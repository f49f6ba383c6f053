package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	apperrors "smartparking/internal/errors"
	"smartparking/internal/logger"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

// writeError renders err as JSON. Errors without an HTTP status are logged and
// reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if httpErr, ok := apperrors.As(err); ok {
		writeJSON(w, httpErr.Code, httpErr)
		return
	}
	log.Error().Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
	logger.ErrorWithStack(err)
	writeJSON(w, http.StatusInternalServerError, apperrors.ErrInternal("internal server error"))
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || v <= 0 {
		return 0, apperrors.ErrBadRequest("invalid " + name)
	}
	return v, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return fallback
	}
	return v
}
