package api

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/joblink/joblink/pkg/apperr"
)

// envelope is the response shape shared by every /api route:
// {"success":true,"data":...,"message":...} on success,
// {"success":false,"message":...,"errors":{field:msg}} on failure.
type envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func writeData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, envelope{Success: true, Data: data, Message: message}, status)
}

// writeError is the single boundary translating the error taxonomy into HTTP.
// Anything without a taxonomy kind becomes a bare 500; internals never leak.
func writeError(w http.ResponseWriter, err error) {
	if e := apperr.As(err); e != nil {
		if e.Kind == apperr.KindInternal {
			logger.Error("internal error", slog.Any("err", err))
			writeJSON(w, envelope{Success: false, Message: "Internal Server Error"}, http.StatusInternalServerError)
			return
		}
		writeJSON(w, envelope{Success: false, Message: e.Message, Errors: e.Fields}, e.Status())
		return
	}

	logger.Error("unexpected error", slog.Any("err", err))
	writeJSON(w, envelope{Success: false, Message: "Internal Server Error"}, http.StatusInternalServerError)
}
