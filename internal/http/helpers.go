package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"moco/internal/core"
	"moco/internal/services"
	"moco/internal/storage"
)

const maxBodyBytes = 1 << 20

type contextKey string

const userIDKey contextKey = "user_id"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

var validationErrs = []error{
	core.ErrInvalidType,
	core.ErrInvalidAmount,
	core.ErrInvalidPercent,
	core.ErrEmptyName,
	core.ErrMissingWallet,
	core.ErrInvalidTransfer,
	core.ErrInvalidFrequency,
	core.ErrInvalidPriority,
	core.ErrMissingCategory,
	core.ErrMissingDebt,
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrWalletInUse):
		return http.StatusConflict
	case errors.Is(err, services.ErrOverAllocated),
		errors.Is(err, services.ErrSubOverAllocated):
		return http.StatusUnprocessableEntity
	}
	for _, verr := range validationErrs {
		if errors.Is(err, verr) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func respondError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, status, msg)
}

func userID(r *http.Request) string {
	if id, ok := r.Context().Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
