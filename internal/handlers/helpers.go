package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tamarabusta/Aerolineas/internal/repository"
	"github.com/tamarabusta/Aerolineas/internal/service"
)

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}

	// reject a second JSON object in the body
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("only one JSON object is allowed")
	}

	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeRawJSON(w http.ResponseWriter, status int, b []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// writeServiceError maps service and repository error kinds onto HTTP
// statuses. Booking conflicts are 409, a departed flight is 422 and code
// exhaustion surfaces as a plain 500: the client did nothing wrong, the
// code space is simply saturated.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrStaleFlight):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrDuplicateBooking),
		errors.Is(err, service.ErrSeatUnavailable),
		errors.Is(err, repository.ErrDuplicateDocument):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrCodeExhausted):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
