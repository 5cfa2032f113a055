package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"profesorhub/internal/core"
	applog "profesorhub/internal/log"
	"profesorhub/internal/services"
	"profesorhub/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", applog.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps domain and store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, services.ErrDuplicatePayment):
		writeError(w, http.StatusConflict, "duplicate payment for period, confirm to register anyway")
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidYear),
		errors.Is(err, core.ErrInvalidTipo),
		errors.Is(err, core.ErrMissingStudent),
		errors.Is(err, services.ErrMissingFechaPago):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			applog.FieldError, err,
			applog.FieldPath, r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// montoCents accepts the amount either as a JSON number in pesos or as a
// decimal string with dot or comma.
func montoCents(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, core.ErrInvalidAmount
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, core.ErrInvalidAmount
		}
		return core.ParseDecimalToCents(str)
	}
	var pesos float64
	if err := json.Unmarshal(raw, &pesos); err != nil {
		return 0, core.ErrInvalidAmount
	}
	cents := core.CoerceCents(pesos)
	if cents <= 0 {
		return 0, core.ErrInvalidAmount
	}
	return cents, nil
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryPeriod reads mes/anio query params, defaulting to the current period.
func queryPeriod(r *http.Request, fallback core.Period) (core.Period, bool) {
	period := fallback
	if v := r.URL.Query().Get("mes"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return core.Period{}, false
		}
		period.Mes = m
	}
	if v := r.URL.Query().Get("anio"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return core.Period{}, false
		}
		period.Anio = y
	}
	if err := period.Validate(); err != nil {
		return core.Period{}, false
	}
	return period, true
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
