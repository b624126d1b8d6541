package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/payment"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]any {
	return map[string]any{"error": msg}
}

// writeError maps sentinel errors to HTTP statuses at the transport edge.
// Unknown errors become opaque 500s so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	var gw *payment.Error
	switch {
	case errors.Is(err, errs.ErrUnauthenticated), errors.Is(err, errs.ErrTokenInvalid):
		writeJSON(w, http.StatusUnauthorized, errorBody(err.Error()))
	case errors.Is(err, errs.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody(err.Error()))
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrResetToken):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
	case errors.Is(err, errs.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, errs.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorBody(err.Error()))
	case errors.As(err, &gw):
		writeJSON(w, http.StatusPaymentRequired, errorBody(gw.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", errs.ErrValidation)
	}
	return nil
}
