package inspect

import (
	"encoding/json"
	"net/http"

	"github.com/km-arc/go-scopes/framework/validation"
)

// ── Response ─────────────────────────────────────────────────────────────────

// response wraps http.ResponseWriter with the API's JSON envelope.
type response struct {
	w http.ResponseWriter
}

func newResponse(w http.ResponseWriter) *response {
	return &response{w: w}
}

// JSON sends v with the given status.
func (res *response) JSON(status int, v any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(v)
}

// Success sends 200 JSON: {"data": v}
func (res *response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Error sends {"message": message} with status.
func (res *response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// NotFound sends 404.
func (res *response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// ValidationError sends 422 with the error bag.
func (res *response) ValidationError(errors *validation.Errors) {
	res.JSON(http.StatusUnprocessableEntity, errors)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
