package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"autocatalog/core"
	"autocatalog/identity"
	"autocatalog/storage"
)

const maxBodyBytes = 1 << 20 // 1MB

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// respondJSON writes a JSON response with proper error handling
func (a *API) respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Errorw("Failed to encode JSON response",
			"error", err,
			"data_type", fmt.Sprintf("%T", data))
		// Response already started, can't send error to client
	}
}

// writeError logs the full error internally and sends a generic
// envelope to the client; internals never leak into responses.
func (a *API) writeError(w http.ResponseWriter, statusCode int, message string, err error) {
	if err != nil {
		a.logger.Errorw(message,
			"error", err.Error(),
			"status_code", statusCode,
		)
	}
	a.respondJSON(w, errorResponse{Error: message}, statusCode)
}

// writeValidationError sends the per-field message list.
func (a *API) writeValidationError(w http.ResponseWriter, details []string) {
	a.respondJSON(w, errorResponse{Error: "validation failed", Details: details}, http.StatusBadRequest)
}

// decodeJSONBody decodes a request body into dst, rejecting unknown
// fields and oversized payloads.
func (a *API) decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// parseID extracts the numeric {id} path variable.
func parseID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id: %s", raw)
	}
	return id, nil
}

// handleServiceError maps service and storage errors onto HTTP status
// codes: not-found sentinels to 404, conflicts (stale version,
// uniqueness, foreign keys) to 409, bad query parameters to 400,
// everything else to a generic 500.
func (a *API) handleServiceError(w http.ResponseWriter, err error, logger *zap.SugaredLogger) {
	switch {
	case errors.Is(err, storage.ErrBrandNotFound),
		errors.Is(err, storage.ErrCategoryNotFound),
		errors.Is(err, storage.ErrEngineNotFound),
		errors.Is(err, storage.ErrModelNotFound),
		errors.Is(err, storage.ErrCarNotFound):
		a.respondJSON(w, errorResponse{Error: err.Error()}, http.StatusNotFound)
	case errors.Is(err, storage.ErrVersionConflict),
		errors.Is(err, storage.ErrDuplicateName),
		errors.Is(err, storage.ErrDuplicateSerialNumber),
		errors.Is(err, storage.ErrConstraintViolation):
		a.respondJSON(w, errorResponse{Error: err.Error()}, http.StatusConflict)
	case errors.Is(err, storage.ErrInvalidSortField),
		errors.Is(err, core.ErrInvalidYear):
		a.respondJSON(w, errorResponse{Error: err.Error()}, http.StatusBadRequest)
	case errors.Is(err, identity.ErrUserAlreadyExists):
		a.respondJSON(w, errorResponse{Error: err.Error()}, http.StatusConflict)
	case errors.Is(err, identity.ErrAuthenticationFailed):
		a.respondJSON(w, errorResponse{Error: err.Error()}, http.StatusUnauthorized)
	default:
		logger.Errorw("Unhandled service error", "error", err)
		a.respondJSON(w, errorResponse{Error: "internal server error"}, http.StatusInternalServerError)
	}
}

// getRealIP extracts the client IP, honoring X-Forwarded-For only when
// proxy trust is enabled.
func getRealIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ips := strings.Split(xff, ",")
			ip := strings.TrimSpace(ips[0])
			if ip != "" && net.ParseIP(ip) != nil {
				return ip
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" && net.ParseIP(xri) != nil {
			return xri
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
