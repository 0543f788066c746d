package util

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// JSONResponse structure for successful responses
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// JSONError structure for error responses
type JSONError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteJSON is a helper to write JSON responses
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var response interface{}

	// If payload is already a map with a "success" key, use it directly
	if responseMap, ok := payload.(map[string]interface{}); ok && responseMap["success"] != nil {
		response = payload
	} else if status >= 200 && status < 300 {
		response = JSONResponse{Success: true, Data: payload}
	} else {
		response = JSONError{Success: false, Message: "Unknown error"}
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}

// WriteJSONError is a helper to write standardized error JSON responses
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	log.Printf("HTTP Error %d: %s", status, message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResponse := JSONError{
		Success: false,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("Error writing JSON error response: %v", err)
	}
}

// HandleServiceError translates service-layer errors to HTTP responses.
// Validation failures keep their field name in the payload.
func HandleServiceError(w http.ResponseWriter, err error) {
	var ve *shared.ValidationError
	if errors.As(err, &ve) {
		log.Printf("HTTP Error %d: %s", http.StatusBadRequest, ve.Error())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(JSONError{Success: false, Message: ve.Message, Field: ve.Field})
		return
	}

	var ce *shared.ConflictError
	if errors.As(err, &ce) {
		WriteJSONError(w, http.StatusConflict, ce.Message)
		return
	}

	if errors.Is(err, shared.ErrNotFound) {
		WriteJSONError(w, http.StatusNotFound, "resource not found")
		return
	}

	var rwe *shared.RelatedWriteError
	if errors.As(err, &rwe) {
		// The primary write was aborted; the whole operation can be retried
		WriteJSONError(w, http.StatusBadGateway, "A dependent update failed; please retry the operation")
		return
	}

	WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
}

// ExtractToken extracts the token from the Authorization header (Bearer <token>)
func ExtractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	// Expect header: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}

// ctxKey is the private type for request-context keys shared between the
// gateway middleware and its handlers
type ctxKey int

const userKey ctxKey = 0

// WithUser injects the authenticated user into the request context
func WithUser(ctx context.Context, user *shared.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user injected by the auth middleware
func UserFromContext(ctx context.Context) (*shared.User, bool) {
	user, ok := ctx.Value(userKey).(*shared.User)
	return user, ok
}
