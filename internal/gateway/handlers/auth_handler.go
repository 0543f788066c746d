package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/auth"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/gateway/util"
)

// AuthHandler exposes login/logout/register over REST
type AuthHandler struct {
	Auth *auth.Service
}

// RESTRegisterRequest mirrors the JSON input for POST /auth/register
type RESTRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// RESTLoginRequest mirrors the JSON input for POST /auth/login
type RESTLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := h.Auth.Register(ctx, reqBody.Email, reqBody.Password, reqBody.Name)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, user, err := h.Auth.Login(ctx, reqBody.Email, reqBody.Password, r.RemoteAddr)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.WriteJSONError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if errors.Is(err, auth.ErrInactiveAccount) {
			util.WriteJSONError(w, http.StatusForbidden, "Account is inactive")
			return
		}
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user,
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenStr, err := util.ExtractToken(r)
	if err != nil {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.Logout(ctx, tokenStr); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "logout successful",
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := util.UserFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	util.WriteJSON(w, http.StatusOK, user)
}
