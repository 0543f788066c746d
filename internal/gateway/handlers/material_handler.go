package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/gateway/util"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/material"
)

// MaterialHandler exposes the study material catalog over REST
type MaterialHandler struct {
	Materials *material.Service
}

// Create handles POST /materials
func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := util.UserFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var in material.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	m, err := h.Materials.Create(ctx, user.ID, in)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, m)
}

// Get handles GET /materials/{id}
func (h *MaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	m, err := h.Materials.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, m)
}

// List handles GET /materials
func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := material.ListOptions{
		Subject:    q.Get("subject"),
		CourseCode: q.Get("course_code"),
		Tag:        q.Get("tag"),
		UploaderID: q.Get("uploader_id"),
		Page:       parseInt64(q.Get("page")),
		Limit:      parseInt64(q.Get("limit")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	materials, err := h.Materials.List(ctx, opts)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, materials)
}

// Delete handles DELETE /materials/{id} (soft delete, uploader or admin only)
func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := util.UserFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	m, err := h.Materials.Get(ctx, id)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	if m.UploaderID != user.ID && user.Role != "admin" {
		util.WriteJSONError(w, http.StatusForbidden, "Only the uploader can delete a material")
		return
	}

	if err := h.Materials.SoftDelete(ctx, id); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "material deleted",
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// parseInt64 parses a query parameter, returning 0 for empty/invalid input
func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
