package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/bookmark"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/gateway/util"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// BookmarkHandler exposes bookmark operations over REST
type BookmarkHandler struct {
	Bookmarks *bookmark.Service
}

// RESTFolderRequest mirrors the JSON input for PUT /bookmarks/{id}/folder
type RESTFolderRequest struct {
	Folder string `json:"folder"`
}

// RESTTagsRequest mirrors the JSON input for the tag endpoints
type RESTTagsRequest struct {
	Tags []string `json:"tags"`
}

// Create handles POST /bookmarks
func (h *BookmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := util.UserFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var in bookmark.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.MaterialID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "material_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	b, err := h.Bookmarks.Create(ctx, user.ID, in)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, b)
}

// Get handles GET /bookmarks/{id}
func (h *BookmarkHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookmarks.Get(ctx, user.ID, chi.URLParam(r, "id"))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	// Reminder status is computed at read time, never stored
	response := map[string]interface{}{
		"success":         true,
		"bookmark":        b,
		"reminder_status": b.ReminderState(time.Now()),
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// List handles GET /bookmarks
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	q := r.URL.Query()
	opts := bookmark.ListOptions{
		Folder:   q.Get("folder"),
		Priority: shared.BookmarkPriority(q.Get("priority")),
		Page:     parseInt64(q.Get("page")),
		Limit:    parseInt64(q.Get("limit")),
	}
	if tags := q.Get("tags"); tags != "" {
		opts.Tags = strings.Split(tags, ",")
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	bookmarks, err := h.Bookmarks.ListByUser(ctx, user.ID, opts)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, bookmarks)
}

// Delete handles DELETE /bookmarks/{id}
func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Bookmarks.Delete(ctx, user.ID, chi.URLParam(r, "id")); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "bookmark removed",
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// MarkAccessed handles POST /bookmarks/{id}/access
func (h *BookmarkHandler) MarkAccessed(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookmarks.MarkAccessed(ctx, user.ID, chi.URLParam(r, "id")); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "access recorded",
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// UpdateFolder handles PUT /bookmarks/{id}/folder
func (h *BookmarkHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	var reqBody RESTFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookmarks.UpdateFolder(ctx, user.ID, chi.URLParam(r, "id"), reqBody.Folder); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "folder updated",
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// AddTags handles POST /bookmarks/{id}/tags
func (h *BookmarkHandler) AddTags(w http.ResponseWriter, r *http.Request) {
	h.mutateTags(w, r, h.Bookmarks.AddTags)
}

// RemoveTags handles DELETE /bookmarks/{id}/tags
func (h *BookmarkHandler) RemoveTags(w http.ResponseWriter, r *http.Request) {
	h.mutateTags(w, r, h.Bookmarks.RemoveTags)
}

func (h *BookmarkHandler) mutateTags(w http.ResponseWriter, r *http.Request, op func(context.Context, string, string, []string) error) {
	user, _ := util.UserFromContext(r.Context())

	var reqBody RESTTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := op(ctx, user.ID, chi.URLParam(r, "id"), reqBody.Tags); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "tags updated",
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// UpcomingReminders handles GET /bookmarks/reminders
func (h *BookmarkHandler) UpcomingReminders(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	days := 7
	if d := r.URL.Query().Get("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil {
			days = parsed
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	bookmarks, err := h.Bookmarks.UpcomingReminders(ctx, user.ID, days)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, bookmarks)
}

// MostAccessed handles GET /bookmarks/most-accessed
func (h *BookmarkHandler) MostAccessed(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	bookmarks, err := h.Bookmarks.MostAccessed(ctx, user.ID, parseInt64(r.URL.Query().Get("limit")))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, bookmarks)
}
