package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/gateway/util"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/notification"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// NotificationHandler exposes notification operations over REST
type NotificationHandler struct {
	Notifications *notification.Service
}

// Create handles POST /admin/notifications (moderator/admin only)
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	var in notification.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.SenderID == "" {
		in.SenderID = user.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	n, err := h.Notifications.Create(ctx, in)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, n)
}

// List handles GET /notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	q := r.URL.Query()
	opts := notification.ListOptions{
		Type:            shared.NotificationType(q.Get("type")),
		UnreadOnly:      q.Get("unread") == "true",
		IncludeArchived: q.Get("archived") == "true",
		Page:            parseInt64(q.Get("page")),
		Limit:           parseInt64(q.Get("limit")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	notifications, err := h.Notifications.ListByUser(ctx, user.ID, opts)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, notifications)
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := h.Notifications.CountUnread(ctx, user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"count":   count,
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// MarkRead handles POST /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, user.ID, chi.URLParam(r, "id")); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "notification marked as read",
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := h.Notifications.MarkAllRead(ctx, user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"updated": count,
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// Archive handles POST /notifications/{id}/archive
func (h *NotificationHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

// Unarchive handles POST /notifications/{id}/unarchive
func (h *NotificationHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *NotificationHandler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	user, _ := util.UserFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Notifications.SetArchived(ctx, user.ID, chi.URLParam(r, "id"), archived); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// Cleanup handles POST /admin/notifications/cleanup
func (h *NotificationHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	count, err := h.Notifications.CleanupExpired(ctx)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"deleted": count,
	}
	util.WriteJSON(w, http.StatusOK, response)
}
