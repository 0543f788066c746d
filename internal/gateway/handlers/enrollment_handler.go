package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/enrollment"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/gateway/util"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// EnrollmentHandler exposes program enrollments over REST
type EnrollmentHandler struct {
	Enrollments *enrollment.Service
}

// RESTCourseStatusRequest mirrors the JSON input for the course status endpoint
type RESTCourseStatusRequest struct {
	Status shared.CourseStatus `json:"status"`
	Grade  string              `json:"grade,omitempty"`
}

// Create handles POST /enrollments
func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	var in enrollment.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	e, err := h.Enrollments.Create(ctx, user.ID, in)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, e)
}

// Get handles GET /enrollments/{id}
func (h *EnrollmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	e, err := h.Enrollments.Get(ctx, user.ID, chi.URLParam(r, "id"))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success":               true,
		"enrollment":            e,
		"completion_percentage": e.CompletionPercentage(),
		"active_courses":        e.ActiveCourses(),
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// List handles GET /enrollments
func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	enrollments, err := h.Enrollments.ListByUser(ctx, user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, enrollments)
}

// UpsertCourse handles PUT /enrollments/{id}/courses
func (h *EnrollmentHandler) UpsertCourse(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	var course shared.CourseRecord
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	e, err := h.Enrollments.UpsertCourse(ctx, user.ID, chi.URLParam(r, "id"), course)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, e)
}

// SetCourseStatus handles PATCH /enrollments/{id}/courses/{code}/status
func (h *EnrollmentHandler) SetCourseStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	var reqBody RESTCourseStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	e, err := h.Enrollments.SetCourseStatus(ctx, user.ID, chi.URLParam(r, "id"),
		chi.URLParam(r, "code"), reqBody.Status, reqBody.Grade)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, e)
}

// Stats handles GET /enrollments/stats
func (h *EnrollmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	counts, err := h.Enrollments.Stats(ctx, user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, counts)
}
