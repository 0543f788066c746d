package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/gateway/util"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/report"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// ReportHandler exposes report submission and the moderation surface
type ReportHandler struct {
	Reports *report.Service
}

// RESTAssignRequest mirrors the JSON input for POST /admin/reports/{id}/assign
type RESTAssignRequest struct {
	ModeratorID string `json:"moderator_id"`
}

// RESTEscalateRequest mirrors the JSON input for POST /admin/reports/{id}/escalate
type RESTEscalateRequest struct {
	Reason string `json:"reason"`
}

// RESTNoteRequest mirrors the JSON input for POST /admin/reports/{id}/notes
type RESTNoteRequest struct {
	Note string `json:"note"`
}

// Create handles POST /reports
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	var in report.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in.ReporterIP = clientIP(r)
	in.UserAgent = r.UserAgent()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rep, err := h.Reports.Create(ctx, user.ID, in)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, rep)
}

// clientIP extracts the bare client IP for report metadata. RemoteAddr is
// host:port on a direct connection but already a bare IP when the RealIP
// middleware rewrote it from a proxy header. The field is optional, so
// anything that would fail the stored reporter-IP contract yields an empty
// string instead of blocking the submission.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if !shared.IsReporterIP(addr) {
		return ""
	}
	return addr
}

// Get handles GET /admin/reports/{id}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rep, err := h.Reports.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	now := time.Now()
	response := map[string]interface{}{
		"success":      true,
		"report":       rep,
		"age_in_hours": rep.AgeInHours(now),
		"is_overdue":   rep.IsOverdue(now),
	}
	if hours := rep.ResolutionTimeHours(); hours != nil {
		response["resolution_time_hours"] = *hours
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// List handles GET /admin/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := report.ListOptions{
		Status:   shared.ReportStatus(q.Get("status")),
		Priority: shared.ReportPriority(q.Get("priority")),
		Category: shared.ReportCategory(q.Get("category")),
		Page:     parseInt64(q.Get("page")),
		Limit:    parseInt64(q.Get("limit")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reports, err := h.Reports.List(ctx, opts)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, reports)
}

// Assign handles POST /admin/reports/{id}/assign
func (h *ReportHandler) Assign(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	var reqBody RESTAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reqBody.ModeratorID == "" {
		// Default to self-assignment
		reqBody.ModeratorID = user.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rep, err := h.Reports.Assign(ctx, chi.URLParam(r, "id"), reqBody.ModeratorID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, rep)
}

// Resolve handles POST /admin/reports/{id}/resolve
func (h *ReportHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.closeReport(w, r, h.Reports.Resolve)
}

// Dismiss handles POST /admin/reports/{id}/dismiss
func (h *ReportHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.closeReport(w, r, h.Reports.Dismiss)
}

func (h *ReportHandler) closeReport(w http.ResponseWriter, r *http.Request, op func(context.Context, string, string, report.ResolveInput) (*shared.Report, error)) {
	user, _ := util.UserFromContext(r.Context())

	var in report.ResolveInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rep, err := op(ctx, chi.URLParam(r, "id"), user.ID, in)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, rep)
}

// Escalate handles POST /admin/reports/{id}/escalate. The acting moderator
// comes from the authenticated session, not the request body.
func (h *ReportHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	var reqBody RESTEscalateRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rep, err := h.Reports.Escalate(ctx, chi.URLParam(r, "id"), user.ID, reqBody.Reason)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, rep)
}

// AddNote handles POST /admin/reports/{id}/notes
func (h *ReportHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	user, _ := util.UserFromContext(r.Context())

	var reqBody RESTNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rep, err := h.Reports.AddInternalNote(ctx, chi.URLParam(r, "id"), user.ID, reqBody.Note)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, rep)
}

// FindSimilar handles GET /admin/reports/{id}/similar
func (h *ReportHandler) FindSimilar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reports, err := h.Reports.FindSimilar(ctx, chi.URLParam(r, "id"))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, reports)
}

// Stats handles GET /admin/reports/stats
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	stats, err := h.Reports.GetStats(ctx)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, stats)
}
