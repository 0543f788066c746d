package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/auth"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/bookmark"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/enrollment"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/gateway/handlers"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/gateway/util"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/material"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/notification"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/report"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// Services bundles the service layer handed to the router
type Services struct {
	Auth         *auth.Service
	Material     *material.Service
	Bookmark     *bookmark.Service
	Enrollment   *enrollment.Service
	Notification *notification.Service
	Report       *report.Service
}

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(cfg *shared.Config, svcs *Services) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	authHandler := &handlers.AuthHandler{Auth: svcs.Auth}
	materialHandler := &handlers.MaterialHandler{Materials: svcs.Material}
	bookmarkHandler := &handlers.BookmarkHandler{Bookmarks: svcs.Bookmark}
	enrollmentHandler := &handlers.EnrollmentHandler{Enrollments: svcs.Enrollment}
	notificationHandler := &handlers.NotificationHandler{Notifications: svcs.Notification}
	reportHandler := &handlers.ReportHandler{Reports: svcs.Report}

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// --- Public Routes ---

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Material catalog is publicly browsable
		r.Get("/materials", materialHandler.List)
		r.Get("/materials/{id}", materialHandler.Get)

		// --- Protected Routes (Require Valid Token) ---
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(svcs.Auth))

			r.Get("/auth/me", authHandler.Me)

			r.Post("/materials", materialHandler.Create)
			r.Delete("/materials/{id}", materialHandler.Delete)

			r.Route("/bookmarks", func(r chi.Router) {
				r.Get("/", bookmarkHandler.List)
				r.Post("/", bookmarkHandler.Create)
				r.Get("/reminders", bookmarkHandler.UpcomingReminders)
				r.Get("/most-accessed", bookmarkHandler.MostAccessed)
				r.Get("/{id}", bookmarkHandler.Get)
				r.Delete("/{id}", bookmarkHandler.Delete)
				r.Post("/{id}/access", bookmarkHandler.MarkAccessed)
				r.Put("/{id}/folder", bookmarkHandler.UpdateFolder)
				r.Post("/{id}/tags", bookmarkHandler.AddTags)
				r.Delete("/{id}/tags", bookmarkHandler.RemoveTags)
			})

			r.Route("/enrollments", func(r chi.Router) {
				r.Get("/", enrollmentHandler.List)
				r.Post("/", enrollmentHandler.Create)
				r.Get("/stats", enrollmentHandler.Stats)
				r.Get("/{id}", enrollmentHandler.Get)
				r.Put("/{id}/courses", enrollmentHandler.UpsertCourse)
				r.Patch("/{id}/courses/{code}/status", enrollmentHandler.SetCourseStatus)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/read-all", notificationHandler.MarkAllRead)
				r.Post("/{id}/read", notificationHandler.MarkRead)
				r.Post("/{id}/archive", notificationHandler.Archive)
				r.Post("/{id}/unarchive", notificationHandler.Unarchive)
			})

			// Anyone signed in can file a report
			r.Post("/reports", reportHandler.Create)

			// Moderation surface
			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireRole(shared.RoleModerator, shared.RoleAdmin))

				r.Get("/reports", reportHandler.List)
				r.Get("/reports/stats", reportHandler.Stats)
				r.Get("/reports/{id}", reportHandler.Get)
				r.Get("/reports/{id}/similar", reportHandler.FindSimilar)
				r.Post("/reports/{id}/assign", reportHandler.Assign)
				r.Post("/reports/{id}/resolve", reportHandler.Resolve)
				r.Post("/reports/{id}/dismiss", reportHandler.Dismiss)
				r.Post("/reports/{id}/escalate", reportHandler.Escalate)
				r.Post("/reports/{id}/notes", reportHandler.AddNote)
				r.Post("/notifications", notificationHandler.Create)
				r.Post("/notifications/cleanup", notificationHandler.Cleanup)
			})
		})
	})

	return r
}

// AuthMiddleware validates the bearer token and injects the authenticated
// user into the request context.
func AuthMiddleware(authSvc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := util.ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			user, err := authSvc.ValidateToken(ctx, tokenStr)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctxWithUser := util.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctxWithUser))
		})
	}
}

// RequireRole rejects requests whose authenticated user lacks one of the
// allowed roles. Must run after AuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := util.UserFromContext(r.Context())
			if !ok || !allowed[user.Role] {
				util.WriteJSONError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
