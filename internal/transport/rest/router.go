package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/applicant-tracking/internal/application"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
	"github.com/frahmantamala/applicant-tracking/internal/dashboard"
	"github.com/frahmantamala/applicant-tracking/internal/interview"
	"github.com/frahmantamala/applicant-tracking/internal/job"
	"github.com/frahmantamala/applicant-tracking/internal/notification"
	"github.com/frahmantamala/applicant-tracking/internal/scoring"
	"github.com/frahmantamala/applicant-tracking/internal/transport/middleware"
	"github.com/frahmantamala/applicant-tracking/internal/transport/swagger"
	"github.com/frahmantamala/applicant-tracking/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the domain handlers. A nil handler leaves its routes unregistered.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Job          *job.Handler
	Application  *application.Handler
	Interview    *interview.Handler
	Notification *notification.Handler
	Scoring      *scoring.Handler
	Dashboard    *dashboard.Handler
}

type Options struct {
	AllowedOrigins string
	// OpenAPISpec is served at /openapi.yml when set.
	OpenAPISpec []byte
	// RequestValidator runs on every /api/v1 request when set.
	RequestValidator func(http.Handler) http.Handler
	// RequestTimeout bounds ordinary requests, zero means the internal default.
	RequestTimeout time.Duration
	// OracleTimeout is added on top of RequestTimeout for routes that call the scoring or calendar oracle.
	OracleTimeout time.Duration
}

func RegisterAllRoutes(router *chi.Mux, db Pinger, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	staff := middleware.RequireRoles(auth.RoleHR, auth.RoleAdmin)
	candidates := middleware.RequireRoles(auth.RoleCandidate)
	admins := middleware.RequireRoles(auth.RoleAdmin)

	bounded := middleware.Timeout(opts.RequestTimeout)
	slow := middleware.Timeout(opts.RequestTimeout + opts.OracleTimeout)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if len(opts.OpenAPISpec) > 0 {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(opts.OpenAPISpec)
		})
		router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	}

	router.Route("/api/v1", func(r chi.Router) {
		if opts.RequestValidator != nil {
			r.Use(opts.RequestValidator)
		}

		r.Get("/health", healthHandler.Health)
		r.Get("/ping", healthHandler.Ping)

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Use(bounded)
			if h.User != nil {
				ar.Post("/register", h.User.Register)
			}
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
		})

		// listing open postings is public, everything else under /jobs needs a token
		r.Route("/jobs", func(jr chi.Router) {
			if h.Job != nil {
				jr.With(bounded).Get("/", h.Job.ListActive)
			}

			jr.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)

				if h.Scoring != nil {
					pr.With(slow, staff).Get("/{id}/ranking", h.Scoring.RankApplicants)
				}

				pr.Group(func(br chi.Router) {
					br.Use(bounded)
					if h.Job != nil {
						br.Get("/{id}", h.Job.GetJob)
					}

					br.Group(func(sr chi.Router) {
						sr.Use(staff)
						if h.Job != nil {
							sr.Post("/", h.Job.CreateJob)
							sr.Get("/mine", h.Job.ListMine)
							sr.Put("/{id}", h.Job.UpdateJob)
							sr.Patch("/{id}/close", h.Job.CloseJob)
							sr.Delete("/{id}", h.Job.DeleteJob)
						}
						if h.Application != nil {
							sr.Get("/{id}/applications", h.Application.ListForJob)
						}
						if h.Interview != nil {
							sr.Get("/{id}/interviews", h.Interview.ListForJob)
						}
						if h.Dashboard != nil {
							sr.Get("/{id}/stats", h.Dashboard.JobStats)
						}
					})
				})
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.Scoring != nil {
				pr.With(slow, candidates).Post("/matching/jobs", h.Scoring.MatchJobs)
			}

			// scheduling may book a calendar event before the insert
			if h.Interview != nil {
				pr.Route("/interviews", func(ir chi.Router) {
					ir.With(slow, staff).Post("/", h.Interview.ScheduleInterview)
					ir.With(slow, staff).Post("/bulk", h.Interview.BulkSchedule)

					ir.Group(func(br chi.Router) {
						br.Use(bounded)
						br.With(candidates).Get("/mine", h.Interview.ListMine)
						br.Get("/{id}", h.Interview.GetInterview)
						br.Group(func(sr chi.Router) {
							sr.Use(staff)
							sr.Put("/{id}", h.Interview.EditInterview)
							sr.Patch("/{id}/status", h.Interview.UpdateStatus)
							sr.Patch("/{id}/notes", h.Interview.AddPreparationNotes)
							sr.Put("/{id}/feedback", h.Interview.AddFeedback)
							sr.Delete("/{id}", h.Interview.DeleteInterview)
						})
					})
				})
			}

			pr.Group(func(br chi.Router) {
				br.Use(bounded)
				registerProtected(br, h, staff, candidates, admins)
			})
		})
	})
}

func registerProtected(r chi.Router, h Handlers, staff, candidates, admins func(http.Handler) http.Handler) {
	if h.User != nil {
		r.Get("/users/me", h.User.GetCurrentUser)
		r.Put("/users/me", h.User.UpdateCurrentUser)
		r.Put("/users/me/calendar", h.User.ConnectCalendar)
		r.With(admins).Get("/users", h.User.ListUsers)
		r.With(admins).Patch("/users/{id}/status", h.User.SetStatus)
	}

	if h.Application != nil {
		r.Route("/applications", func(ar chi.Router) {
			ar.With(candidates).Post("/", h.Application.SubmitApplication)
			ar.With(candidates).Get("/mine", h.Application.ListMine)
			ar.Get("/{id}", h.Application.GetApplication)
			ar.With(staff).Patch("/{id}/status", h.Application.UpdateStatus)
			ar.With(staff).Patch("/{id}/notes", h.Application.AddNotes)
			ar.With(admins).Delete("/{id}", h.Application.DeleteApplication)
		})
	}

	if h.Notification != nil {
		r.Route("/notifications", func(nr chi.Router) {
			nr.Get("/", h.Notification.List)
			nr.Get("/unread-count", h.Notification.UnreadCount)
			nr.Patch("/read-all", h.Notification.MarkAllRead)
			nr.Patch("/{id}/read", h.Notification.MarkRead)
			nr.Delete("/{id}", h.Notification.Delete)
		})
	}

	if h.Dashboard != nil {
		r.With(staff).Get("/dashboard/summary", h.Dashboard.Summary)
	}
}
