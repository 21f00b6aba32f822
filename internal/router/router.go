package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"littlesteps-backend/internal/handlers"
	"littlesteps-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	sessionHandler *handlers.SessionHandler,
	progressHandler *handlers.ProgressHandler,
	statsHandler *handlers.StatsHandler,
	presenceHandler *handlers.PresenceHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Session start/end limiter (60 req/min per IP)
	sessionLimiter := middleware.NewRateLimiter(60, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Usage Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			r.Group(func(r chi.Router) {
				r.Use(sessionLimiter.Middleware)
				r.Post("/start", sessionHandler.Start)
				r.Post("/end", sessionHandler.End)
			})

			r.Get("/learner/{id}", sessionHandler.List)
			r.Get("/learner/{id}/total-usage", sessionHandler.TotalUsage)
			r.Get("/learner/{id}/last-activity", sessionHandler.LastActivity)
		})

		// ──── Progress Routes ────
		r.Route("/progress", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/completions", progressHandler.RecordCompletion)
			r.Get("/{id}", progressHandler.GetByID)
			r.Post("/{id}/grade", progressHandler.Grade)
			r.Put("/learner/{id}", progressHandler.UpsertProgress)
			r.Get("/learner/{id}", progressHandler.ListByLearner)
			r.Get("/learner/{id}/recent", progressHandler.Recent)
			r.Get("/learner/{id}/stats", statsHandler.LearnerStats)
			r.Get("/learner/{id}/achievements", statsHandler.Achievements)
		})

		// ──── Class Reporting Routes ────
		r.Route("/activities", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/{id}/results", statsHandler.ActivityResults)
		})

		// ──── Presence Routes ────
		r.Route("/presence", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/recently-active", presenceHandler.RecentlyActive)
		})
	})

	return r
}
