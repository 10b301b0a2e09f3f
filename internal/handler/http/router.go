package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/workledger/workledger-backend-go/internal/handler/http/middleware"
	"github.com/workledger/workledger-backend-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	timerHandler TimerHandler,
	timeEntryHandler TimeEntryHandler,
	calendarHandler CalendarHandler,
	analyticsHandler AnalyticsHandler,
	billingHandler BillingHandler,
	frontendURL string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workledger"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/timers", func(r chi.Router) {
				r.Post("/start", timerHandler.Start)
				r.Get("/active", timerHandler.GetActive)
				r.Post("/{id}/pause", timerHandler.Pause)
				r.Post("/{id}/resume", timerHandler.Resume)
				r.Post("/{id}/stop", timerHandler.Stop)
			})

			r.Route("/time-entries", func(r chi.Router) {
				r.Post("/", timeEntryHandler.Log)
				r.Get("/", timeEntryHandler.List)
				r.Get("/{id}", timeEntryHandler.Get)
				r.Put("/{id}", timeEntryHandler.Update)
				r.Delete("/{id}", timeEntryHandler.Delete)
			})

			r.Get("/calendar", calendarHandler.Get)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/analytics", func(r chi.Router) {
					r.Get("/packages", analyticsHandler.Packages)
					r.Get("/clients", analyticsHandler.Clients)
					r.Get("/employees", analyticsHandler.Employees)
				})

				r.Route("/billing-packages", func(r chi.Router) {
					r.Post("/", billingHandler.Create)
					r.Get("/", billingHandler.List)
					r.Get("/{id}", billingHandler.Get)
					r.Put("/{id}", billingHandler.Update)
					r.Delete("/{id}", billingHandler.Delete)
				})
			})
		})
	})

	return r
}
