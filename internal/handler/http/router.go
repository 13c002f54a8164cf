package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-admin-console/internal/config"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/session"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Auth         AuthHandler
	Dashboard    DashboardHandler
	Employee     EmployeeHandler
	Attendance   AttendanceHandler
	Notification NotificationHandler
}

func NewRouter(cfg *config.Config, JWTService jwt.Service, store *session.Store, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
		Level:       cfg.SlogLevel(),
	})).With(
		slog.String("app", "hris-admin-console"),
		slog.String("env", cfg.App.Env),
	)

	if len(cfg.Console.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Console.AllowedOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"X-Query-Key"},
			MaxAge:           300,
		}))
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
		Skip: func(req *http.Request, respStatus int) bool {
			return req.URL.Path == "/events" && respStatus < 400
		},
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Get("/login", h.Auth.LoginPage)
	r.Post("/login", h.Auth.Login)
	r.Post("/logout", h.Auth.Logout)

	// Requires a console session
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.SessionRequired(JWTService, store))
		r.Use(middleware.AdminOnly)

		r.Get("/", h.Dashboard.Show)

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.Employee.List)
			r.Post("/", h.Employee.Create)
			r.Get("/search", h.Employee.Search)
			r.Get("/new", h.Employee.New)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/edit", h.Employee.Edit)
				r.Post("/", h.Employee.Update)
				r.Get("/delete", h.Employee.ConfirmDelete)
				r.Post("/delete", h.Employee.Delete)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", h.Attendance.List)
			r.Get("/photo", h.Attendance.Photo)
			r.Get("/export/{format}", h.Attendance.Export)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notification.List)
			r.Post("/{id}/dismiss", h.Notification.Dismiss)
		})

		r.Get("/events", h.Notification.Stream)
	})
	return r
}
