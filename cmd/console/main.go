package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-admin-console/internal/handler/http"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/view"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notify"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/querycache"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/session"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/storage"
	attendanceService "github.com/cmlabs-hris/hris-admin-console/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hris-admin-console/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/hris-admin-console/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hris-admin-console/internal/service/employee"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Console stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session and its persistence
	store := session.NewStore()
	sealer, err := session.NewSealer(cfg.Console.Secret)
	if err != nil {
		return err
	}
	var persister session.Persister
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		persister = session.NewRedisPersister(rdb, cfg.Session.Namespace, sealer)
	default:
		files, err := storage.NewLocalStorage(cfg.Session.Dir)
		if err != nil {
			return err
		}
		persister = session.NewFilePersister(files, cfg.Session.Namespace, sealer)
	}
	unbind, err := session.Bind(ctx, store, persister)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	defer unbind()

	JWTService, err := jwt.NewJWTService(cfg.Console.Secret, cfg.Console.TokenTTL, cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("invalid console token settings: %w", err)
	}

	// Events, notifications and the request cache
	hub := sse.NewHub()
	center := notify.NewCenter(notify.DefaultCapacity, hub)
	cache := querycache.NewClient(hub,
		querycache.WithDefaults(querycache.Options{StaleTime: cfg.Cache.ListStaleTime, GCTime: cfg.Cache.GCTime}),
		querycache.WithFetchTimeout(cfg.API.Timeout),
	)

	// Backends
	tokens := session.TokenSource(store)
	mainAPI, err := apiclient.New(apiclient.Config{Name: "api", BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}, tokens, store, center)
	if err != nil {
		return err
	}
	attendanceAPI, err := apiclient.New(apiclient.Config{Name: "attendance", BaseURL: cfg.API.AttendanceBaseURL, Timeout: cfg.API.Timeout}, tokens, store, center)
	if err != nil {
		return err
	}

	authService := serviceAuth.NewAuthService(mainAPI, store)
	employeeSvc := employeeService.NewEmployeeService(mainAPI, cache, employeeService.Config{
		List:   querycache.Options{StaleTime: cfg.Cache.ListStaleTime, GCTime: cfg.Cache.GCTime},
		Detail: querycache.Options{StaleTime: cfg.Cache.DetailStaleTime, GCTime: cfg.Cache.GCTime},
	})
	attendanceSvc := attendanceService.NewAttendanceService(attendanceAPI, cache, attendanceService.Config{
		List:         querycache.Options{StaleTime: cfg.Cache.ListStaleTime, GCTime: cfg.Cache.GCTime},
		Photo:        querycache.Options{StaleTime: cfg.Cache.PhotoStaleTime, GCTime: cfg.Cache.GCTime},
		PhotoOrigins: cfg.API.PhotoOrigins,
	})
	dashboardSvc := dashboardService.NewDashboardService(employeeSvc, attendanceSvc)

	// Handlers
	views, err := view.New()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	pages := appHTTP.NewPages(views, authService, center)
	ui := appHTTP.ListViewSettings{SearchDebounce: cfg.UI.SearchDebounce, RenderWait: cfg.UI.RenderWait}

	employeeHandler := appHTTP.NewEmployeeHandler(pages, employeeSvc, cache, ui)
	attendanceHandler := appHTTP.NewAttendanceHandler(pages, attendanceSvc, employeeSvc, cache, ui)

	// A new session never sees the previous operator's data or list state.
	cancelWatch := store.OnChange(func(s session.Session) {
		if s.IsAuthenticated {
			return
		}
		cache.Clear()
		employeeHandler.Reset()
		attendanceHandler.Reset()
	})
	defer cancelWatch()

	router := appHTTP.NewRouter(cfg, JWTService, store, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(pages, JWTService),
		Dashboard:    appHTTP.NewDashboardHandler(pages, dashboardSvc),
		Employee:     employeeHandler,
		Attendance:   attendanceHandler,
		Notification: appHTTP.NewNotificationHandler(center, hub),
	})

	// Maintenance
	scheduler := cron.NewScheduler()
	cron.NewMaintenanceJobs(cache, JWTService, store, center).RegisterJobs(scheduler, cfg.Cache.GCInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Console running", "addr", server.Addr, "env", cfg.App.Env, "session_store", cfg.Session.Store)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
