package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/valveworks/valve-design-suite/internal/admin"
	"github.com/valveworks/valve-design-suite/internal/audit"
	"github.com/valveworks/valve-design-suite/internal/auth"
	"github.com/valveworks/valve-design-suite/internal/calcapi"
	"github.com/valveworks/valve-design-suite/internal/config"
	"github.com/valveworks/valve-design-suite/internal/design"
	"github.com/valveworks/valve-design-suite/internal/middleware"
	"github.com/valveworks/valve-design-suite/internal/models"
	"github.com/valveworks/valve-design-suite/internal/repo"
	"github.com/valveworks/valve-design-suite/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	db, err := store.OpenPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer db.Close()

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// ── MinIO ────────────────────────────────────────────────
	minioStore, err := store.NewMinioStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Fatal("minio", zap.Error(err))
	}

	// ── Stores ───────────────────────────────────────────────
	auditLog := audit.NewLogger(db, logger)
	users := auth.NewUserStore(db)
	tokens := auth.NewTokenStore(db, rdb, logger)
	designs := design.NewRepo(db, auditLog)
	bases := design.NewBaseStore(rdb)
	calcRepos := repo.NewRegistry(db, auditLog)

	if _, err := users.EnsureSuperadmin(ctx); err != nil {
		logger.Fatal("superadmin seed", zap.Error(err))
	}

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(users, tokens, auditLog)
	designHandler := design.NewHandler(designs, bases)
	calcHandler := calcapi.NewHandler(calcRepos, bases, designs)
	adminHandler := admin.NewHandler(db, designs, calcRepos, auditLog, admin.NewExporter(minioStore, logger))

	requireAuth := middleware.RequireAuth(tokens, users)
	requireAdmin := middleware.RequireRole(models.RoleSuperadmin)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.With(requireAuth).Post("/logout", authHandler.Logout)
		r.With(requireAuth).Get("/me", authHandler.Me)
	})

	// User management (superadmin only)
	r.Route("/api/users", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Get("/", authHandler.ListUsers)
		r.Post("/", authHandler.CreateUser)
		r.Put("/{id}", authHandler.UpdateUser)
		r.Delete("/{id}", authHandler.DeleteUser)
	})

	// Valve designs and the session design context
	r.Route("/api/designs", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/compute", designHandler.Compute)
		r.Post("/", designHandler.Create)
		r.Get("/", designHandler.List)
		r.Get("/{id}", designHandler.Get)
		r.Put("/{id}", designHandler.Update)
		r.Delete("/{id}", designHandler.Delete)
		r.Post("/{id}/activate", designHandler.Activate)
	})
	r.Route("/api/session/base", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", designHandler.GetBase)
		r.Put("/", designHandler.PutBase)
		r.Delete("/", designHandler.DeleteBase)
	})

	// DC sheet calculators
	r.Route("/api/calcs", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", calcHandler.Catalogue)
		r.Post("/{entity}/compute", calcHandler.Compute)
		r.Post("/{entity}", calcHandler.Create)
		r.Get("/{entity}", calcHandler.List)
		r.Get("/{entity}/{id}", calcHandler.Get)
		r.Put("/{entity}/{id}", calcHandler.Update)
		r.Delete("/{entity}/{id}", calcHandler.Delete)
	})

	// Superadmin views
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Get("/users-overview", adminHandler.UsersOverview)
		r.Get("/audit", adminHandler.AuditLog)
		r.Get("/designs", adminHandler.ListDesigns)
		r.Get("/designs/{id}", adminHandler.GetDesign)
		r.Delete("/designs/{id}", adminHandler.DeleteDesign)
		r.Get("/calcs/{entity}", adminHandler.ListCalcs)
		r.Get("/calcs/{entity}/{id}", adminHandler.GetCalc)
		r.Delete("/calcs/{entity}/{id}", adminHandler.DeleteCalc)
		r.Get("/export/designs", adminHandler.ExportDesigns)
		r.Get("/export/calcs/{entity}", adminHandler.ExportCalcs)
		r.Get("/export/audit", adminHandler.ExportAudit)
		r.Get("/export/archive", adminHandler.ListArchive)
		r.Get("/export/archive/file", adminHandler.DownloadArchive)
		r.Delete("/export/archive/file", adminHandler.DeleteArchive)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
