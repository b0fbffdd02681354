package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/wanderlist/server/internal/auth"
	"github.com/wanderlist/server/internal/config"
	"github.com/wanderlist/server/internal/handler"
	"github.com/wanderlist/server/internal/middleware"
	"github.com/wanderlist/server/internal/notify"
	"github.com/wanderlist/server/internal/service"
	"github.com/wanderlist/server/internal/storage/sqlite"
	"github.com/wanderlist/server/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open store", "db_path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("store ready", "db_path", cfg.DBPath)

	var verifier auth.Verifier
	if cfg.FirebaseProjectID != "" {
		fv, err := auth.NewFirebaseVerifier(context.Background(), cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			slog.Error("failed to initialize firebase", "error", err)
			os.Exit(1)
		}
		verifier = fv
		slog.Info("firebase verification enabled", "project_id", cfg.FirebaseProjectID)
	} else {
		slog.Warn("FIREBASE_PROJECT_ID not set, accepting session tokens only")
	}

	dispatcher := notify.NewDispatcher(store, slog.Default())
	defer dispatcher.Close()

	users := service.NewUserService(store)
	lists := service.NewListService(store)
	collabs := service.NewCollabService(store, dispatcher)
	follows := service.NewFollowService(store, dispatcher)
	notifications := service.NewNotificationService(store)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authn := middleware.NewAuthenticator(jwtManager, verifier, users)

	router := handler.NewRouter(handler.Handlers{
		Auth:          handler.NewAuthHandler(verifier, jwtManager, users),
		Lists:         handler.NewListHandler(lists, collabs),
		Users:         handler.NewUserHandler(users, follows),
		Notifications: handler.NewNotificationHandler(notifications),
		Authn:         authn,
	})

	server := &http.Server{
		Addr: ":" + cfg.Port,
		// h2c lets clients speak HTTP/2 without TLS; TLS terminates at the
		// proxy in front of this server.
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
