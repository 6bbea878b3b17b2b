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

	"github.com/comandaapp/comanda/internal/devserver/httpx"
	"github.com/comandaapp/comanda/internal/devserver/store"
	"github.com/comandaapp/comanda/internal/pkg/telemetry"
)

func main() {
	telemetry.InitServerLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + getEnv("PORT", "8080")

	var sessions store.SessionStore
	if redisAddr := os.Getenv("DEV_REDIS_ADDR"); redisAddr != "" {
		sessions = store.NewRedisSessions(redisAddr, "comanda")
		slog.Info("using redis session store", "addr", redisAddr)
	} else {
		sessions = store.NewMemorySessions()
	}

	account := httpx.Account{
		ID:       "dev-user",
		Name:     getEnv("DEV_USER_NAME", "Dev User"),
		Email:    getEnv("DEV_USER_EMAIL", "dev@example.com"),
		Password: getEnv("DEV_USER_PASSWORD", "dev"),
	}

	handler := httpx.NewHandler(store.New(), sessions, account)
	server := &http.Server{
		Addr:    addr,
		Handler: httpx.NewRouter(handler),
	}

	go func() {
		slog.Info("dev server running", "addr", addr, "email", account.Email)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to serve", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
