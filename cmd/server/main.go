package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/Sidddev15/geo-alert/internal/api"
	"github.com/Sidddev15/geo-alert/internal/auth"
	"github.com/Sidddev15/geo-alert/internal/config"
	"github.com/Sidddev15/geo-alert/internal/notify"
	"github.com/Sidddev15/geo-alert/internal/store"
)

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	cfgPath := flag.String("config", "configs/geo-alert.yaml", "Path to YAML config")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	// ── Event store ───────────────────────────────────────────────────────────
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open event store", "err", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("event store opened", "path", cfg.Database.Path)

	// ── Token authority ───────────────────────────────────────────────────────
	authority, err := auth.NewAuthority(auth.Config{
		Secret: cfg.Auth.TokenSecret,
		TTL:    time.Duration(cfg.Auth.TokenTTLSeconds) * time.Second,
		Issuer: cfg.Auth.Issuer,
	})
	if err != nil {
		slog.Error("failed to build token authority", "err", err)
		os.Exit(1)
	}
	origins := auth.NewOrigins(cfg.Auth.AllowedOrigins)

	// ── Notifier ──────────────────────────────────────────────────────────────
	mailer := notify.NewMailer(
		notify.SMTPConfig{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			SSL:  cfg.SMTP.SSL,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			From: cfg.SMTP.From,
		},
		recipients(cfg),
	)

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.Config) {
		if err := config.Validate(newCfg); err != nil {
			slog.Warn("hot-reload skipped: config invalid", "err", err)
			return
		}
		origins.Replace(newCfg.Auth.AllowedOrigins)
		mailer.SetRecipients(recipients(newCfg))
		slog.Info("config hot-reloaded", "origins", len(newCfg.Auth.AllowedOrigins))
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.New(api.Deps{
		Store:        st,
		Authority:    authority,
		Origins:      origins,
		Notifier:     mailer,
		IssueLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.IssueRate.PerMin)), cfg.IssueRate.Burst),
	})

	listen := cfg.Listen
	if *addr != "" {
		listen = *addr
	}
	srv := &http.Server{
		Addr:         listen,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	slog.Info("goodbye")
}

func recipients(cfg *config.Config) notify.Recipients {
	return notify.Recipients{
		PrimaryTo:   cfg.Recipients.PrimaryTo,
		ExtraTo:     cfg.Recipients.ExtraTo,
		CC:          cfg.Recipients.CC,
		BCC:         cfg.Recipients.BCC,
		EmergencyTo: cfg.Recipients.EmergencyTo,
	}
}
