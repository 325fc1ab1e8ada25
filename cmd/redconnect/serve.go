package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"redconnect/internal/adapters/api"
	emailPkg "redconnect/internal/adapters/email"
	web "redconnect/internal/adapters/http"
	"redconnect/internal/adapters/http/perf"
	"redconnect/internal/adapters/storage"
	"redconnect/internal/adapters/storage/clientstore"
	appSession "redconnect/internal/application/session"
	"redconnect/internal/config"
	"redconnect/internal/domain/chat"
)

const shutdownGrace = 10 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web client",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides REDCONNECT_ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Println("Database initialized successfully!")

	// Performance instrumentation: pages, remote calls and queries share one collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQuery)

	sealer, err := clientstore.NewSealer(cfg.Secret)
	if err != nil {
		return fmt.Errorf("failed to create sealer: %w", err)
	}
	sessions := appSession.NewService(clientstore.NewSQLiteStore(timedDB, sealer))

	remote := api.New(cfg.APIURL, nil).Observed(
		func(op string, status int, elapsed time.Duration) {
			collector.Record(perf.Sample{
				Kind:       perf.KindAPICall,
				Label:      op,
				Status:     status,
				DurationMs: float64(elapsed.Microseconds()) / 1000.0,
				At:         time.Now().Add(-elapsed),
			})
		})

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.ResendFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			log.Println("WARNING: REDCONNECT_RESEND_KEY is not set, chat transcripts will not be delivered")
		} else {
			log.Println("Email sender configured (noop, set REDCONNECT_RESEND_KEY for real delivery)")
		}
	}
	if cfg.SecretIsTemp {
		log.Println("REDCONNECT_SECRET is not set; using a temporary secret, sessions will not survive a restart")
	}

	mux, err := web.NewMux(web.Deps{
		API:            remote,
		Sessions:       sessions,
		Chats:          chat.NewRegistry(),
		Responder:      chat.NewCannedResponder(cfg.ChatDelay),
		Email:          sender,
		SupportAddress: cfg.SupportEmail,
		Collector:      collector,
		Secret:         cfg.Secret,
		SecureCookies:  cfg.IsProduction(),
		SlowRequest:    cfg.SlowRequest,
	})
	if err != nil {
		return fmt.Errorf("failed to build handler: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown failed: %v", err)
		}
	}()

	log.Printf("Red Connect %s starting on %s (env=%s, api=%s)", version, cfg.Addr, envLabel(cfg), cfg.APIURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

func envLabel(cfg config.Config) string {
	if cfg.Env == "" {
		return "development"
	}
	return cfg.Env
}
