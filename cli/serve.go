// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/router"
	"github.com/danielhkuo/ballotbox/session"
	"github.com/danielhkuo/ballotbox/tracing"
)

const shutdownTimeout = 10 * time.Second

func ServeCmd(cfg *cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireServer(); err != nil {
				return err
			}

			shutdownTracing, err := tracing.Setup(cmd.Context(), cfg.TraceEndpoint)
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := shutdownTracing(ctx); err != nil {
					slog.Error("trace shutdown failed", "error", err)
				}
			}()

			conn, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			store, err := sessionStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			sessions := session.NewManager(store, cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)

			server := http.Server{
				Handler:           router.NewRouter(conn, *cfg, sessions),
				Addr:              ":" + strconv.Itoa(cfg.Port),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// signal.Notify requires the channel to be buffered
			ctrlc := make(chan os.Signal, 1)
			signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(ctrlc)
			go func() {
				<-ctrlc
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(ctx); err != nil {
					slog.Error("graceful shutdown failed", "error", err)
					server.Close()
				}
			}()

			slog.Info("Listening", "port", cfg.Port, "database", cfg.DatabaseType, "sessions", cfg.SessionStore)
			fmt.Fprintf(cmd.OutOrStdout(), "%s Serving on http://localhost:%d\n", ok, cfg.Port)

			err = server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			slog.Info("Server closed")
			return nil
		},
	}
}

func sessionStore(ctx context.Context, cfg *cliparse.Config) (session.Store, error) {
	switch cfg.SessionStore {
	case cliparse.StoreRedis:
		store := session.NewRedisStore(session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		slog.Info("Using redis session store", "addr", cfg.RedisAddr)
		return store, nil
	default:
		return session.NewMemoryStore(cfg.SessionTTL), nil
	}
}
