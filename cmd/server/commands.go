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

	"github.com/evn/shiftpass_backend/config"
	"github.com/evn/shiftpass_backend/db"
	"github.com/evn/shiftpass_backend/internal/routes"
	authService "github.com/evn/shiftpass_backend/internal/services/auth"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply the schema and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			database := db.InitDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
			defer database.Close()

			redisClient := config.NewRedisClient(cfg)
			if redisClient != nil {
				defer redisClient.Close()
				if err := redisClient.Ping(cmd.Context()).Err(); err != nil {
					log.Printf("Redis unavailable, worker lookups go to the database: %v", err)
				}
			}

			server := &http.Server{
				Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
				Handler:           routes.Setup(cfg, database, redisClient),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("🚀 Server starting on %s", server.Addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Println("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			database, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.Migrate(database, cfg.DatabaseDriver); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", color.New(color.FgRed).Sprint("FAILED"), err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema applied (%s)\n", color.New(color.FgGreen).Sprint("OK"), cfg.DatabaseDriver)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var email string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for local testing",
		Long: `Mint an HS256 access token signed with JWT_SECRET.

Examples:
  server token --email worker@example.com
  server token --email worker@example.com --ttl 1h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			if ttl <= 0 {
				ttl = cfg.TokenTTL
			}

			token, err := authService.NewJWTService(cfg.JwtSecret, ttl).GenerateToken(email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), color.New(color.FgCyan).Sprintf("token for %s, valid %s", email, ttl))
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "worker email to put in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to TOKEN_TTL)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
