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

	"designhub-backend/config"
	"designhub-backend/models"
	"designhub-backend/routes"
	"designhub-backend/services"
	"designhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "designhub",
		Short:         "Interior design quotation backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newExpireQuotesCmd(),
		newIssueTokenCmd(),
	)
	return root
}

func newServeCmd() *cobra.Command {
	var printRoutes bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the quote expiry scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			quotes := newQuoteService(cfg, db)
			expiry := services.NewExpiryService(quotes, cfg.QuoteExpirySchedule)
			if err := expiry.Start(); err != nil {
				return err
			}
			defer expiry.Stop()

			r := routes.SetupRouter(cfg, routes.Deps{DB: db, Quotes: quotes})
			if printRoutes {
				for _, route := range r.Routes() {
					fmt.Printf("%-6s %s\n", route.Method, route.Path)
				}
			}
			return serve(cmd.Context(), r, ":"+cfg.Port)
		},
	}
	cmd.Flags().BoolVar(&printRoutes, "print-routes", false, "list registered routes on startup")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			slog.Info("schema migrated")
			return nil
		},
	}
}

func newExpireQuotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire-quotes",
		Short: "Expire sent quotes whose validity has lapsed, once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			expiry := services.NewExpiryService(newQuoteService(cfg, db), cfg.QuoteExpirySchedule)
			n, err := expiry.RunOnce(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d quote(s)\n", n)
			return err
		},
	}
}

func newIssueTokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Sign a bearer token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !models.Role(role).Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			_ = godotenv.Load()
			secret := os.Getenv("JWT_SECRET")
			token, err := utils.GenerateToken(secret, userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (token subject)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleDesigner), "designer, customer or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newQuoteService(cfg *config.Config, db *gorm.DB) *services.QuoteService {
	var notifier services.Notifier = services.NoopNotifier{}
	if cfg.TwilioEnabled() {
		notifier = services.NewTwilioNotifier(db, services.TwilioSettings{
			AccountSID:     cfg.TwilioAccountSID,
			AuthToken:      cfg.TwilioAuthToken,
			PhoneNumber:    cfg.TwilioPhoneNumber,
			WhatsAppNumber: cfg.TwilioWhatsAppNumber,
		})
	} else {
		slog.Warn("Twilio is not configured, quote notifications are disabled")
	}
	return services.NewQuoteService(services.NewGormStore(db), notifier).
		WithDefaultTaxRate(cfg.DefaultTaxRate)
}

func serve(ctx context.Context, handler http.Handler, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
