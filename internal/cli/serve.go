package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"household-planner/internal/api"
	"household-planner/internal/bot"
	"household-planner/internal/service"
)

const shutdownTimeout = 30 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the day-closing schedule and the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	scheduler := service.NewSchedulerService(a.cfg.Location)
	if a.cfg.CloseDayAt != "" {
		if _, err := a.snapshots.Schedule(scheduler, a.cfg.CloseDayAt); err != nil {
			return fmt.Errorf("schedule day close: %w", err)
		}
		a.log.Infow("day close scheduled", "at", a.cfg.CloseDayAt, "timezone", a.cfg.Location.String())
	}
	scheduler.Start()
	defer scheduler.Stop()

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := api.NewServer(a.engine, a.templates, a.snapshots, a.log)
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		a.log.Infow("http server listening", "addr", a.cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if a.cfg.BotEnabled() {
		telegramBot, err := bot.New(a.cfg.TelegramToken, a.engine, a.summary, a.snapshots, a.log)
		if err != nil {
			return err
		}
		go func() {
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("bot: %w", err)
			}
		}()
	} else {
		a.log.Info("TELEGRAM_TOKEN not set, bot disabled")
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutting down")
	case runErr = <-errCh:
		a.log.Errorw("service failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	a.log.Info("shutdown complete")
	return runErr
}
