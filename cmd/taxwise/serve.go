package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/taxwise/internal/api"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rules engine over HTTP",
		Long: `Start the HTTP API. Tax calculations made through the API are saved to the
local database unless --no-store is given.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().Bool("no-store", false, "Do not persist tax calculations")

	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	noStore, _ := cmd.Flags().GetBool("no-store")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}

	opts := []api.Option{api.WithLogger(slog.Default())}
	if !noStore {
		store, err := initStorage(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, api.WithStorage(store))
	}

	advisor := newAdvisor(ctx, cfg)
	defer closeAdvisor(advisor)

	srv := api.NewServer(classifier, advisor, cfg.Server.API, opts...)
	defer srv.Close()

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("API listening", "addr", cfg.Server.Addr, "advisory", cfg.Advisory.Provider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	slog.Info("Server exited")
	return nil
}
