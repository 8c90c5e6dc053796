// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the flightweb
// project. Commands are organized using the cobra library.
// The root command starts the web server itself, the "search"
// sub-command runs one search against the configured suppliers and
// prints its results, and the "config" sub-command prints the
// configuration settings after filling their default values.
//
//	./flightweb [-c /path/of/main/config.yaml]    # start web server
//	./flightweb search --origin BCN --destination MAD
//	    --departure 2025-05-10 --return 2025-05-17 [--passengers 2]
//	    [-c /path/of/main/config.yaml]
//	./flightweb config [-c /path/of/main/config.yaml]
package command

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

	"github.com/momeni/flightagg/pkg/adapter/config"
	"github.com/momeni/flightagg/pkg/adapter/metrics"
	"github.com/momeni/flightagg/pkg/adapter/restful/gin"
	"github.com/momeni/flightagg/pkg/adapter/restful/gin/routes"
	"github.com/momeni/flightagg/pkg/core/log"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "flightweb",
	Short: "A flight search aggregator over several suppliers",
	Long: `A flight search aggregator which accepts a search request,
asks all configured flight suppliers (such as CrazyAir and ToughJet)
concurrently, and returns their flights as one list sorted by fare.
Each supplier call is bounded by a timeout and guarded by a circuit
breaker, so a slow or failing supplier only loses its own results.
The REST API, health check, and Prometheus metrics are served by the
Gin Gonic web framework.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

// loadConfig loads the configuration file and installs its logger as
// the default slog logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	l := c.Logging.NewLogger(os.Stderr)
	slog.SetDefault(l)
	return c, l, nil
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	c, l, err := loadConfig()
	if err != nil {
		return err
	}
	var e *gin.Engine = c.Gin.NewEngine(l)
	if err = routes.Register(ctx, e, c, metrics.NewRegistry()); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	srv := &http.Server{
		Addr:              *c.Server.Address,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "web server is listening",
			slog.String("address", srv.Addr),
		)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err = <-errCh:
		return fmt.Errorf("running web server: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(*c.Server.ShutdownTimeout),
	)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	if err = <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("running web server: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code is
// zero for success and one for failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		cfgPath = "configs/sample-config.yaml"
	}
}
