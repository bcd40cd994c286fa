// Copyright 2026 The Rackwise Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rackwisecmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rackwise/rackwise/api"
	"github.com/rackwise/rackwise/store"
)

// serveConfig is the YAML config of the serve command. Flags override
// file values.
type serveConfig struct {
	Listen   string `yaml:"listen"`
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`
}

func defaultServeConfig() serveConfig {
	return serveConfig{
		Listen:   ":8632",
		DBPath:   "rackwise.db",
		LogLevel: "info",
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "listen address (default :8632)")
	serveCmd.Flags().String("db", "", "database file (default rackwise.db)")
	serveCmd.Flags().String("config", "", "YAML config file")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the rackwise HTTP API",
	Long: `Serves the allocation engine and the revision store over HTTP.
Projects are uploaded as JSON, YAML, or TOML; designs are stored as
revisions and can be fetched, exported, and diffed. Prometheus metrics
are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := defaultServeConfig()
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return fmt.Errorf("%s: %v", path, err)
			}
		}
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Listen = listen
		}
		if db, _ := cmd.Flags().GetString("db"); db != "" {
			cfg.DBPath = db
		}

		logger, err := buildLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()

		st, err := store.Open(cfg.DBPath, logger.Named("store"))
		if err != nil {
			return err
		}
		defer st.Close()

		srv := &http.Server{
			Addr:              cfg.Listen,
			Handler:           api.New(st, logger.Named("api")).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()
		logger.Info("serving", zap.String("listen", cfg.Listen), zap.String("db", cfg.DBPath))

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("unsupported log_level %q", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
