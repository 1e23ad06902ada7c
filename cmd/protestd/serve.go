package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/api"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/config"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/dataset"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/exporter"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/logging"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/metadatastore"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/metrics"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/predictor"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  "Load the model artifacts and the dataset, then serve predictions, dashboard series and exports over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		flags := cmd.Flags()
		if v, _ := flags.GetString("port"); v != "" {
			cfg.Port = v
		}
		if v, _ := flags.GetString("model-dir"); v != "" {
			cfg.ModelDir = v
		}
		if v, _ := flags.GetString("dataset"); v != "" {
			cfg.DatasetPath = v
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := logging.New(cfg.Environment, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, cfg, logger)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "HTTP port (overrides PORT)")
	serveCmd.Flags().String("model-dir", "", "artifact directory (overrides MODEL_DIR)")
	serveCmd.Flags().String("dataset", "", "dataset CSV (overrides DATASET_PATH)")
}

func runServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting protestd",
		zap.String("environment", cfg.Environment),
		zap.String("version", version))

	// The form cannot be served without the fitted artifacts
	artifacts, err := predictor.LoadArtifacts(cfg.ModelDir)
	if err != nil {
		logger.Error("failed to load model artifacts", zap.String("dir", cfg.ModelDir), zap.Error(err))
		return fmt.Errorf("failed to load model artifacts: %w", err)
	}
	pipeline := predictor.NewPipeline(artifacts, logger)
	logger.Info("loaded model artifacts",
		zap.String("dir", cfg.ModelDir),
		zap.Int("regions", artifacts.Region.Len()),
		zap.Int("trees", len(artifacts.Model.Trees)))

	datasets, err := dataset.NewStore(cfg.DatasetPath, logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	m.DatasetEvents.Set(float64(datasets.Current().Len()))

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	store, err := metadatastore.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize SQLite storage: %w", err)
	}
	defer store.Close()
	logger.Info("initialized SQLite storage", zap.String("path", cfg.DatabasePath))

	exports := exporter.NewService(store, datasets, m, logger, exporter.Options{
		ExportDir:      cfg.ExportDir,
		Workers:        cfg.ExportWorkers,
		DefaultEndYear: cfg.DefaultEndYear,
	})
	if err := exports.Start(ctx); err != nil {
		return fmt.Errorf("failed to start export workers: %w", err)
	}
	defer exports.Stop()

	var refresher *scheduler.Service
	if cfg.DatasetRefreshSchedule != "" {
		refresher, err = scheduler.NewService(datasets, cfg.DatasetRefreshSchedule, func(ds *dataset.Dataset) {
			m.DatasetEvents.Set(float64(ds.Len()))
		}, logger)
		if err != nil {
			return err
		}
		if err := refresher.Start(); err != nil {
			return err
		}
		defer refresher.Stop()
	}

	server := api.NewServer(pipeline, datasets, store, exports, m, logger, api.Options{
		DefaultEndYear: cfg.DefaultEndYear,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Refresher:      refresher,
	})
	if err := server.Run(ctx, cfg.Port); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}
