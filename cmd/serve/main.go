package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/llmbench/regression-detector/detector/api"
	"github.com/llmbench/regression-detector/detector/config"
	"github.com/llmbench/regression-detector/detector/storage"
)

func main() {
	addr := flag.String("addr", ":8080", "Address for the API server to listen on")
	configPath := flag.String("config", "", "Optional path to YAML detection configuration")
	storagePath := flag.String("storage-config", "", "Optional path to YAML storage configuration")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg := config.DefaultDetectionConfig()
	if *configPath != "" {
		loaded, err := config.LoadDetectionConfig(*configPath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load detection configuration")
		}
		cfg = loaded
	}

	var store storage.DecisionStore
	if *storagePath != "" {
		storageCfg, err := config.LoadStorageConfig(*storagePath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load storage configuration")
		}

		if storageCfg.Enabled {
			db, err := storage.Connect(storageCfg.PostgreSQL.ConnectionString(),
				storageCfg.PostgreSQL.MaxOpenConns, storageCfg.PostgreSQL.MaxIdleConns)
			if err != nil {
				logger.WithError(err).Fatal("Failed to connect to PostgreSQL")
			}
			defer db.Close()

			store = storage.NewDecisionStore(db, logger)
			if err := store.Start(context.Background()); err != nil {
				logger.WithError(err).Fatal("Failed to start decision store")
			}
			defer store.Stop()
		}
	}

	server := api.NewServer(*addr, cfg, store, logger)
	if err := server.Start(context.Background()); err != nil {
		logger.WithError(err).Fatal("Failed to start API server")
	}

	logger.WithField("addr", *addr).Info("Regression detector API is running")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down")
	if err := server.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop API server cleanly")
	}
}
