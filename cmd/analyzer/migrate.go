package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fitmotion/form-analyzer/internal/config"
	"github.com/fitmotion/form-analyzer/internal/store"
	"github.com/fitmotion/form-analyzer/pkg/log"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logger := log.InitLog(log.ParseLevel(cfg.Service.LogLevel))
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalf("initializing data store: %v", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := s.Migrate(); err != nil {
			zap.S().Fatalf("running migration: %v", err)
		}

		zap.S().Info("Db migrated")
		return nil
	},
}
