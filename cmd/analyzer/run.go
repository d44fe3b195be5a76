package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/fitmotion/form-analyzer/internal/api_server"
	"github.com/fitmotion/form-analyzer/internal/classifier"
	"github.com/fitmotion/form-analyzer/internal/config"
	"github.com/fitmotion/form-analyzer/internal/pipeline"
	"github.com/fitmotion/form-analyzer/internal/pose"
	"github.com/fitmotion/form-analyzer/internal/service"
	"github.com/fitmotion/form-analyzer/internal/store"
	"github.com/fitmotion/form-analyzer/internal/video"
	"github.com/fitmotion/form-analyzer/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the form analyzer api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logger := log.InitLog(log.ParseLevel(cfg.Service.LogLevel))
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

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

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		selection, err := pipeline.ParseSelectionPolicy(cfg.Pipeline.Selection)
		if err != nil {
			zap.S().Fatalf("reading configuration: %v", err)
		}

		opener := video.NewFFmpegOpener()
		estimator := pose.NewClient(cfg.Pose.URL, time.Duration(cfg.Pose.Timeout)*time.Second)
		adapter := pipeline.NewAdapter(estimator, selection)

		var clf pipeline.Classifier
		switch cfg.Pipeline.Strategy {
		case "rule":
			clf = pipeline.NewRuleClassifier()
		case "model":
			// The model is loaded once per process; a service that cannot
			// classify must not accept jobs.
			modelClient := classifier.NewClient(cfg.Classifier.URL, time.Duration(cfg.Classifier.Timeout)*time.Second)
			if err := modelClient.Load(ctx); err != nil {
				zap.S().Fatalf("loading classifier: %v", err)
			}
			clf, err = pipeline.NewModelClassifier(modelClient)
			if err != nil {
				zap.S().Fatalf("building model classifier: %v", err)
			}
		default:
			zap.S().Fatalf("unknown classifier strategy %q", cfg.Pipeline.Strategy)
		}

		p := pipeline.New(opener, adapter, clf, pipeline.NewEvaluator())

		dispatcher := service.NewDispatcher(cfg.Service.Workers, cfg.Service.QueueSize)
		dispatcher.Start(ctx)

		jobSrv := service.NewJobService(p, service.NewRecorder(s), dispatcher, opener, s, pipeline.Options{
			SampleEveryN: cfg.Pipeline.SampleEveryN,
			MaxFrames:    cfg.Pipeline.MaxFrames,
			KeepFrames:   cfg.Pipeline.KeepFrames,
		})

		go func() {
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalf("creating listener: %s", err)
			}

			server := apiserver.New(cfg, jobSrv, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalf("Error running server: %s", err)
			}
			cancel()
		}()

		go func() {
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalf("creating metrics listener: %s", err)
			}

			metricServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricServer.Run(ctx); err != nil {
				zap.S().Fatalf("Error running metrics server: %s", err)
			}
			cancel()
		}()

		<-ctx.Done()
		dispatcher.Wait()
		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
