package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LoohanZinho/joraps/actions"
	"github.com/LoohanZinho/joraps/chat"
	"github.com/LoohanZinho/joraps/config"
	"github.com/LoohanZinho/joraps/gateway"
	"github.com/LoohanZinho/joraps/history"
	"github.com/LoohanZinho/joraps/kv"
	"github.com/LoohanZinho/joraps/logger"
	"github.com/LoohanZinho/joraps/media"
	"github.com/LoohanZinho/joraps/observability"
	"github.com/LoohanZinho/joraps/pipeline"
	"github.com/LoohanZinho/joraps/prefs"
	"github.com/LoohanZinho/joraps/server"
	"github.com/LoohanZinho/joraps/storage"
	"github.com/LoohanZinho/joraps/util"

	// Gateway drivers register themselves on import.
	_ "github.com/LoohanZinho/joraps/gateway/gemini"
	_ "github.com/LoohanZinho/joraps/gateway/openai"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP transcription service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := logger.WithComponent("serve")

	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: cfg.Version,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Tracing.Endpoint,
			Insecure:       cfg.Environment != "production",
			SampleRate:     cfg.Tracing.SampleRate,
		})
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	api, err := buildAPI(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	api.Register(srv)

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("Service ready", map[string]interface{}{
		"addr":    srv.Addr(),
		"dialect": cfg.Gateway.Dialect,
		"api_key": util.MaskSecret(cfg.Gateway.APIKey, 4),
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		log.Info("Signal received, shutting down", map[string]interface{}{
			"signal": sig.String(),
		})
	case <-ctx.Done():
	}

	api.Pipeline.Cancel(context.Background())
	return srv.Stop(context.Background())
}

// openKV picks the state backend: Redis when an address is configured,
// the local file store otherwise.
func openKV(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	if cfg.Store.Redis.Addr != "" {
		store, err := kv.NewRedisStore(ctx, cfg.Store.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return store, nil
	}
	store, err := kv.NewFileStore(cfg.Store.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open data dir: %w", err)
	}
	return store, nil
}

// buildAPI assembles the full component graph from configuration.
func buildAPI(ctx context.Context, cfg *config.Config) (*server.API, error) {
	kvStore, err := openKV(ctx, cfg)
	if err != nil {
		return nil, err
	}
	blobStore, err := storage.NewFSStore(cfg.Store.StagingDir)
	if err != nil {
		return nil, fmt.Errorf("open staging dir: %w", err)
	}

	provider, err := gateway.NewProvider(cfg.Gateway)
	if err != nil {
		return nil, err
	}
	gw := gateway.New(provider, cfg.Gateway, nil)

	hist := history.NewStore(kvStore, nil)
	pf := prefs.Load(ctx, kvStore, nil)

	recorder := media.NewRecorder(media.NewExecDevice(cfg.Capture))

	// The chat session follows the transcript: every new source (capture
	// start, file load, cancel) resets it. The session needs the pipeline
	// as its transcript source, so the hook closes over it.
	var sess *chat.Session
	pipe := pipeline.New(gw, recorder, media.NewIngestor(blobStore), hist, pf, pipeline.Options{
		OnNewSource: func() { sess.Reset() },
	})
	sess = chat.NewSession(gw, pipe, nil)

	return &server.API{
		Pipeline:    pipe,
		Actions:     actions.NewRunner(gw, pipe, nil),
		Chat:        sess,
		History:     hist,
		Prefs:       pf,
		Gateway:     gw,
		ServiceName: cfg.Name,
		Version:     cfg.Version,
	}, nil
}
