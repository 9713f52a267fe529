package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/LoohanZinho/joraps/config"
	"github.com/LoohanZinho/joraps/pipeline"
)

func newTranscribeCmd() *cobra.Command {
	var declaredType string

	cmd := &cobra.Command{
		Use:   "transcribe <file>",
		Short: "Transcribe a media file and print the text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runTranscribe(cmd.Context(), cfg, args[0], declaredType)
		},
	}
	cmd.Flags().StringVar(&declaredType, "type", "", "media MIME type (default: from file extension)")
	return cmd
}

func runTranscribe(ctx context.Context, cfg *config.Config, path, declaredType string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if declaredType == "" {
		declaredType = mime.TypeByExtension(filepath.Ext(path))
	}
	if declaredType == "" {
		return fmt.Errorf("cannot infer media type of %s; pass --type", path)
	}

	api, err := buildAPI(ctx, cfg)
	if err != nil {
		return err
	}
	pipe := api.Pipeline

	if err := pipe.LoadFile(ctx, filepath.Base(path), declaredType, data); err != nil {
		return err
	}
	if err := pipe.TranscribeStaged(ctx); err != nil {
		return err
	}

	for pipe.Status() == pipeline.StatusProcessing {
		select {
		case <-ctx.Done():
			pipe.Cancel(context.Background())
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}

	if appErr := pipe.Err(); appErr != nil {
		return appErr
	}
	fmt.Println(pipe.Transcript())
	return nil
}
