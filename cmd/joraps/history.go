package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LoohanZinho/joraps/history"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect saved transcriptions",
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryRmCmd())
	return cmd
}

func openHistory(ctx context.Context) (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	kvStore, err := openKV(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return history.NewStore(kvStore, nil), nil
}

func newHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved transcriptions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openHistory(cmd.Context())
			if err != nil {
				return err
			}
			entries := store.List(cmd.Context())
			if len(entries) == 0 {
				fmt.Println("no transcriptions saved")
				return nil
			}
			for i, entry := range entries {
				fmt.Printf("%3d  %s  %s\n", i, entry.Date.Local().Format("2006-01-02 15:04"), snippet(entry.Text))
			}
			return nil
		},
	}
}

func newHistoryRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove a saved transcription by its list index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index must be a number: %s", args[0])
			}
			store, err := openHistory(cmd.Context())
			if err != nil {
				return err
			}
			return store.Remove(cmd.Context(), index)
		},
	}
}

func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > 80 {
		return text[:77] + "..."
	}
	return text
}
