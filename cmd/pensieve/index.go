package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/pensieve"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the SQLite index from the content directory and exit",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := pensieve.LoadConfig(configPath)
	if err != nil {
		return err
	}
	store, err := pensieve.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	n, skipped, err := pensieve.BuildIndex(store, cfg.ContentDir)
	out := cmd.OutOrStdout()
	for _, s := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", s)
	}
	if err != nil {
		return err
	}
	edges, err := store.QueryPosts(pensieve.Query{Section: cfg.Section})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "indexed %d files from %s (%d published in %s/)\n", n, cfg.ContentDir, len(edges), cfg.Section)
	return nil
}
