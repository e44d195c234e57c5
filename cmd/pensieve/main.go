package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pensieve",
	Short: "pensieve - a personal site's writing, served from a folder of markdown",
	Long: `pensieve indexes markdown posts with YAML frontmatter into SQLite and serves
a home page with the most recent posts, an archive, tag pages, RSS and a sitemap.

Configuration is read from the --config YAML file and PENSIEVE_* environment
variables (e.g. PENSIEVE_CONTENT_DIR, PENSIEVE_ADDR).`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pensieve version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pensieve %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "pensieve.yaml", "Path to the YAML config file")

	serveCmd.Flags().Bool("watch", false, "Reindex when the content directory changes")
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
