package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kailuotarny/ocean-climate-digest/internal/config"
	"github.com/kailuotarny/ocean-climate-digest/internal/pipeline"
	"github.com/kailuotarny/ocean-climate-digest/internal/render"
	"github.com/kailuotarny/ocean-climate-digest/internal/store"
	"github.com/kailuotarny/ocean-climate-digest/internal/writer"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "oceandigest",
	Short:   "Daily ocean and climate literature digest",
	Long: "oceandigest fetches yesterday's articles from a whitelist of oceanography and climate\n" +
		"journals, optionally enriches them with model-generated summaries, and writes a dated\n" +
		"JSON digest plus a latest.json pointer. Run it with no arguments to build today's digest.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		if path == "" {
			cfg, err = config.Default()
		} else {
			cfg, err = config.Load(path)
		}
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.DBPath())
		if err != nil {
			log.Printf("Run archive unavailable: %v", err)
			st = nil
		}
		if st != nil {
			defer st.Close()
		}

		pipe := pipeline.New(cfg, st)
		result, err := pipe.Run(context.Background())
		if err != nil {
			return err
		}

		for i, step := range result.Steps {
			fmt.Printf("Step %d/%d: %s\n  %s\n", i+1, len(result.Steps), step.Name, step.Summary)
		}
		fmt.Printf("\nDigest for %s: %d items, %d must-read (%s)\n",
			result.Date, len(result.Digest.Items), len(result.Digest.MustRead), result.Path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("oceandigest", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/oceandigest/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to adjust the journal list, output directory, and model settings.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent digest runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.DBPath())
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(14)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}

		fmt.Println("Recent runs:")
		for _, r := range runs {
			fmt.Printf("  %s  %2d items  %d must-read  via %s\n",
				r.Date, r.ItemCount, r.MustReadCount, r.Source)
		}
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render latest.json to index.html in the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.OutputDir()
		d, err := writer.Read(filepath.Join(dir, writer.LatestFile))
		if err != nil {
			return err
		}

		html, err := render.HTML(d)
		if err != nil {
			return err
		}

		target := filepath.Join(dir, "index.html")
		if err := os.WriteFile(target, html, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		fmt.Printf("Rendered %s\n", target)
		return nil
	},
}
