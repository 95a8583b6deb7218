package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"docbind/internal/builder"
	"docbind/internal/config"
	"docbind/internal/gitrev"
	"docbind/internal/manifest"
	"docbind/internal/storage"
	"docbind/internal/watcher"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "docbind",
		Short: "Assembles ordered Markdown sections into one complete guide",
	}
	dbPath  string
	cfgPath string

	outputPath string
	strict     bool
	limit      int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the build history database (SQLite), overrides config")
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "docbind.yaml", "Path to the config file")

	buildCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path, overrides config")
	buildCmd.Flags().BoolVar(&strict, "strict", false, "Fail when any manifest section is missing")
	checkCmd.Flags().BoolVar(&strict, "strict", false, "Fail when any manifest section is missing")
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of builds to show")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
}

// setup resolves config, working directory and manifest for one command run.
func setup(args []string) (*config.Config, string, manifest.Manifest) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dir := cfg.Project.Dir
	if len(args) > 0 {
		dir = args[0]
	}

	m := manifest.Default()
	if len(cfg.Build.Sections) > 0 {
		m = manifest.New(cfg.Build.Sections)
	}

	if outputPath != "" {
		cfg.Build.Output = outputPath
	}
	if strict {
		cfg.Build.Strict = true
	}
	if dbPath != "" {
		cfg.History.DB = dbPath
	}

	return cfg, dir, m
}

func runBuild(cfg *config.Config, dir string, m manifest.Manifest) error {
	sha, err := gitrev.Head(dir)
	if err != nil {
		sha = ""
	}

	b := builder.New(builder.Options{
		Title:      cfg.Project.Title,
		WorkingDir: dir,
		OutputPath: cfg.Build.Output,
		Manifest:   m,
		Strict:     cfg.Build.Strict,
		CommitSHA:  sha,
		Progress:   os.Stdout,
	})

	fmt.Printf("📚 Assembling %q from %s...\n", cfg.Project.Title, dir)
	rep, buildErr := b.Build(context.Background())

	// Archive everything that got past the sentinel gate; a failed
	// sentinel check must leave no trace on disk.
	if rep != nil && !errors.Is(buildErr, builder.ErrPrecondition) {
		store, err := storage.NewHistoryStore(cfg.History.DB)
		if err != nil {
			fmt.Printf("⚠️  Failed to open history database: %v\n", err)
		} else {
			if err := store.SaveReport(context.Background(), rep); err != nil {
				fmt.Printf("⚠️  Failed to record build history: %v\n", err)
			}
			store.Close()
		}
	}

	return buildErr
}

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Assemble the guide once and report statistics",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, dir, m := setup(args)
		if err := runBuild(cfg, dir, m); err != nil {
			log.Fatalf("Build failed: %v", err)
		}
		fmt.Printf("🎉 Guide written to %s\n", cfg.Build.Output)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Verify the manifest against the working directory without building",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, dir, m := setup(args)

		statuses := m.Verify(dir)
		missing := 0
		for _, st := range statuses {
			if st.Found {
				fmt.Printf("✅ %s (%d bytes)\n", st.Name, st.Size)
			} else {
				fmt.Printf("⚠️  %s missing\n", st.Name)
				missing++
			}
		}

		orphans, err := manifest.Discover(dir, m, cfg.Build.Output)
		if err != nil {
			log.Fatalf("Failed to scan %s: %v", dir, err)
		}
		for _, name := range orphans {
			fmt.Printf("📄 %s is not in the manifest\n", name)
		}

		fmt.Printf("📊 %d/%d sections present\n", m.Len()-missing, m.Len())

		if len(statuses) > 0 && !statuses[0].Found {
			log.Fatalf("Sentinel section %s is missing; is this the guide directory?", m.Sentinel())
		}
		if cfg.Build.Strict && missing > 0 {
			log.Fatalf("%d section(s) missing in strict mode", missing)
		}
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rebuild the guide whenever a section file changes",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, dir, m := setup(args)

		if err := runBuild(cfg, dir, m); err != nil {
			log.Fatalf("Initial build failed: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := watcher.New(dir, m, watcher.DefaultDebounce, func() {
			if err := runBuild(cfg, dir, m); err != nil {
				fmt.Printf("⚠️  Rebuild failed: %v\n", err)
			}
		})

		fmt.Printf("👀 Watching %s for changes (Ctrl-C to stop)...\n", dir)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Watcher failed: %v", err)
		}
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent builds from the local history database",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _, _ := setup(nil)

		store, err := storage.NewHistoryStore(cfg.History.DB)
		if err != nil {
			log.Fatalf("Failed to open history database: %v", err)
		}
		defer store.Close()

		records, err := store.Recent(context.Background(), limit)
		if err != nil {
			log.Fatalf("Failed to read history: %v", err)
		}
		if len(records) == 0 {
			fmt.Println("No builds recorded yet.")
			return
		}

		for _, rec := range records {
			sha := rec.CommitSHA
			if sha == "" {
				sha = "-"
			}
			fmt.Printf("#%d  %s  %-5s  %d/%d sections  %d lines  %.2f KB  %s\n",
				rec.ID, rec.StartedAt, rec.Status, rec.Included, rec.Total,
				rec.Lines, float64(rec.Bytes)/1024.0, sha)
		}
	},
}
