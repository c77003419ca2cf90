package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-dedupe/internal/cache"
	"github.com/kozaktomas/photo-dedupe/internal/cache/postgres"
	"github.com/kozaktomas/photo-dedupe/internal/config"
	"github.com/kozaktomas/photo-dedupe/internal/dedupe"
	"github.com/kozaktomas/photo-dedupe/internal/discovery"
	"github.com/kozaktomas/photo-dedupe/internal/loader"
	"github.com/kozaktomas/photo-dedupe/internal/reporter"
)

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "Scan a directory for visually similar images",
	Long: `Scan a directory and group visually similar images.

Every image is fingerprinted with a frequency hash and a gradient hash.
Images whose blended similarity reaches the threshold are grouped together;
within a group, members are ordered by similarity to the group's seed image.

The scan can be interrupted with Ctrl+C. A persistent fingerprint cache is
used when CACHE_DATABASE_URL is set, so rescans only hash changed files.

Examples:
  # Scan the current directory
  photo-dedupe scan .

  # Recursive scan with a stricter threshold
  photo-dedupe scan ~/Pictures --recurse --threshold 95

  # Machine-readable output
  photo-dedupe scan ~/Pictures --json --output report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Int("threshold", 0, "Similarity threshold 0-100 (default from DEDUPE_THRESHOLD or 90)")
	scanCmd.Flags().Int("workers", 0, "Number of hashing workers (0 = number of CPUs)")
	scanCmd.Flags().Bool("recurse", false, "Descend into subdirectories")
	scanCmd.Flags().Bool("json", false, "Write the report as JSON instead of text")
	scanCmd.Flags().String("output", "", "Write the report to a file instead of stdout")
	scanCmd.Flags().Bool("no-cache", false, "Skip the persistent fingerprint cache")
}

// openCacheStore returns the fingerprint cache configured by the environment,
// or nil when caching is disabled.
func openCacheStore(cfg *config.Config, noCache bool) (cache.Store, error) {
	if noCache || cfg.Cache.URL == "" {
		return nil, nil
	}

	store, err := postgres.Initialize(&cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("connecting to fingerprint cache: %w", err)
	}
	return store, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]
	cfg := config.Load()

	threshold := mustGetInt(cmd, "threshold")
	if threshold == 0 {
		threshold = cfg.Scan.Threshold
	}
	workers := mustGetInt(cmd, "workers")
	if workers == 0 {
		workers = cfg.Scan.Workers
	}

	store, err := openCacheStore(cfg, mustGetBool(cmd, "no-cache"))
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	fmt.Printf("Scanning %s...\n", root)
	sources, err := discovery.FindImages(root, discovery.Options{
		Recurse:    mustGetBool(cmd, "recurse"),
		Extensions: cfg.Formats.ExtensionSet(),
	})
	if err != nil {
		return fmt.Errorf("discovering images: %w", err)
	}

	if len(sources) == 0 {
		fmt.Println("No images found.")
		return nil
	}
	fmt.Printf("Found %d images\n\n", len(sources))

	bar := progressbar.NewOptions(len(sources),
		progressbar.OptionSetDescription("Hashing images"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	// Ctrl+C cancels the scan; no partial results are produced.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := dedupe.New(loader.FileLoader{}, store)
	groups, err := scanner.Scan(ctx, sources, dedupe.Options{
		Threshold: threshold,
		Workers:   workers,
		OnProgress: func(p dedupe.Progress) {
			_ = bar.Set(p.Processed)
		},
	})
	if err != nil {
		fmt.Println()
		return err
	}
	fmt.Println()

	report := reporter.Report{
		Root:      root,
		Threshold: threshold,
		Scanned:   len(sources),
		Groups:    groups,
		CreatedAt: time.Now(),
	}

	out := os.Stdout
	if path := mustGetString(cmd, "output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if mustGetBool(cmd, "json") {
		return reporter.WriteJSON(out, report)
	}
	return reporter.WriteText(out, report)
}
