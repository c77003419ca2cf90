package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-dedupe/internal/config"
	"github.com/kozaktomas/photo-dedupe/internal/dedupe"
	"github.com/kozaktomas/photo-dedupe/internal/discovery"
	"github.com/kozaktomas/photo-dedupe/internal/fingerprint"
	"github.com/kozaktomas/photo-dedupe/internal/index"
	"github.com/kozaktomas/photo-dedupe/internal/loader"
)

var searchCmd = &cobra.Command{
	Use:   "search <directory> <query-image>",
	Short: "Find images in a directory most similar to a query image",
	Long: `Fingerprint every image under the directory, build an in-memory
nearest-neighbor index, and print the images closest to the query.

Examples:
  photo-dedupe search ~/Pictures vacation.jpg
  photo-dedupe search ~/Pictures vacation.jpg --top 20 --recurse`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Int("top", 10, "Number of results to print")
	searchCmd.Flags().Bool("recurse", false, "Descend into subdirectories")
	searchCmd.Flags().Int("workers", 0, "Number of hashing workers (0 = number of CPUs)")
	searchCmd.Flags().Bool("no-cache", false, "Skip the persistent fingerprint cache")
}

func runSearch(cmd *cobra.Command, args []string) error {
	root, queryPath := args[0], args[1]
	cfg := config.Load()

	l := loader.FileLoader{}
	queryImg, err := l.Load(queryPath)
	if err != nil {
		return err
	}
	query, err := fingerprint.ComputeHashes(queryImg)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", queryPath, err)
	}

	store, err := openCacheStore(cfg, mustGetBool(cmd, "no-cache"))
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

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

	bar := progressbar.NewOptions(len(sources),
		progressbar.OptionSetDescription("Hashing images"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionFullWidth(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := dedupe.New(l, store)
	hashes, err := scanner.Hashes(ctx, sources, dedupe.Options{
		Workers: mustGetInt(cmd, "workers"),
		OnProgress: func(p dedupe.Progress) {
			_ = bar.Set(p.Processed)
		},
	})
	if err != nil {
		fmt.Println()
		return err
	}
	fmt.Println()

	ix := index.New()
	for _, h := range hashes {
		ix.Add(h.Path, h.PHash, h.DHash)
	}

	matches, err := ix.Search(query.PHashBits, query.DHashBits, mustGetInt(cmd, "top"))
	if err != nil {
		return fmt.Errorf("searching index: %w", err)
	}

	// Re-score candidates with the exact blended similarity; the index
	// distance is only an approximation used to narrow the field.
	byPath := make(map[string]dedupe.ImageHash, len(hashes))
	for _, h := range hashes {
		byPath[h.Path] = h
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SIMILARITY\tFILE")
	for _, m := range matches {
		h, ok := byPath[m.Path]
		if !ok {
			continue
		}
		score := fingerprint.BlendedSimilarity(query.PHashBits, query.DHashBits, h.PHash, h.DHash)
		fmt.Fprintf(w, "%.2f%%\t%s\n", score, m.Path)
	}
	return w.Flush()
}
