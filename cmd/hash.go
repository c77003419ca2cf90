package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-dedupe/internal/fingerprint"
	"github.com/kozaktomas/photo-dedupe/internal/loader"
)

var hashCmd = &cobra.Command{
	Use:   "hash [files...]",
	Short: "Print perceptual hashes for images",
	Long: `Compute and print the frequency and gradient hashes for one or more
image files. Hashes are printed as 16 uppercase hex digits.

Examples:
  photo-dedupe hash photo.jpg
  photo-dedupe hash *.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHash,
}

func init() {
	rootCmd.AddCommand(hashCmd)
}

func runHash(cmd *cobra.Command, args []string) error {
	l := loader.FileLoader{}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tFREQUENCY\tGRADIENT\tDIMENSIONS")

	var failed int
	for _, path := range args {
		img, err := l.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			failed++
			continue
		}

		result, err := fingerprint.ComputeHashes(img)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			failed++
			continue
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\n", path, result.PHash, result.DHash, result.Width, result.Height)
	}
	w.Flush()

	if failed == len(args) {
		return fmt.Errorf("no hashable images among %d files", len(args))
	}
	return nil
}
