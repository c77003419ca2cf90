package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-dedupe/internal/fingerprint"
	"github.com/kozaktomas/photo-dedupe/internal/loader"
)

var compareCmd = &cobra.Command{
	Use:   "compare <image-a> <image-b>",
	Short: "Compare two images by perceptual similarity",
	Long: `Compute both fingerprints for two images and print their per-hash and
blended similarity scores (0-100).

Example:
  photo-dedupe compare original.jpg resized.jpg`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	l := loader.FileLoader{}

	results := make([]*fingerprint.HashResult, 2)
	for i, path := range args {
		img, err := l.Load(path)
		if err != nil {
			return err
		}
		results[i], err = fingerprint.ComputeHashes(img)
		if err != nil {
			return fmt.Errorf("hashing %s: %w", path, err)
		}
	}

	a, b := results[0], results[1]
	phashScore := fingerprint.Similarity(a.PHashBits, b.PHashBits)
	dhashScore := fingerprint.Similarity(a.DHashBits, b.DHashBits)
	blended := fingerprint.BlendedSimilarity(a.PHashBits, a.DHashBits, b.PHashBits, b.DHashBits)

	fmt.Printf("%s\n  frequency: %s\n  gradient:  %s\n\n", args[0], a.PHash, a.DHash)
	fmt.Printf("%s\n  frequency: %s\n  gradient:  %s\n\n", args[1], b.PHash, b.DHash)
	fmt.Printf("Frequency similarity: %.2f%% (distance %d)\n",
		phashScore, fingerprint.HammingDistance(a.PHashBits, b.PHashBits))
	fmt.Printf("Gradient similarity:  %.2f%% (distance %d)\n",
		dhashScore, fingerprint.HammingDistance(a.DHashBits, b.DHashBits))
	fmt.Printf("Blended similarity:   %.2f%%\n", blended)

	return nil
}
