package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "photo-dedupe",
	Short: "A CLI tool for finding visually similar images",
	Long: `Photo Dedupe scans directories of images and groups visual near-duplicates
using perceptual hashing. Two fingerprints are computed per image: a
frequency hash that survives resizing and recompression, and a gradient
hash that captures brightness structure. Images whose blended similarity
reaches the threshold end up in the same group.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
