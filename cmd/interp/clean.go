package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"interp/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the on-disk normalization cache",
	Long:  "Remove cached normalization results stored under the user cache directory.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache(diskCacheApp)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	dir := cache.Dir()
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove cache: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "removed %s\n", dir)
	return nil
}
