package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ember/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the ember assembly cache",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	cache, err := driver.OpenDiskCache("ember")
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clean %s: %w", cache.Dir(), err)
	}
	summary(cmd.OutOrStdout(), g, true, "removed %s", cache.Dir())
	return nil
}
