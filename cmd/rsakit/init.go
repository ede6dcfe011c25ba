package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vaultsandbox/rsakit/internal/config"
)

// initCmd writes the configuration template to the current directory
//
// Usage:
//
//	rsakit init
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "init",
		Short:                 "Generate configuration file template",
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, err := os.Getwd()
			if err != nil {
				return err
			}
			path := filepath.Join(pwd, config.DefaultProfile)
			if _, err := os.Stat(path); err == nil {
				return errors.Errorf("<%v> already exists", path)
			}

			if err := os.WriteFile(path, []byte(config.TemplateProfile), 0o600); err != nil {
				return errors.Wrap(err, "write template")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[ok] %v\n", path)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		Short:                 "Print version information",
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "rsakit", Version)
		},
	}
}
