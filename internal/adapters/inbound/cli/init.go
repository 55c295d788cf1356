package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/diaglens/diaglens/internal/adapters/outbound/config"
	"github.com/diaglens/diaglens/internal/domain"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .diaglens.yaml configuration file",
		Long:  "Create a .diaglens.yaml with the default analyzer, snapshot and export settings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return goerr.Wrap(err, "resolving path", goerr.V("path", path))
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return goerr.New(config.FileName+" already exists (use --force to overwrite)", goerr.V("path", dest))
				}
			}

			content, err := config.Marshal(domain.DefaultConfig())
			if err != nil {
				return err
			}

			if err := os.WriteFile(dest, content, 0644); err != nil {
				return goerr.Wrap(err, "writing config", goerr.V("path", dest))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .diaglens.yaml")

	return cmd
}
