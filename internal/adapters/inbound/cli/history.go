package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diaglens/diaglens/internal/adapters/outbound/tui"
)

func newHistoryCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored snapshots with totals and deltas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(projectPath)
			if err != nil {
				return err
			}
			entries, err := p.store().List()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")

	return cmd
}
