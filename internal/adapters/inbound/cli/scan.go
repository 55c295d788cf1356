package cli

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/diaglens/diaglens/internal/adapters/outbound/analyzer"
	"github.com/diaglens/diaglens/internal/adapters/outbound/gitinfo"
	"github.com/diaglens/diaglens/internal/adapters/outbound/tui"
	"github.com/diaglens/diaglens/internal/application"
	"github.com/diaglens/diaglens/internal/domain"
)

func newScanCmd() *cobra.Command {
	var (
		projectPath string
		noInstall   bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the analyzer and save a diagnostics snapshot",
		Long:  "Run the configured type checker over the project, classify every diagnostic and save the result as a timestamped snapshot. Only the newest snapshots are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(projectPath)
			if err != nil {
				return err
			}

			runner := analyzer.New(p.cfg.Analyzer)
			if err := application.NewToolService(runner).EnsureAnalyzer(cmd.Context(), !noInstall); err != nil {
				return err
			}

			console := tui.NewConsole(cmd.OutOrStdout())
			console.Println(domain.ToneInfo, fmt.Sprintf("%s Scanning %s with %s...", console.Symbol("scan"), p.root, runner.Describe()))

			svc := application.NewScanService(runner, p.store(), gitinfo.New())
			res, err := svc.RunScan(cmd.Context(), p.root)
			if err != nil {
				return goerr.Wrap(err, "scan failed")
			}

			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderScanSummary(res.Snapshot, res.OutputPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")
	cmd.Flags().BoolVar(&noInstall, "no-install", false, "Fail instead of installing a missing analyzer")

	return cmd
}
