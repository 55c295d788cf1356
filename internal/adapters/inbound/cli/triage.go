package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diaglens/diaglens/internal/adapters/outbound/clipboard"
	"github.com/diaglens/diaglens/internal/adapters/outbound/tui"
	"github.com/diaglens/diaglens/internal/application"
	"github.com/diaglens/diaglens/internal/domain"
)

func newTriageCmd() *cobra.Command {
	var (
		projectPath string
		onlyErrors  bool
		onlyWarns   bool
		onlyInfo    bool
	)

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Walk through the latest snapshot file by file",
		Long:  "Start an interactive session over the latest snapshot. Pick a file, read its diagnostics with source context and copy or save a report of them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			console := tui.NewConsole(out)

			p, err := loadProject(projectPath)
			if err != nil {
				return err
			}
			svc, reader, err := p.triage()
			if err != nil {
				return err
			}

			filter := severityFilter(onlyErrors, onlyWarns, onlyInfo)
			snap, groups, err := svc.Groups(filter)
			if errors.Is(err, domain.ErrNoSnapshot) {
				console.Println(domain.ToneError, console.Symbol("error")+" No snapshot found in "+p.cfg.SnapshotDir(p.root))
				console.Println(domain.ToneInfo, console.Symbol("info")+" Run 'diaglens scan' first.")
				return err
			}
			if err != nil {
				return err
			}

			if snap.TotalErrors == 0 {
				console.Println(domain.ToneSuccess, console.Symbol("check")+" No diagnostics found. The project is clean!")
				return nil
			}
			if filter != "" {
				console.Println(domain.ToneInfo, fmt.Sprintf("%s Showing %s diagnostics only (%d of %d)",
					console.Symbol("info"), filter, groups.Total(), snap.TotalErrors))
			}

			nav := application.NewNavigator(groups, application.NavigatorConfig{
				In:        cmd.InOrStdin(),
				Console:   console,
				Symbols:   console,
				Clipboard: clipboard.New(),
				Source:    reader,
				ExportDir: p.cfg.ExportDir(),
			})
			return nav.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")
	cmd.Flags().BoolVar(&onlyErrors, "error", false, "Only show errors")
	cmd.Flags().BoolVar(&onlyWarns, "warning", false, "Only show warnings")
	cmd.Flags().BoolVar(&onlyInfo, "info", false, "Only show informational diagnostics")
	cmd.MarkFlagsMutuallyExclusive("error", "warning", "info")

	return cmd
}

func severityFilter(errs, warns, info bool) string {
	switch {
	case errs:
		return domain.SeverityError
	case warns:
		return domain.SeverityWarning
	case info:
		return domain.SeverityInfo
	}
	return ""
}
