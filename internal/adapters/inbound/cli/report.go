package cli

import (
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		projectPath string
		outFile     string
	)

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Print the diagnostics report for one file",
		Long:  "Format the diagnostics of one file from the latest snapshot with source context. The file may be given as a full path or as a unique base name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(projectPath)
			if err != nil {
				return err
			}
			svc, _, err := p.triage()
			if err != nil {
				return err
			}

			text, err := svc.FileReport(args[0])
			if err != nil {
				return err
			}

			if outFile == "" {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			if err := os.WriteFile(outFile, []byte(text), 0644); err != nil {
				return goerr.Wrap(err, "writing report", goerr.V("path", outFile))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", outFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the report to this file instead of stdout")

	return cmd
}
