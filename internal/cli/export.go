package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the owner's events as an iCalendar file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Write the .ics document to this file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := buildApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.service.ExportICS(ctx, a.owner)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), doc)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	a.logger.Info("exported calendar", "path", outPath)
	return nil
}
