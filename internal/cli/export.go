package cli

import (
	"fmt"

	"github.com/spolyanaa/MyBarKeeperBot/internal/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the ledger workbook to a file",
		Long:  "Writes the inventory, movements, settings and expiry sheets to an .xlsx file (default data.xlsx).",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	cmd.Flags().StringP("out", "o", "data.xlsx", "Output file")
	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	out, _ := cmd.Flags().GetString("out")

	cfg := loadConfig()
	logger := zap.NewNop()

	db, _, err := openLedger(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := export.NewExporter(db, logger).WriteFile(cmd.Context(), out); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
