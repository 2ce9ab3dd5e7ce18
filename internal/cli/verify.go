package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrLedgerDrift is returned by verify when stored balances disagree with
// the movement log.
var ErrLedgerDrift = errors.New("ledger drift detected")

func init() {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay the movement log and compare it with stored balances",
		Long:  "Recomputes every balance from the movement log. Prints the report as JSON and exits non-zero when any product drifted.",
		Args:  cobra.NoArgs,
		RunE:  runVerify,
	}
	RootCmd.AddCommand(cmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	logger := zap.NewNop()

	db, cat, err := openLedger(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := ledger.NewVerifier(db, db, cat.Builtins()).Verify(cmd.Context())
	if err != nil {
		return err
	}

	b, _ := json.MarshalIndent(report, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))

	if !report.Consistent() {
		return fmt.Errorf("%w: %d product(s)", ErrLedgerDrift, len(report.Drift))
	}
	return nil
}
