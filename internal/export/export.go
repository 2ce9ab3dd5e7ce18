// Package export renders the ledger as an Excel workbook.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	SheetInventory = "inventory"
	SheetMovements = "movements"
	SheetSettings  = "settings"
	SheetExpiry    = "expiry"
)

var headers = map[string][]interface{}{
	SheetInventory: {"product", "unit", "qty"},
	SheetMovements: {"ts", "who", "action", "user_id", "product", "qty"},
	SheetSettings:  {"product", "poor_threshold", "luxe_threshold"},
	SheetExpiry:    {"product", "expiry_date", "qty"},
}

// Source is the read side of the ledger store.
type Source interface {
	ListBalances(ctx context.Context) ([]ledger.Balance, error)
	ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]ledger.Movement, error)
	ListThresholds(ctx context.Context) ([]ledger.Threshold, error)
	ListExpiry(ctx context.Context) ([]ledger.ExpiryLot, error)
}

type Exporter struct {
	source Source
	logger *zap.Logger
}

func NewExporter(source Source, logger *zap.Logger) *Exporter {
	return &Exporter{source: source, logger: logger}
}

// Export returns the workbook as xlsx bytes.
func (e *Exporter) Export(ctx context.Context) ([]byte, error) {
	f, err := e.build(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile saves the workbook to path.
func (e *Exporter) WriteFile(ctx context.Context, path string) error {
	f, err := e.build(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	e.logger.Info("Workbook written", zap.String("path", path))
	return nil
}

func (e *Exporter) build(ctx context.Context) (*excelize.File, error) {
	balances, err := e.source.ListBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read balances: %w", err)
	}
	moves, err := e.source.ListMovements(ctx, ledger.MovementFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to read movements: %w", err)
	}
	thresholds, err := e.source.ListThresholds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read thresholds: %w", err)
	}
	lots, err := e.source.ListExpiry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read expiry lots: %w", err)
	}

	rows := map[string][][]interface{}{}
	for _, b := range balances {
		rows[SheetInventory] = append(rows[SheetInventory], []interface{}{b.Product, b.Unit, b.Quantity.InexactFloat64()})
	}
	for _, m := range moves {
		rows[SheetMovements] = append(rows[SheetMovements], []interface{}{
			m.At.UTC().Format(time.RFC3339), string(m.Role), string(m.Action), m.ActorID, m.Product, m.Quantity.InexactFloat64(),
		})
	}
	for _, t := range thresholds {
		rows[SheetSettings] = append(rows[SheetSettings], []interface{}{t.Product, t.Poor.InexactFloat64(), t.Luxe.InexactFloat64()})
	}
	for _, lot := range lots {
		rows[SheetExpiry] = append(rows[SheetExpiry], []interface{}{lot.Product, lot.Date.Format(time.DateOnly), lot.Quantity.InexactFloat64()})
	}

	f := excelize.NewFile()
	for i, sheet := range []string{SheetInventory, SheetMovements, SheetSettings, SheetExpiry} {
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := writeRows(f, sheet, headers[sheet], rows[sheet]); err != nil {
			f.Close()
			return nil, err
		}
	}

	e.logger.Debug("Workbook built",
		zap.Int("balances", len(balances)),
		zap.Int("movements", len(moves)),
		zap.Int("thresholds", len(thresholds)),
		zap.Int("expiry_lots", len(lots)),
	)
	return f, nil
}

func writeRows(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	all := append([][]interface{}{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
