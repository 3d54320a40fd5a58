package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"weight-reconciliation/internal/domain"
)

var discrepancyHeader = []string{"order_id", "shipment_id", "charged_weight_oz", "actual_weight_oz", "difference_oz"}

// CSVReportWriter writes audit discrepancies to CSV files.
type CSVReportWriter struct{}

// NewCSVReportWriter creates a new writer instance.
func NewCSVReportWriter() *CSVReportWriter {
	return &CSVReportWriter{}
}

// WriteDiscrepancies writes one row per discrepancy, in order and shipment
// order, to the file at path. The file is truncated if it exists.
func (w *CSVReportWriter) WriteDiscrepancies(ctx context.Context, path string, orders []domain.OrderResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create discrepancy report %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(discrepancyHeader); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}

	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, d := range order.Discrepancies {
			record := []string{
				strconv.FormatInt(order.OrderID, 10),
				strconv.FormatInt(d.ShipmentID, 10),
				formatWeight(d.ChargedWeight),
				formatWeight(d.ActualWeight),
				formatWeight(d.ChargedWeight - d.ActualWeight),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("error writing record to %s: %w", path, err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing %s: %w", path, err)
	}
	return file.Close()
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
