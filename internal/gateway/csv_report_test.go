package gateway

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"weight-reconciliation/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCSVReportWriter_WriteDiscrepancies(t *testing.T) {
	tests := []struct {
		name     string
		orders   []domain.OrderResult
		expected [][]string
	}{
		{
			name: "discrepancies across orders",
			orders: []domain.OrderResult{
				{
					OrderID: 101,
					Discrepancies: []domain.Discrepancy{
						{ShipmentID: 1010, ChargedWeight: 20, ActualWeight: 16},
						{ShipmentID: 1011, ChargedWeight: 4.5, ActualWeight: 6},
					},
				},
				{OrderID: 102, Discrepancies: []domain.Discrepancy{}},
				{
					OrderID:       103,
					Discrepancies: []domain.Discrepancy{{ShipmentID: 1030, ChargedWeight: 12.25, ActualWeight: 12}},
				},
			},
			expected: [][]string{
				discrepancyHeader,
				{"101", "1010", "20", "16", "4"},
				{"101", "1011", "4.5", "6", "-1.5"},
				{"103", "1030", "12.25", "12", "0.25"},
			},
		},
		{
			name:     "no orders writes header only",
			orders:   nil,
			expected: [][]string{discrepancyHeader},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report.csv")

			writer := NewCSVReportWriter()
			err := writer.WriteDiscrepancies(context.Background(), path, tt.orders)
			assert.NoError(t, err)

			got := readCSV(t, path)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCSVReportWriter_WriteDiscrepancies_FileErrors(t *testing.T) {
	writer := NewCSVReportWriter()

	t.Run("directory does not exist", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "report.csv")
		err := writer.WriteDiscrepancies(context.Background(), path, nil)
		if err == nil {
			t.Error("Expected error for missing directory, got nil")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		path := filepath.Join(t.TempDir(), "report.csv")
		err := writer.WriteDiscrepancies(ctx, path, []domain.OrderResult{{OrderID: 1}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// Helper functions

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open report: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	return records
}

func BenchmarkWriteDiscrepancies(b *testing.B) {
	orders := make([]domain.OrderResult, 0, 1000)
	for i := 0; i < 1000; i++ {
		orders = append(orders, domain.OrderResult{
			OrderID:       int64(i),
			Discrepancies: []domain.Discrepancy{{ShipmentID: int64(i), ChargedWeight: 20, ActualWeight: 16}},
		})
	}
	path := filepath.Join(b.TempDir(), "benchmark.csv")
	writer := NewCSVReportWriter()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := writer.WriteDiscrepancies(ctx, path, orders); err != nil {
			b.Fatalf("Error in benchmark: %v", err)
		}
	}
}
