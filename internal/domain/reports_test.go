package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductLine_Kind(t *testing.T) {
	id := func(v int64) *int64 { return &v }

	tests := []struct {
		name string
		line ProductLine
		want ProductLineKind
	}{
		{name: "positive id", line: ProductLine{ID: id(5), Quantity: 1}, want: ProductLineSKU},
		{name: "positive id wins over items", line: ProductLine{ID: id(5), InventoryItems: []InventoryItemRef{{ID: 7}}}, want: ProductLineSKU},
		{name: "negative id with items", line: ProductLine{ID: id(-1), InventoryItems: []InventoryItemRef{{ID: 7}}}, want: ProductLineKit},
		{name: "absent id with items", line: ProductLine{InventoryItems: []InventoryItemRef{{ID: 7}}}, want: ProductLineKit},
		{name: "zero id", line: ProductLine{ID: id(0), Quantity: 1}, want: ProductLineInvalid},
		{name: "negative id with empty items", line: ProductLine{ID: id(-2), InventoryItems: []InventoryItemRef{}}, want: ProductLineInvalid},
		{name: "absent id", line: ProductLine{Quantity: 1}, want: ProductLineInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.line.Kind())
		})
	}
}

func TestProductLine_EffectiveQuantity(t *testing.T) {
	line := ProductLine{Quantity: 3}
	assert.Equal(t, 3, line.EffectiveQuantity(InventoryItemRef{ID: 7}))
	assert.Equal(t, 4, line.EffectiveQuantity(InventoryItemRef{ID: 7, Quantity: 4}))
}

func TestShipmentComparison_Discrepancy(t *testing.T) {
	w := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		c      ShipmentComparison
		want   Discrepancy
		wantOK bool
	}{
		{
			name:   "differs",
			c:      ShipmentComparison{ShipmentID: 1, ChargedWeight: w(20), ActualWeight: 16, ActualResolved: true},
			want:   Discrepancy{ShipmentID: 1, ChargedWeight: 20, ActualWeight: 16},
			wantOK: true,
		},
		{
			name: "equal",
			c:    ShipmentComparison{ShipmentID: 1, ChargedWeight: w(16), ActualWeight: 16, ActualResolved: true},
		},
		{
			name: "charged missing",
			c:    ShipmentComparison{ShipmentID: 1, ActualWeight: 16, ActualResolved: true},
		},
		{
			name: "actual not computable",
			c:    ShipmentComparison{ShipmentID: 1, ChargedWeight: w(16)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.c.Discrepancy()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuditSummary_Finalize(t *testing.T) {
	t.Run("percentage is relative to charged weight", func(t *testing.T) {
		s := AuditSummary{TotalActualWeight: 16, TotalChargedWeight: 20}
		s.Finalize()
		require.NotNil(t, s.OverchargedWeight)
		require.NotNil(t, s.OverchargedPercentage)
		assert.InDelta(t, 4.0, *s.OverchargedWeight, 1e-9)
		assert.InDelta(t, 20.0, *s.OverchargedPercentage, 1e-9)
	})

	t.Run("equal weights give zero percent", func(t *testing.T) {
		s := AuditSummary{TotalActualWeight: 16, TotalChargedWeight: 16}
		s.Finalize()
		require.NotNil(t, s.OverchargedPercentage)
		assert.Equal(t, 0.0, *s.OverchargedPercentage)
	})

	t.Run("undercharge is negative", func(t *testing.T) {
		s := AuditSummary{TotalActualWeight: 25, TotalChargedWeight: 20}
		s.Finalize()
		require.NotNil(t, s.OverchargedPercentage)
		assert.InDelta(t, -25.0, *s.OverchargedPercentage, 1e-9)
	})

	t.Run("no charged weight", func(t *testing.T) {
		s := AuditSummary{TotalActualWeight: 25}
		s.Finalize()
		assert.Nil(t, s.OverchargedWeight)
		assert.Nil(t, s.OverchargedPercentage)
	})
}

func TestAuditSummary_Add(t *testing.T) {
	var s AuditSummary
	s.Add(OrderResult{HasResolvedWeight: true, TotalActualWeight: 16, TotalChargedWeight: 20, Shipments: 2, InvalidLines: 1,
		Discrepancies: []Discrepancy{{ShipmentID: 1, ChargedWeight: 20, ActualWeight: 16}}})
	s.Add(OrderResult{})

	assert.Equal(t, 2, s.TotalOrders)
	assert.Equal(t, 1, s.OrdersWithResolvedWeight)
	assert.Equal(t, 1, s.OrdersWithoutResolvedWeight)
	assert.Equal(t, 2, s.TotalShipments)
	assert.Equal(t, 1, s.DiscrepancyCount)
	assert.Equal(t, 1, s.InvalidProductLines)
	assert.Equal(t, 16.0, s.TotalActualWeight)
	assert.Equal(t, 20.0, s.TotalChargedWeight)
}
