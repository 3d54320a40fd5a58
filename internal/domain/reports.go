package domain

import "time"

// Discrepancy is a shipment whose charged and actual weights are both known and differ.
type Discrepancy struct {
	ShipmentID    int64   `json:"shipment_id"`
	ChargedWeight float64 `json:"charged_weight"`
	ActualWeight  float64 `json:"actual_weight"`
}

// ShipmentComparison is the outcome of weighing a single shipment.
type ShipmentComparison struct {
	ShipmentID     int64    `json:"shipment_id"`
	ChargedWeight  *float64 `json:"charged_weight"`
	ActualWeight   float64  `json:"actual_weight"`
	ActualResolved bool     `json:"actual_resolved"` // false when no product line could be weighed
	InvalidLines   int      `json:"invalid_lines"`
}

// Comparable reports whether both weights are known.
func (c ShipmentComparison) Comparable() bool {
	return c.ChargedWeight != nil && c.ActualResolved
}

// Discrepancy returns the discrepancy for the shipment, if any. Weights are
// compared exactly.
func (c ShipmentComparison) Discrepancy() (Discrepancy, bool) {
	if !c.Comparable() || *c.ChargedWeight == c.ActualWeight {
		return Discrepancy{}, false
	}
	return Discrepancy{
		ShipmentID:    c.ShipmentID,
		ChargedWeight: *c.ChargedWeight,
		ActualWeight:  c.ActualWeight,
	}, true
}

// OrderResult holds the reconciliation outcome of one order.
type OrderResult struct {
	OrderID            int64         `json:"order_id"`
	Discrepancies      []Discrepancy `json:"discrepancies"`
	HasResolvedWeight  bool          `json:"has_resolved_weight"`
	TotalActualWeight  float64       `json:"total_actual_weight"`
	TotalChargedWeight float64       `json:"total_charged_weight"`
	Shipments          int           `json:"shipments"`
	InvalidLines       int           `json:"invalid_lines"`
}

// AuditSummary provides run-level statistics of an audit.
type AuditSummary struct {
	RunID                       string    `json:"run_id"`
	StartedAt                   time.Time `json:"started_at"`
	FinishedAt                  time.Time `json:"finished_at"`
	TotalOrders                 int       `json:"total_orders"`
	OrdersWithResolvedWeight    int       `json:"orders_with_resolved_weight"`
	OrdersWithoutResolvedWeight int       `json:"orders_without_resolved_weight"`
	TotalShipments              int       `json:"total_shipments"`
	DiscrepancyCount            int       `json:"discrepancy_count"`
	InvalidProductLines         int       `json:"invalid_product_lines"`
	TotalActualWeight           float64   `json:"total_actual_weight"`
	TotalChargedWeight          float64   `json:"total_charged_weight"`

	// Set only when TotalChargedWeight > 0.
	OverchargedWeight     *float64 `json:"overcharged_weight,omitempty"`
	OverchargedPercentage *float64 `json:"overcharged_percentage,omitempty"`
}

// Add folds one order result into the summary.
func (s *AuditSummary) Add(r OrderResult) {
	s.TotalOrders++
	s.TotalShipments += r.Shipments
	s.DiscrepancyCount += len(r.Discrepancies)
	s.InvalidProductLines += r.InvalidLines
	s.TotalActualWeight += r.TotalActualWeight
	s.TotalChargedWeight += r.TotalChargedWeight
	if r.HasResolvedWeight {
		s.OrdersWithResolvedWeight++
	} else {
		s.OrdersWithoutResolvedWeight++
	}
}

// Finalize computes the overcharge figures. The percentage is relative to
// the total charged weight.
func (s *AuditSummary) Finalize() {
	s.OverchargedWeight = nil
	s.OverchargedPercentage = nil
	if s.TotalChargedWeight <= 0 {
		return
	}
	over := s.TotalChargedWeight - s.TotalActualWeight
	pct := over / s.TotalChargedWeight * 100
	s.OverchargedWeight = &over
	s.OverchargedPercentage = &pct
}

// AuditReport is the top-level structure returned by an audit run.
type AuditReport struct {
	Summary AuditSummary  `json:"summary"`
	Orders  []OrderResult `json:"orders"`
}
