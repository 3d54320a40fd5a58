package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weight-reconciliation/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCourtesyDelay is the pause taken before each order is processed.
const DefaultCourtesyDelay = 500 * time.Millisecond

// AuditUseCase orchestrates the weight reconciliation process.
type AuditUseCase struct {
	repo          FulfillmentRepository
	logger        *zap.Logger
	courtesyDelay time.Duration
	debug         bool
}

// Option configures an AuditUseCase.
type Option func(*AuditUseCase)

// WithLogger sets the logger used for per-order results and the summary.
func WithLogger(l *zap.Logger) Option {
	return func(uc *AuditUseCase) {
		if l != nil {
			uc.logger = l
		}
	}
}

// WithCourtesyDelay sets the pause taken before each order. Zero disables it.
func WithCourtesyDelay(d time.Duration) Option {
	return func(uc *AuditUseCase) {
		uc.courtesyDelay = d
	}
}

// WithDebug enables per-inventory-item weight tracing.
func WithDebug(debug bool) Option {
	return func(uc *AuditUseCase) {
		uc.debug = debug
	}
}

// NewAuditUseCase creates a new instance of the usecase.
func NewAuditUseCase(repo FulfillmentRepository, opts ...Option) *AuditUseCase {
	uc := &AuditUseCase{
		repo:          repo,
		logger:        zap.NewNop(),
		courtesyDelay: DefaultCourtesyDelay,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// RunAudit fetches every order visible to the account, reconciles them one at
// a time and returns the aggregated report. Any fetch failure aborts the run
// and no report is produced.
func (uc *AuditUseCase) RunAudit(ctx context.Context) (*domain.AuditReport, error) {
	runID := uuid.NewString()
	log := uc.logger.With(zap.String("run_id", runID))

	// Step 1: Data Ingestion
	orders, err := uc.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list orders: %w", err)
	}
	log.Info("orders fetched", zap.Int("count", len(orders)))

	report := domain.AuditReport{
		Summary: domain.AuditSummary{
			RunID:     runID,
			StartedAt: time.Now().UTC(),
		},
		Orders: make([]domain.OrderResult, 0, len(orders)),
	}

	// Step 2: Sequential per-order reconciliation
	for _, order := range orders {
		result, err := uc.processOrder(ctx, log, order)
		if err != nil {
			return nil, fmt.Errorf("could not process order %d: %w", order.ID, err)
		}
		report.Summary.Add(result)
		report.Orders = append(report.Orders, result)
	}

	// Step 3: Summary
	report.Summary.FinishedAt = time.Now().UTC()
	report.Summary.Finalize()
	logSummary(log, report.Summary)

	return &report, nil
}

// CompareWeights returns the discrepancies of every shipment of the order, in
// shipment order. The result is empty when no shipment diverges.
func (uc *AuditUseCase) CompareWeights(ctx context.Context, orderID int64) ([]domain.Discrepancy, error) {
	comparisons, err := uc.compareShipments(ctx, uc.logger, orderID)
	if err != nil {
		return nil, err
	}
	return discrepanciesOf(comparisons), nil
}

// processOrder pauses, reconciles the order and folds its shipments into
// per-order totals. Only shipments with both weights known are counted.
func (uc *AuditUseCase) processOrder(ctx context.Context, log *zap.Logger, order domain.Order) (domain.OrderResult, error) {
	if err := uc.pause(ctx); err != nil {
		return domain.OrderResult{}, err
	}

	comparisons, err := uc.compareShipments(ctx, log, order.ID)
	if err != nil {
		return domain.OrderResult{}, err
	}

	result := domain.OrderResult{
		OrderID:       order.ID,
		Discrepancies: discrepanciesOf(comparisons),
		Shipments:     len(comparisons),
	}
	for _, c := range comparisons {
		result.InvalidLines += c.InvalidLines
		if !c.Comparable() {
			log.Info("shipment weight not comparable",
				zap.Int64("order_id", order.ID),
				zap.Int64("shipment_id", c.ShipmentID),
				zap.Bool("charged_weight_missing", c.ChargedWeight == nil),
				zap.Bool("actual_weight_resolved", c.ActualResolved),
			)
			continue
		}
		result.HasResolvedWeight = true
		result.TotalActualWeight += c.ActualWeight
		result.TotalChargedWeight += *c.ChargedWeight
	}

	if len(result.Discrepancies) > 0 {
		log.Info("discrepancies found",
			zap.Int64("order_id", order.ID),
			zap.Any("discrepancies", result.Discrepancies),
		)
	} else {
		log.Info("no discrepancies found", zap.Int64("order_id", order.ID))
	}

	return result, nil
}

func (uc *AuditUseCase) pause(ctx context.Context) error {
	if uc.courtesyDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(uc.courtesyDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (uc *AuditUseCase) compareShipments(ctx context.Context, log *zap.Logger, orderID int64) ([]domain.ShipmentComparison, error) {
	shipments, err := uc.repo.GetShipments(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("could not get shipments for order %d: %w", orderID, err)
	}

	comparisons := make([]domain.ShipmentComparison, 0, len(shipments))
	for _, shipment := range shipments {
		c, err := uc.compareShipment(ctx, log, shipment)
		if err != nil {
			return nil, fmt.Errorf("could not weigh shipment %d of order %d: %w", shipment.ID, orderID, err)
		}
		comparisons = append(comparisons, c)
	}
	return comparisons, nil
}

func (uc *AuditUseCase) compareShipment(ctx context.Context, log *zap.Logger, shipment domain.Shipment) (domain.ShipmentComparison, error) {
	c := domain.ShipmentComparison{ShipmentID: shipment.ID}
	if charged, ok := shipment.ChargedWeight(); ok {
		c.ChargedWeight = &charged
	}

	for _, line := range shipment.Products {
		weight, err := uc.lineWeight(ctx, log, line)
		if errors.Is(err, domain.ErrInvalidProductData) {
			log.Warn("invalid product data",
				zap.Int64("shipment_id", shipment.ID),
				zap.Any("product", line),
			)
			c.InvalidLines++
			continue
		}
		if err != nil {
			return domain.ShipmentComparison{}, err
		}
		c.ActualWeight += weight
		c.ActualResolved = true
	}
	return c, nil
}

// lineWeight resolves the weight of one product line.
func (uc *AuditUseCase) lineWeight(ctx context.Context, log *zap.Logger, line domain.ProductLine) (float64, error) {
	switch line.Kind() {
	case domain.ProductLineSKU:
		item, err := uc.inventoryItem(ctx, line.ProductID())
		if err != nil {
			return 0, err
		}
		combined := item.Dimensions.Weight * float64(line.Quantity)
		uc.trace(log, line, item, line.Quantity, combined)
		return combined, nil

	case domain.ProductLineKit:
		var weight float64
		for _, ref := range line.InventoryItems {
			item, err := uc.inventoryItem(ctx, ref.ID)
			if err != nil {
				return 0, err
			}
			qty := line.EffectiveQuantity(ref)
			combined := item.Dimensions.Weight * float64(qty)
			uc.trace(log, line, item, qty, combined)
			weight += combined
		}
		return weight, nil

	default:
		return 0, fmt.Errorf("product line %d: %w", line.ProductID(), domain.ErrInvalidProductData)
	}
}

func (uc *AuditUseCase) inventoryItem(ctx context.Context, inventoryID int64) (*domain.InventoryItem, error) {
	item, err := uc.repo.GetInventoryItem(ctx, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("could not get inventory item %d: %w", inventoryID, err)
	}
	if item == nil {
		return nil, &domain.RequestError{
			Operation: fmt.Sprintf("get inventory item %d", inventoryID),
			Message:   "empty response",
		}
	}
	return item, nil
}

func (uc *AuditUseCase) trace(log *zap.Logger, line domain.ProductLine, item *domain.InventoryItem, qty int, combined float64) {
	if !uc.debug {
		return
	}
	log.Debug("inventory item weighed",
		zap.Stringer("kind", line.Kind()),
		zap.Int64("product_id", line.ProductID()),
		zap.Int64("inventory_id", item.ID),
		zap.Int("quantity", qty),
		zap.Float64("unit_weight", item.Dimensions.Weight),
		zap.Float64("combined_weight", combined),
	)
}

func discrepanciesOf(comparisons []domain.ShipmentComparison) []domain.Discrepancy {
	discrepancies := make([]domain.Discrepancy, 0)
	for _, c := range comparisons {
		if d, ok := c.Discrepancy(); ok {
			discrepancies = append(discrepancies, d)
		}
	}
	return discrepancies
}

func logSummary(log *zap.Logger, s domain.AuditSummary) {
	log.Info("audit summary",
		zap.Int("total_orders", s.TotalOrders),
		zap.Int("orders_with_charged_weight", s.OrdersWithResolvedWeight),
		zap.Int("orders_without_charged_weight", s.OrdersWithoutResolvedWeight),
		zap.Int("total_shipments", s.TotalShipments),
		zap.Int("discrepancies", s.DiscrepancyCount),
		zap.Int("invalid_product_lines", s.InvalidProductLines),
		zap.Float64("total_actual_weight", s.TotalActualWeight),
		zap.Float64("total_charged_weight", s.TotalChargedWeight),
		zap.Duration("elapsed", s.FinishedAt.Sub(s.StartedAt)),
	)

	if s.OverchargedWeight == nil {
		log.Info("no charged weight to calculate overcharge percentage")
		return
	}
	log.Info("overcharge",
		zap.Float64("overcharged_weight", *s.OverchargedWeight),
		zap.String("overcharged_percentage", fmt.Sprintf("%.2f%%", *s.OverchargedPercentage)),
	)
}
