package usecase

import (
	"context"
	"weight-reconciliation/internal/domain"
)

// FulfillmentRepository defines the read operations the audit needs from the
// fulfillment provider. The usecase layer depends on this interface, not on a
// concrete client.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go FulfillmentRepository
type FulfillmentRepository interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetShipments(ctx context.Context, orderID int64) ([]domain.Shipment, error)
	GetInventoryItem(ctx context.Context, inventoryID int64) (*domain.InventoryItem, error)
}
