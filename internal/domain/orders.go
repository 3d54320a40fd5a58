package domain

// Recipient is the shipping address block of an order. It is decoded for
// completeness but plays no part in weight reconciliation.
type Recipient struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
	Email   string  `json:"email,omitempty"`
}

// Address is a postal address as returned by the fulfillment provider.
type Address struct {
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	ZipCode     string `json:"zip_code"`
	CompanyName string `json:"company_name,omitempty"`
}

// Order represents a merchant order from the fulfillment provider.
type Order struct {
	ID        int64         `json:"id"`
	Recipient Recipient     `json:"recipient"`
	Products  []ProductLine `json:"products"`
}

// Measurements holds the carrier-reported dimensions of a shipment.
type Measurements struct {
	TotalWeightOz *float64 `json:"total_weight_oz"` // nil when the carrier has not reported a weight
}

// Shipment is one package of an order.
type Shipment struct {
	ID           int64         `json:"id"`
	OrderID      int64         `json:"order_id"`
	Measurements *Measurements `json:"measurements"`
	Products     []ProductLine `json:"products"`
}

// ChargedWeight returns the carrier-charged weight in ounces, if reported.
func (s Shipment) ChargedWeight() (float64, bool) {
	if s.Measurements == nil || s.Measurements.TotalWeightOz == nil {
		return 0, false
	}
	return *s.Measurements.TotalWeightOz, true
}

// ProductLineKind tells how a product line's weight is resolved.
type ProductLineKind int

const (
	// ProductLineInvalid lines cannot be resolved and contribute no weight.
	ProductLineInvalid ProductLineKind = iota
	// ProductLineSKU lines map directly to one inventory item.
	ProductLineSKU
	// ProductLineKit lines are bundles expanded through their inventory items.
	ProductLineKit
)

func (k ProductLineKind) String() string {
	switch k {
	case ProductLineSKU:
		return "sku"
	case ProductLineKit:
		return "kit"
	default:
		return "invalid"
	}
}

// InventoryItemRef is one component of a kit product line.
type InventoryItemRef struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"` // 0 means "use the parent line quantity"
}

// ProductLine is a product and quantity packed into an order or shipment.
type ProductLine struct {
	ID             *int64             `json:"id"`
	Quantity       int                `json:"quantity"`
	InventoryItems []InventoryItemRef `json:"inventory_items,omitempty"`
}

// Kind classifies the line. A positive id is a catalog SKU; otherwise a
// non-empty inventory item list makes it a kit; anything else is invalid.
func (p ProductLine) Kind() ProductLineKind {
	switch {
	case p.ID != nil && *p.ID > 0:
		return ProductLineSKU
	case len(p.InventoryItems) > 0:
		return ProductLineKit
	default:
		return ProductLineInvalid
	}
}

// ProductID returns the top-level product id, or 0 when absent.
func (p ProductLine) ProductID() int64 {
	if p.ID == nil {
		return 0
	}
	return *p.ID
}

// EffectiveQuantity returns the multiplier for a kit component: its own
// quantity when set, the parent line quantity otherwise.
func (p ProductLine) EffectiveQuantity(ref InventoryItemRef) int {
	if ref.Quantity != 0 {
		return ref.Quantity
	}
	return p.Quantity
}

// Dimensions describes one unit of an inventory item.
type Dimensions struct {
	Weight float64 `json:"weight"` // ounces per unit
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Depth  float64 `json:"depth,omitempty"`
}

// InventoryItem is a warehouse stock unit with its catalog weight.
type InventoryItem struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name,omitempty"`
	Dimensions Dimensions `json:"dimensions"`
}
