package dto

import "github.com/shopspring/decimal"

// AddStockRequest body para POST /api/inventory/add.
type AddStockRequest struct {
	ProductID string          `json:"product_id"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     string          `json:"notes,omitempty"`
}

// RemoveStockRequest body para POST /api/inventory/remove.
type RemoveStockRequest struct {
	ProductID  string          `json:"product_id"`
	Amount     decimal.Decimal `json:"amount"`
	ReasonCode string          `json:"reason_code,omitempty"` // merma, venta, rotura, etc.
	Notes      string          `json:"notes,omitempty"`
}

// AdjustStockRequest body para POST /api/inventory/adjust.
// TargetQuantity es un valor absoluto, no un delta. PriceOverride presente
// sobreescribe el precio ajustado del inventario; ausente lo deja intacto.
type AdjustStockRequest struct {
	ProductID      string           `json:"product_id"`
	TargetQuantity decimal.Decimal  `json:"target_quantity"`
	Notes          string           `json:"notes,omitempty"`
	PriceOverride  *decimal.Decimal `json:"price_override,omitempty"`
}

// InventoryResponse proyección de una fila de inventario con su producto.
// CategoryName y StationID están reservados para futuras vistas.
type InventoryResponse struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	CategoryID     *string         `json:"category_id,omitempty"`
	CategoryName   *string         `json:"category_name,omitempty"`
	StationID      *string         `json:"station_id,omitempty"`
	LastUpdated    string          `json:"last_updated"`
}

// TransactionResponse una entrada del ledger de inventario.
type TransactionResponse struct {
	ID                string          `json:"id"`
	InventoryID       string          `json:"inventory_id"`
	Type              string          `json:"type"`
	QuantityDelta     decimal.Decimal `json:"quantity_delta"`
	ResultingQuantity decimal.Decimal `json:"resulting_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	UserID            string          `json:"user_id"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         string          `json:"created_at"`
}

// ReconcileResponse resultado de comparar el stock materializado contra el ledger.
type ReconcileResponse struct {
	InventoryID    string          `json:"inventory_id"`
	StoredQuantity decimal.Decimal `json:"stored_quantity"`
	LedgerQuantity decimal.Decimal `json:"ledger_quantity"`
	Consistent     bool            `json:"consistent"`
	Repaired       bool            `json:"repaired"`
}
