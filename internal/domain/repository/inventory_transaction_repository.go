package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/barstock-api/internal/domain/entity"
)

// InventoryTransactionRepository define el puerto del ledger de inventario.
// Append-only: no hay Update ni Delete.
type InventoryTransactionRepository interface {
	Create(tx *entity.InventoryTransaction) error
	// ListByInventory devuelve las transacciones de una fila de inventario,
	// más recientes primero.
	ListByInventory(inventoryID string, limit, offset int) ([]*entity.InventoryTransaction, error)
	// SumDeltas devuelve la suma de QuantityDelta del ledger para una fila.
	// Base de la reconciliación: debe coincidir con Inventory.Quantity.
	SumDeltas(inventoryID string) (decimal.Decimal, error)
}
