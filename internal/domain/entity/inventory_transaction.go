package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	TransactionTypeADD    = "ADD"    // entrada de stock
	TransactionTypeREMOVE = "REMOVE" // salida de stock
	TransactionTypeADJUST = "ADJUST" // ajuste a un valor absoluto
)

// InventoryTransaction es el registro inmutable de una mutación de stock.
// El ledger es append-only y es la fuente de verdad del historial:
// Inventory.Quantity se puede reconstruir sumando QuantityDelta en orden de commit.
type InventoryTransaction struct {
	ID                string
	InventoryID       string
	Type              string          // ADD, REMOVE, ADJUST
	QuantityDelta     decimal.Decimal // positivo en ADD, negativo en REMOVE, con signo en ADJUST
	ResultingQuantity decimal.Decimal // snapshot del stock después de la mutación
	UnitPrice         decimal.Decimal // precio vigente al momento de la transacción
	UserID            string
	Notes             string
	CreatedAt         time.Time
}
