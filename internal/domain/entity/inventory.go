package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory representa la posición de stock de un producto en una organización.
// Existe exactamente una fila por (OrganizationID, ProductID); se crea de forma
// perezosa en la primera entrada de stock y nunca se borra.
// Quantity es una vista materializada: debe ser siempre igual a la suma de los
// deltas del ledger (InventoryTransaction) de esa fila, y nunca negativa.
type Inventory struct {
	ID             string
	OrganizationID string
	ProductID      string
	Quantity       decimal.Decimal
	AdjustedPrice  *decimal.Decimal // nil = usar BasePrice del producto
	UpdatedAt      time.Time
}

// EffectivePrice devuelve el precio vigente: AdjustedPrice si está definido,
// si no el precio base del producto.
func (i *Inventory) EffectivePrice(basePrice decimal.Decimal) decimal.Decimal {
	if i.AdjustedPrice != nil {
		return *i.AdjustedPrice
	}
	return basePrice
}
