package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto vendible de una organización.
// El stock no vive aquí: se materializa en Inventory y se audita en
// InventoryTransaction. Un producto nunca se borra físicamente; se
// desactiva (Active=false) y su historial de stock se conserva.
type Product struct {
	ID             string
	OrganizationID string
	CategoryID     *string // nil = sin categoría
	Name           string
	Description    string
	BasePrice      decimal.Decimal // precio base; puede sobreescribirse por inventario (AdjustedPrice)
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
