package inventory

import (
	"context"

	"github.com/jhoicas/barstock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que actualizar la fila de inventario y anexar la
// transacción al ledger sea una unidad atómica: o se confirman ambas o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		ledgerRepo repository.InventoryTransactionRepository,
	) error) error
}
