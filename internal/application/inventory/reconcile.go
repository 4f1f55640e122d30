package inventory

import (
	"context"

	"time"

	"github.com/jhoicas/barstock-api/internal/application/dto"
	"github.com/jhoicas/barstock-api/internal/domain"
	"github.com/jhoicas/barstock-api/internal/domain/repository"
)

// Reconcile compara la cantidad materializada de una fila de inventario contra
// la suma de deltas de su ledger, bajo el mismo bloqueo de fila que las
// mutaciones. El ledger es la fuente de verdad: con repair=true la cantidad
// cacheada se reescribe desde la suma del ledger, sin anexar entrada alguna
// (se corrige la vista materializada, no el stock).
// Se permite sobre productos desactivados: la reconciliación es auditoría.
func (uc *StockUseCase) Reconcile(ctx context.Context, productID, organizationID string, repair bool) (*dto.ReconcileResponse, error) {
	if _, err := uc.resolveProduct(productID, organizationID); err != nil {
		return nil, err
	}

	var out *dto.ReconcileResponse
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		ledgerRepo repository.InventoryTransactionRepository,
	) error {
		inv, err := invRepo.GetForUpdate(organizationID, productID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		ledgerQty, err := ledgerRepo.SumDeltas(inv.ID)
		if err != nil {
			return err
		}
		out = &dto.ReconcileResponse{
			InventoryID:    inv.ID,
			StoredQuantity: inv.Quantity,
			LedgerQuantity: ledgerQty,
			Consistent:     inv.Quantity.Equal(ledgerQty),
		}
		if out.Consistent || !repair {
			return nil
		}
		inv.Quantity = ledgerQty
		inv.UpdatedAt = time.Now()
		if err := invRepo.Upsert(inv); err != nil {
			return err
		}
		out.Repaired = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
