package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/barstock-api/internal/application/dto"
	"github.com/jhoicas/barstock-api/internal/domain"
	"github.com/jhoicas/barstock-api/internal/domain/entity"
	"github.com/jhoicas/barstock-api/internal/domain/repository"
)

// StockUseCase es el motor del ledger de inventario: muta el stock de un producto
// (Add / Remove / Adjust) de forma transaccional con bloqueo de fila
// (SELECT FOR UPDATE) y anexa exactamente una entrada al ledger por mutación.
// Las lecturas proyectan Inventory + Product y ocultan productos desactivados.
type StockUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	invRepo     repository.InventoryRepository
	ledgerRepo  repository.InventoryTransactionRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	invRepo repository.InventoryRepository,
	ledgerRepo repository.InventoryTransactionRepository,
) *StockUseCase {
	return &StockUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		invRepo:     invRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// resolveProduct obtiene el producto y verifica que pertenezca a la organización.
// Un producto de otra organización se reporta como ErrNotFound, no como
// ErrForbidden: la ausencia no filtra existencia entre tenants.
func (uc *StockUseCase) resolveProduct(productID, organizationID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// resolveActiveProduct como resolveProduct pero rechaza productos desactivados:
// el stock de un producto retirado no se mueve ni se consulta individualmente.
func (uc *StockUseCase) resolveActiveProduct(productID, organizationID string) (*entity.Product, error) {
	product, err := uc.resolveProduct(productID, organizationID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, domain.ErrProductGone
	}
	return product, nil
}

// AddStock suma stock a un producto. Crea la fila de inventario en cero si no
// existe todavía. Amount debe ser > 0.
func (uc *StockUseCase) AddStock(ctx context.Context, in dto.AddStockRequest, userID, organizationID string) (*dto.InventoryResponse, error) {
	if in.ProductID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.resolveActiveProduct(in.ProductID, organizationID)
	if err != nil {
		return nil, err
	}

	var result *entity.Inventory
	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		ledgerRepo repository.InventoryTransactionRepository,
	) error {
		inv, err := invRepo.GetForUpdate(organizationID, in.ProductID)
		if err != nil {
			return err
		}
		if inv == nil {
			// Creación perezosa: insertar la fila en cero y volver a
			// bloquearla. Sin el rebloqueo, dos primeras entradas
			// concurrentes aplicarían ambas su delta sobre cero y el
			// commit perdedor pisaría al ganador.
			if err := invRepo.CreateIfAbsent(&entity.Inventory{
				OrganizationID: organizationID,
				ProductID:      in.ProductID,
				Quantity:       decimal.Zero,
			}); err != nil {
				return err
			}
			inv, err = invRepo.GetForUpdate(organizationID, in.ProductID)
			if err != nil {
				return err
			}
			if inv == nil {
				// Las filas de inventario nunca se borran.
				return fmt.Errorf("inventario ausente tras insertarlo")
			}
		}
		now := time.Now()
		inv.Quantity = inv.Quantity.Add(in.Amount)
		inv.UpdatedAt = now
		if err := invRepo.Upsert(inv); err != nil {
			return err
		}
		entry := &entity.InventoryTransaction{
			InventoryID:       inv.ID,
			Type:              entity.TransactionTypeADD,
			QuantityDelta:     in.Amount,
			ResultingQuantity: inv.Quantity,
			UnitPrice:         inv.EffectivePrice(product.BasePrice),
			UserID:            userID,
			Notes:             in.Notes,
			CreatedAt:         now,
		}
		if err := ledgerRepo.Create(entry); err != nil {
			return err
		}
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInventoryResponse(result, product), nil
}

// RemoveStock resta stock de un producto. La fila debe existir (no se puede
// sacar stock que nunca entró) y la cantidad nunca queda negativa.
func (uc *StockUseCase) RemoveStock(ctx context.Context, in dto.RemoveStockRequest, userID, organizationID string) (*dto.InventoryResponse, error) {
	if in.ProductID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.resolveActiveProduct(in.ProductID, organizationID)
	if err != nil {
		return nil, err
	}

	notes := in.Notes
	if in.ReasonCode != "" {
		notes = "[" + in.ReasonCode + "] " + notes
	}

	var result *entity.Inventory
	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		ledgerRepo repository.InventoryTransactionRepository,
	) error {
		inv, err := invRepo.GetForUpdate(organizationID, in.ProductID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Quantity.LessThan(in.Amount) {
			return domain.ErrInsufficientStock
		}
		now := time.Now()
		inv.Quantity = inv.Quantity.Sub(in.Amount)
		inv.UpdatedAt = now
		if err := invRepo.Upsert(inv); err != nil {
			return err
		}
		entry := &entity.InventoryTransaction{
			InventoryID:       inv.ID,
			Type:              entity.TransactionTypeREMOVE,
			QuantityDelta:     in.Amount.Neg(),
			ResultingQuantity: inv.Quantity,
			UnitPrice:         inv.EffectivePrice(product.BasePrice),
			UserID:            userID,
			Notes:             notes,
			CreatedAt:         now,
		}
		if err := ledgerRepo.Create(entry); err != nil {
			return err
		}
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInventoryResponse(result, product), nil
}

// AdjustStock fija el stock en un valor absoluto (TargetQuantity >= 0) y registra
// el delta con signo en el ledger. Un PriceOverride presente actualiza el precio
// ajustado solo hacia adelante: los snapshots pasados del ledger son inmutables.
// Un ajuste al mismo valor (delta 0) igual deja constancia en el ledger.
func (uc *StockUseCase) AdjustStock(ctx context.Context, in dto.AdjustStockRequest, userID, organizationID string) (*dto.InventoryResponse, error) {
	if in.ProductID == "" || in.TargetQuantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.PriceOverride != nil && in.PriceOverride.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.resolveActiveProduct(in.ProductID, organizationID)
	if err != nil {
		return nil, err
	}

	var result *entity.Inventory
	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		ledgerRepo repository.InventoryTransactionRepository,
	) error {
		inv, err := invRepo.GetForUpdate(organizationID, in.ProductID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		delta := in.TargetQuantity.Sub(inv.Quantity)
		inv.Quantity = in.TargetQuantity
		if in.PriceOverride != nil {
			price := *in.PriceOverride
			inv.AdjustedPrice = &price
		}
		inv.UpdatedAt = now
		if err := invRepo.Upsert(inv); err != nil {
			return err
		}
		entry := &entity.InventoryTransaction{
			InventoryID:       inv.ID,
			Type:              entity.TransactionTypeADJUST,
			QuantityDelta:     delta,
			ResultingQuantity: inv.Quantity,
			UnitPrice:         inv.EffectivePrice(product.BasePrice),
			UserID:            userID,
			Notes:             in.Notes,
			CreatedAt:         now,
		}
		if err := ledgerRepo.Create(entry); err != nil {
			return err
		}
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInventoryResponse(result, product), nil
}

// GetByOrganization devuelve todas las filas de inventario de una organización
// con su producto. Las filas de productos desactivados se conservan para
// auditoría pero se excluyen del listado.
func (uc *StockUseCase) GetByOrganization(ctx context.Context, organizationID string) ([]*dto.InventoryResponse, error) {
	rows, err := uc.invRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InventoryResponse, 0, len(rows))
	for _, inv := range rows {
		product, err := uc.productRepo.GetByID(inv.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.OrganizationID != organizationID || !product.Active {
			continue
		}
		out = append(out, toInventoryResponse(inv, product))
	}
	return out, nil
}

// GetByProductAndOrganization devuelve la proyección de un producto.
// ErrProductGone si el producto está desactivado; ErrNotFound si aún no
// existe fila de inventario para él.
func (uc *StockUseCase) GetByProductAndOrganization(ctx context.Context, productID, organizationID string) (*dto.InventoryResponse, error) {
	product, err := uc.resolveActiveProduct(productID, organizationID)
	if err != nil {
		return nil, err
	}
	inv, err := uc.invRepo.Get(organizationID, productID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInventoryResponse(inv, product), nil
}

// ListTransactions devuelve el ledger de un producto, más recientes primero.
// Se permite sobre productos desactivados: el historial existe para auditoría.
func (uc *StockUseCase) ListTransactions(ctx context.Context, productID, organizationID string, limit, offset int) ([]*dto.TransactionResponse, error) {
	if _, err := uc.resolveProduct(productID, organizationID); err != nil {
		return nil, err
	}
	inv, err := uc.invRepo.Get(organizationID, productID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	entries, err := uc.ledgerRepo.ListByInventory(inv.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TransactionResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, &dto.TransactionResponse{
			ID:                e.ID,
			InventoryID:       e.InventoryID,
			Type:              e.Type,
			QuantityDelta:     e.QuantityDelta,
			ResultingQuantity: e.ResultingQuantity,
			UnitPrice:         e.UnitPrice,
			UserID:            e.UserID,
			Notes:             e.Notes,
			CreatedAt:         e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func toInventoryResponse(inv *entity.Inventory, product *entity.Product) *dto.InventoryResponse {
	return &dto.InventoryResponse{
		ID:             inv.ID,
		OrganizationID: inv.OrganizationID,
		ProductID:      inv.ProductID,
		ProductName:    product.Name,
		Quantity:       inv.Quantity,
		EffectivePrice: inv.EffectivePrice(product.BasePrice),
		CategoryID:     product.CategoryID,
		LastUpdated:    inv.UpdatedAt.Format(time.RFC3339),
	}
}
