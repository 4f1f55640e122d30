package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/barstock-api/internal/domain/entity"
	"github.com/jhoicas/barstock-api/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: este adaptador no expone UPDATE ni DELETE.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

// Create anexa una transacción al ledger.
func (r *InventoryTransactionRepo) Create(t *entity.InventoryTransaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_transactions (id, inventory_id, type, quantity_delta, resulting_quantity, unit_price, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	notes := (*string)(nil)
	if t.Notes != "" {
		notes = &t.Notes
	}
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.InventoryID, t.Type, t.QuantityDelta, t.ResultingQuantity,
		t.UnitPrice, t.UserID, notes, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory transaction: %w", err)
	}
	return nil
}

// ListByInventory lista las transacciones de una fila de inventario, más recientes primero.
func (r *InventoryTransactionRepo) ListByInventory(inventoryID string, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT id, inventory_id, type, quantity_delta, resulting_quantity, unit_price, user_id, notes, created_at
		FROM inventory_transactions WHERE inventory_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, inventoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		var t entity.InventoryTransaction
		var notes *string
		if err := rows.Scan(&t.ID, &t.InventoryID, &t.Type, &t.QuantityDelta, &t.ResultingQuantity,
			&t.UnitPrice, &t.UserID, &notes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if notes != nil {
			t.Notes = *notes
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// SumDeltas devuelve la suma de los deltas del ledger para una fila de inventario.
func (r *InventoryTransactionRepo) SumDeltas(inventoryID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity_delta), 0)
		FROM inventory_transactions WHERE inventory_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, inventoryID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum deltas: %w", err)
	}
	return sum, nil
}
