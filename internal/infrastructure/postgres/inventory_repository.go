package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/barstock-api/internal/domain/entity"
	"github.com/jhoicas/barstock-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = "id, organization_id, product_id, quantity, adjusted_price, updated_at"

// Get obtiene la fila de inventario de un producto, o nil si no existe.
func (r *InventoryRepo) Get(organizationID, productID string) (*entity.Inventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventories WHERE organization_id = $1 AND product_id = $2`
	return r.scanOne(query, organizationID, productID)
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE); nil si no existe.
// El bloqueo serializa las mutaciones concurrentes sobre la misma clave.
func (r *InventoryRepo) GetForUpdate(organizationID, productID string) (*entity.Inventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventories WHERE organization_id = $1 AND product_id = $2
		FOR UPDATE`
	return r.scanOne(query, organizationID, productID)
}

func (r *InventoryRepo) scanOne(query string, args ...any) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&inv.ID, &inv.OrganizationID, &inv.ProductID, &inv.Quantity, &inv.AdjustedPrice, &inv.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &inv, nil
}

// ListByOrganization devuelve todas las filas de inventario de una organización.
func (r *InventoryRepo) ListByOrganization(organizationID string) ([]*entity.Inventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventories WHERE organization_id = $1
		ORDER BY updated_at DESC`
	rows, err := r.q.Query(context.Background(), query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		var inv entity.Inventory
		if err := rows.Scan(&inv.ID, &inv.OrganizationID, &inv.ProductID, &inv.Quantity, &inv.AdjustedPrice, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// CreateIfAbsent inserta la fila de inventario solo si no existe todavía.
// Con ON CONFLICT DO NOTHING el insert perdedor de una carrera no pisa la fila
// del ganador; el caller debe rebloquearla con GetForUpdate.
func (r *InventoryRepo) CreateIfAbsent(inv *entity.Inventory) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventories (id, organization_id, product_id, quantity, adjusted_price, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (organization_id, product_id) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.OrganizationID, inv.ProductID, inv.Quantity, inv.AdjustedPrice,
	)
	if err != nil {
		return fmt.Errorf("create inventory if absent: %w", err)
	}
	return nil
}

// Upsert inserta o actualiza la fila de inventario (única por organización+producto).
// Asigna ID en el primer insert y refresca UpdatedAt en el entity recibido.
func (r *InventoryRepo) Upsert(inv *entity.Inventory) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventories (id, organization_id, product_id, quantity, adjusted_price, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (organization_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, adjusted_price = EXCLUDED.adjusted_price, updated_at = now()
		RETURNING id, updated_at`
	err := r.q.QueryRow(context.Background(), query,
		inv.ID, inv.OrganizationID, inv.ProductID, inv.Quantity, inv.AdjustedPrice,
	).Scan(&inv.ID, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}
	return nil
}
