package repository

import "github.com/jhoicas/barstock-api/internal/domain/entity"

// InventoryRepository define el puerto para la fila de stock por (organización, producto).
// Usado dentro de transacciones para garantizar consistencia.
type InventoryRepository interface {
	// Get devuelve la fila o nil si no existe (el core decide si crearla o fallar).
	Get(organizationID, productID string) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE); nil si no existe.
	// Serializa las mutaciones concurrentes sobre la misma clave.
	GetForUpdate(organizationID, productID string) (*entity.Inventory, error)
	// CreateIfAbsent inserta la fila si no existe (ON CONFLICT DO NOTHING) sin
	// tocar una existente. Dos primeras entradas concurrentes convergen así en
	// una única fila, que GetForUpdate puede bloquear después.
	CreateIfAbsent(inv *entity.Inventory) error
	ListByOrganization(organizationID string) ([]*entity.Inventory, error)
	// Upsert inserta o actualiza la fila; asigna ID en el primer insert y
	// refresca UpdatedAt en el entity recibido.
	Upsert(inv *entity.Inventory) error
}
