package repository

import "github.com/jhoicas/barstock-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// El core de inventario solo lee (GetByID); el CRUD lo usa el caso de uso de catálogo.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByOrganizationAndName(organizationID, name string) (*entity.Product, error)
	Update(product *entity.Product) error
	// SetActive activa/desactiva el producto (borrado lógico). El inventario
	// y el ledger de un producto desactivado se conservan para auditoría.
	SetActive(id string, active bool) error
	ListByOrganization(organizationID string, limit, offset int) ([]*entity.Product, error)
}
