package repository

import "github.com/jhoicas/barstock-api/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	ListByOrganization(organizationID string) ([]*entity.Category, error)
}
