package repository

import "github.com/jhoicas/barstock-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User.
// El email es único globalmente (el login no conoce el tenant).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
