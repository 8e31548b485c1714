package repository

import "github.com/healthstack/lmis-facility-api/internal/domain/entity"

// UserRepository define el puerto de persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	// FindByUsername devuelve (nil, nil) si el usuario no existe.
	FindByUsername(username string) (*entity.User, error)
}
