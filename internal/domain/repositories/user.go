package repositories

import (
	"context"

	"tailor/internal/domain/models"
)

// UserRepository reads the user directory. Accounts are provisioned by the
// identity provider; this core only looks them up (sharing resolves the
// target user by email) and seeds them in dev tooling.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
