package user

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, login, passwordHash string, role Role) (int, error)
	FindByLogin(ctx context.Context, login string) (User, error)
	GetRole(ctx context.Context, userID int) (Role, error)
}
