package auth

import (
	"context"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"
)

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
