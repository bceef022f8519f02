package repository

import (
	"context"
	"errors"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
	Count(ctx context.Context) (int, error)
	Search(ctx context.Context, q string, limit int) ([]entity.User, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
	Upsert(ctx context.Context, u *entity.User) error
}
