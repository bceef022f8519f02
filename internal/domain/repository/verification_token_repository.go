package repository

import (
	"context"
	"time"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
)

// VerificationTokenRepository persists password recovery tokens.
type VerificationTokenRepository interface {
	Create(ctx context.Context, t *entity.VerificationToken) error
	// GetByToken looks a token up by its digest.
	GetByToken(ctx context.Context, token string) (*entity.VerificationToken, error)
	DeleteByToken(ctx context.Context, token string) error
	// DeleteByIdentifier removes every token issued for an email.
	DeleteByIdentifier(ctx context.Context, identifier string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
