package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
	"github.com/qixeo/qixeo-web/internal/domain/repository"
)

type VerificationTokenRepository struct {
	db DBTX
}

func NewVerificationTokenRepository(db DBTX) *VerificationTokenRepository {
	return &VerificationTokenRepository{db: db}
}

func (r *VerificationTokenRepository) Create(ctx context.Context, t *entity.VerificationToken) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO verification_tokens (identifier, token, expires)
		VALUES ($1, $2, $3)
	`, t.Identifier, t.Token, t.Expires)
	if err != nil {
		return oops.Code("TOKEN_CREATE_FAILED").
			With("operation", "insert verification_token").
			With("identifier", t.Identifier).
			Wrap(err)
	}
	return nil
}

func (r *VerificationTokenRepository) GetByToken(ctx context.Context, token string) (*entity.VerificationToken, error) {
	t := &entity.VerificationToken{}
	err := r.db.QueryRow(ctx, `
		SELECT identifier, token, expires
		FROM verification_tokens
		WHERE token = $1
	`, token).Scan(&t.Identifier, &t.Token, &t.Expires)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TOKEN_NOT_FOUND").Wrap(repository.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TOKEN_GET_FAILED").Wrap(err)
	}
	return t, nil
}

func (r *VerificationTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM verification_tokens WHERE token = $1`, token)
	if err != nil {
		return oops.Code("TOKEN_DELETE_FAILED").Wrap(err)
	}
	return nil
}

func (r *VerificationTokenRepository) DeleteByIdentifier(ctx context.Context, identifier string) (int64, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM verification_tokens WHERE identifier = $1`, identifier)
	if err != nil {
		return 0, oops.Code("TOKEN_DELETE_BY_IDENTIFIER_FAILED").
			With("identifier", identifier).
			Wrap(err)
	}
	return res.RowsAffected(), nil
}

func (r *VerificationTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM verification_tokens WHERE expires <= $1`, now)
	if err != nil {
		return 0, oops.Code("TOKEN_DELETE_EXPIRED_FAILED").Wrap(err)
	}
	return res.RowsAffected(), nil
}

var _ repository.VerificationTokenRepository = (*VerificationTokenRepository)(nil)
