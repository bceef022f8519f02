package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
	"github.com/qixeo/qixeo-web/internal/domain/repository"
)

const userColumns = `id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(hashed_password, ''), COALESCE(image, ''), created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").With("id", id).Wrap(err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("email", email).Wrap(repository.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").With("email", email).Wrap(err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY name NULLS LAST, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").With("limit", limit).With("offset", offset).Wrap(err)
	}
	return collectUsers(rows)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, oops.Code("USER_COUNT_FAILED").Wrap(err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching q literally anywhere.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// Search matches q against name and email, case-insensitively.
func (r *UserRepository) Search(ctx context.Context, q string, limit int) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE name ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\'
		ORDER BY name NULLS LAST, id
		LIMIT $2
	`, containsPattern(q), limit)
	if err != nil {
		return nil, oops.Code("USER_SEARCH_FAILED").With("q", q).Wrap(err)
	}
	return collectUsers(rows)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET hashed_password = $1, updated_at = now()
		WHERE id = $2
	`, hashedPassword, id)
	if err != nil {
		return oops.Code("USER_UPDATE_PASSWORD_FAILED").With("id", id).Wrap(err)
	}
	if res.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("id", id).Wrap(repository.ErrNotFound)
	}
	return nil
}

// Upsert inserts the user or refreshes an existing row with the same email.
func (r *UserRepository) Upsert(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, hashed_password, image)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name,
		    hashed_password = EXCLUDED.hashed_password,
		    image = EXCLUDED.image,
		    updated_at = now()
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.HashedPassword, u.Image)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return oops.Code("USER_UPSERT_FAILED").With("email", u.Email).Wrap(err)
	}
	return nil
}

// scanUser leaves pgx.ErrNoRows unwrapped for callers to classify.
func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.HashedPassword, &u.Image, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func collectUsers(rows pgx.Rows) ([]entity.User, error) {
	defer rows.Close()
	out := make([]entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, oops.Code("USER_SCAN_FAILED").Wrap(err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("USER_ITERATE_FAILED").Wrap(err)
	}
	return out, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
