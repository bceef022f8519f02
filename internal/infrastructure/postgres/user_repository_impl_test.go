package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
	"github.com/qixeo/qixeo-web/internal/domain/repository"
)

var userCols = []string{"id", "name", "email", "hashed_password", "image", "created_at", "updated_at"}

func TestUserRepository_GetByID(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      *entity.User
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
					WithArgs("u-1").
					WillReturnRows(pgxmock.NewRows(userCols).
						AddRow("u-1", "Ada Lovelace", "ada@example.com", "$2a$hash", "", now, now))
			},
			want: &entity.User{ID: "u-1", Name: "Ada Lovelace", Email: "ada@example.com", HashedPassword: "$2a$hash", CreatedAt: now, UpdatedAt: now},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
					WithArgs("u-1").
					WillReturnRows(pgxmock.NewRows(userCols))
			},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setupMock(mock)

			got, err := NewUserRepository(mock).GetByID(context.Background(), "u-1")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("ada@example.com").
		WillReturnError(errors.New("connection refused"))

	_, err = NewUserRepository(mock).GetByEmail(context.Background(), "ada@example.com")
	require.Error(t, err)
	assert.False(t, errors.Is(err, repository.ErrNotFound))
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListAndSearch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)SELECT .+FROM users\s+ORDER BY name NULLS LAST, id\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(20, 40).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u-1", "Ada", "ada@example.com", "", "", now, now).
			AddRow("u-2", "Grace", "grace@example.com", "", "", now, now))
	mock.ExpectQuery(`WHERE name ILIKE \$1 ESCAPE '\\' OR email ILIKE \$1 ESCAPE '\\'`).
		WithArgs("%gra%", 10).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u-2", "Grace", "grace@example.com", "", "", now, now))

	repo := NewUserRepository(mock)

	list, err := repo.List(context.Background(), 20, 40)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Grace", list[1].Name)

	found, err := repo.Search(context.Background(), "gra", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "u-2", found[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "gra", want: "%gra%"},
		{in: "100%", want: `%100\%%`},
		{in: "a_b", want: `%a\_b%`},
		{in: `c:\tmp`, want: `%c:\\tmp%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, containsPattern(tt.in), tt.in)
	}
}

func TestUserRepository_SearchEscapesWildcards(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`ILIKE \$1 ESCAPE`).
		WithArgs(`%\_%`, 5).
		WillReturnRows(pgxmock.NewRows(userCols))

	found, err := NewUserRepository(mock).Search(context.Background(), "_", 5)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Count(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	n, err := NewUserRepository(mock).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	tests := []struct {
		name    string
		result  pgconn.CommandTag
		wantErr error
	}{
		{name: "updated", result: pgxmock.NewResult("UPDATE", 1)},
		{name: "missing user", result: pgxmock.NewResult("UPDATE", 0), wantErr: repository.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectExec(`UPDATE users`).
				WithArgs("newhash", "u-1").
				WillReturnResult(tt.result)

			err = NewUserRepository(mock).UpdatePassword(context.Background(), "u-1", "newhash")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Demo", "demo@example.com", "hash", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-9", now, now))

	u := &entity.User{Name: "Demo", Email: "demo@example.com", HashedPassword: "hash"}
	require.NoError(t, NewUserRepository(mock).Upsert(context.Background(), u))
	assert.Equal(t, "u-9", u.ID)
	assert.Equal(t, now, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
