package handlers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
	repo "github.com/qixeo/qixeo-web/internal/domain/repository"
	"github.com/qixeo/qixeo-web/pkg/mailer"
)

type memUsers struct {
	mu    sync.Mutex
	users []entity.User
}

func (m *memUsers) find(match func(entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if match(m.users[i]) {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return m.find(func(u entity.User) bool { return u.ID == id })
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return m.find(func(u entity.User) bool { return email != "" && u.Email == email })
}

func (m *memUsers) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if offset >= len(m.users) {
		return []entity.User{}, nil
	}
	end := offset + limit
	if end > len(m.users) {
		end = len(m.users)
	}
	return append([]entity.User(nil), m.users[offset:end]...), nil
}

func (m *memUsers) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *memUsers) Search(ctx context.Context, q string, limit int) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.User{}
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(q)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].HashedPassword = hashedPassword
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memUsers) Upsert(ctx context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, *u)
	return nil
}

type memTokens struct {
	mu        sync.Mutex
	rows      []entity.VerificationToken
	createErr error
}

func (m *memTokens) Create(ctx context.Context, t *entity.VerificationToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.rows = append(m.rows, *t)
	return nil
}

func (m *memTokens) GetByToken(ctx context.Context, token string) (*entity.VerificationToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Token == token {
			cp := r
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memTokens) DeleteByToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.Token != token {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *memTokens) DeleteByIdentifier(ctx context.Context, identifier string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.Identifier != identifier {
			kept = append(kept, r)
		}
	}
	n := int64(len(m.rows) - len(kept))
	m.rows = kept
	return n, nil
}

func (m *memTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type recordingSender struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (s *recordingSender) Deliver(ctx context.Context, job mailer.EmailJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	return s.err
}
