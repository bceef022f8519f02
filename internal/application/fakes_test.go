package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
	repo "github.com/qixeo/qixeo-web/internal/domain/repository"
	"github.com/qixeo/qixeo-web/pkg/mailer"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
	err   error
}

func newMemUsers(users ...entity.User) *memUsers {
	m := &memUsers{users: map[string]*entity.User{}}
	for i := range users {
		u := users[i]
		m.users[u.ID] = &u
	}
	return m
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email && email != "" {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) sorted() []entity.User {
	out := make([]entity.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memUsers) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted()
	if offset >= len(all) {
		return []entity.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memUsers) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *memUsers) Search(ctx context.Context, q string, limit int) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q = strings.ToLower(q)
	out := []entity.User{}
	for _, u := range m.sorted() {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memUsers) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.HashedPassword = hashedPassword
	return nil
}

func (m *memUsers) Upsert(ctx context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = "id-" + u.Email
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

type memTokens struct {
	mu        sync.Mutex
	rows      []entity.VerificationToken
	createErr error
	deleteErr error
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
	m.rows = filterTokens(m.rows, func(r entity.VerificationToken) bool { return r.Token != token })
	return nil
}

func (m *memTokens) DeleteByIdentifier(ctx context.Context, identifier string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	before := len(m.rows)
	m.rows = filterTokens(m.rows, func(r entity.VerificationToken) bool { return r.Identifier != identifier })
	return int64(before - len(m.rows)), nil
}

func (m *memTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.rows)
	m.rows = filterTokens(m.rows, func(r entity.VerificationToken) bool { return !r.IsExpired(now) })
	return int64(before - len(m.rows)), nil
}

func filterTokens(rows []entity.VerificationToken, keep func(entity.VerificationToken) bool) []entity.VerificationToken {
	out := rows[:0]
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
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
