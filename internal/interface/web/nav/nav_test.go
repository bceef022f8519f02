package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
)

func hrefs(ls []Link) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Href)
	}
	return out
}

func TestLinksByStatus(t *testing.T) {
	tests := []struct {
		status entity.SessionStatus
		want   []string
	}{
		{status: entity.SessionUnauthenticated, want: []string{"/contact"}},
		{status: entity.SessionLoading, want: []string{"/", "/users", "/contact"}},
		{status: entity.SessionAuthenticated, want: []string{"/", "/users", "/contact"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, hrefs(Links(tt.status)))
		})
	}
}

func TestItemsActive(t *testing.T) {
	items := Items(entity.SessionAuthenticated, "/users")

	active := []string{}
	for _, it := range items {
		if it.Active {
			active = append(active, it.Href)
		}
	}
	assert.Equal(t, []string{"/users"}, active)

	for _, it := range Items(entity.SessionAuthenticated, "/users/u1") {
		assert.False(t, it.Active, it.Href)
	}
}

func TestDisclosure(t *testing.T) {
	names := []string{}
	for _, p := range Disclosure() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Analytics", "Engagement", "Security", "Integrations", "Automations", "Watch demo", "Contact sales"}, names)
	assert.Len(t, Products(), 5)
	assert.Len(t, CallsToAction(), 2)
}

func TestNewShell(t *testing.T) {
	t.Run("loading", func(t *testing.T) {
		s := NewShell(entity.Session{Status: entity.SessionLoading}, "/")
		assert.True(t, s.Loading)
		assert.False(t, s.Anonymous)
		assert.False(t, s.SignedIn)
		assert.Len(t, s.Items, 3)
	})

	t.Run("anonymous on signin", func(t *testing.T) {
		s := NewShell(entity.Session{Status: entity.SessionUnauthenticated}, "/signin")
		assert.True(t, s.Anonymous)
		assert.True(t, s.LogInActive)
		assert.False(t, s.HideSignUp)
	})

	t.Run("anonymous on register", func(t *testing.T) {
		s := NewShell(entity.Session{Status: entity.SessionUnauthenticated}, "/register")
		assert.False(t, s.LogInActive)
		assert.True(t, s.HideSignUp)
	})

	t.Run("authenticated", func(t *testing.T) {
		s := NewShell(entity.Session{Status: entity.SessionAuthenticated, UserID: "u1", Name: "Ada"}, "/")
		assert.True(t, s.SignedIn)
		assert.Equal(t, "Ada", s.AccountName)
		assert.Equal(t, "/users/u1", s.AccountHref)
		assert.Equal(t, "/api/auth/signout", s.SignOutHref)
		assert.Equal(t, "⌘ ⌫", s.ShortcutHint)
		assert.False(t, s.MobileOpen)
	})

	t.Run("authenticated without name", func(t *testing.T) {
		s := NewShell(entity.Session{Status: entity.SessionAuthenticated, UserID: "u1", Email: "ada@example.com"}, "/")
		assert.Equal(t, "ada@example.com", s.AccountName)
	})
}
