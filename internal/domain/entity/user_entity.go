package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// HashedPassword holds a bcrypt hash and is empty for accounts that only
// sign in through an external provider.
type User struct {
	ID             string
	Name           string
	Email          string
	HashedPassword string
	Image          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasPassword reports whether the user has a local password set.
func (u *User) HasPassword() bool {
	return u.HashedPassword != ""
}
