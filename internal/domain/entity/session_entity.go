package entity

// SessionStatus mirrors what the page layer can know about the requester.
type SessionStatus string

const (
	// SessionLoading means the session store could not be consulted.
	SessionLoading         SessionStatus = "loading"
	SessionUnauthenticated SessionStatus = "unauthenticated"
	SessionAuthenticated   SessionStatus = "authenticated"
)

// Session is the read-only view of the current requester.
type Session struct {
	Status    SessionStatus
	SessionID string
	UserID    string
	Name      string
	Email     string
	Image     string
}

func (s Session) IsAuthenticated() bool {
	return s.Status == SessionAuthenticated
}
