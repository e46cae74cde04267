package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is the transient proof of a successful authentication. It is never
// persisted; the auth service owns it from login to logout or expiry.
type Session struct {
	Token   uuid.UUID `json:"token"`
	Account Account   `json:"account"`
	LoginAt time.Time `json:"login_at"`
}

func (s *Session) Role() Role {
	return s.Account.Role
}
