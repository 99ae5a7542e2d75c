package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/eventhub/internal/server"
)

// AuthService configures the Clerk SDK used by the auth middleware.
type AuthService struct {
	server *server.Server
}

// NewAuthService registers the Clerk secret key. With no key configured
// the SDK stays unset and the write routes are public.
func NewAuthService(s *server.Server) *AuthService {
	if s.Config.AuthEnabled() {
		clerk.SetKey(s.Config.Auth.SecretKey)
	}

	return &AuthService{
		server: s,
	}
}

// Enabled reports whether write routes require a Clerk session.
func (a *AuthService) Enabled() bool {
	return a.server.Config.AuthEnabled()
}
