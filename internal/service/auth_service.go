package service

import (
	"context"

	"edutech_backend/internal/config"
	"edutech_backend/internal/model"
	"edutech_backend/internal/util"
)

// AuthService handles the profile session. "Login" is profile creation:
// there is no password and no credential check, only a token that names
// the active profile to the presentation layer.
type AuthService struct {
	users *UserService
	rt    *config.Runtime
}

func NewAuthService(users *UserService, rt *config.Runtime) *AuthService {
	return &AuthService{users: users, rt: rt}
}

// Login creates the profile and issues a session token. An existing
// profile is returned as-is; a saved profile short-circuits the login form.
func (s *AuthService) Login(ctx context.Context, name, email string, level model.ExperienceLevel) (string, *model.User, bool, error) {
	user, created, err := s.users.CreateProfile(ctx, name, email, level)
	if err != nil {
		return "", nil, false, err
	}

	jwtCfg := s.rt.Load().JWT
	token, err := util.GenerateJWT(user, jwtCfg.Secret, jwtCfg.ExpireTime)
	if err != nil {
		return "", nil, false, err
	}
	return token, user, created, nil
}

// Logout destroys the profile record entirely: cleared, not archived.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.users.Logout(ctx)
}
