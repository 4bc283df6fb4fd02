package account

import (
	"context"
	"encoding/json"

	"arenax-client/internal/gateway"
	"arenax-client/internal/logger"
	"arenax-client/internal/session"

	"go.uber.org/zap"
)

var profilePaths = []string{"/users/me", "/auth/me"}

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// authResponse is the login/register envelope.
type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Service drives the credential lifecycle: the session token is set on
// login or register success and cleared on logout.
type Service struct {
	api  *gateway.Client
	sess *session.Store
}

func NewService(api *gateway.Client, sess *session.Store) *Service {
	return &Service{api: api, sess: sess}
}

func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	var resp authResponse
	err := s.api.DoJSON(ctx, "/auth/login", &gateway.Options{
		Method: "POST",
		Body:   map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		logger.L().Warn("login failed", zap.String("email", email), zap.Error(err))
		return User{}, err
	}

	s.sess.Set(resp.Token)
	logger.L().Info("logged in", zap.String("email", email))
	return resp.User, nil
}

func (s *Service) Register(ctx context.Context, name, email, password string) (User, error) {
	var resp authResponse
	err := s.api.DoJSON(ctx, "/auth/register", &gateway.Options{
		Method: "POST",
		Body:   map[string]string{"name": name, "email": email, "password": password},
	}, &resp)
	if err != nil {
		logger.L().Warn("registration failed", zap.String("email", email), zap.Error(err))
		return User{}, err
	}

	s.sess.Set(resp.Token)
	logger.L().Info("registered", zap.String("email", email))
	return resp.User, nil
}

// Me fetches the current profile, tolerating route drift across backend
// versions.
func (s *Service) Me(ctx context.Context) (User, error) {
	raw, err := s.api.RequestFirstSuccessful(ctx, profilePaths, nil)
	if err != nil {
		return User{}, err
	}

	var u User
	if raw != nil {
		if err := json.Unmarshal(raw, &u); err != nil {
			return User{}, err
		}
	}
	return u, nil
}

// Logout clears the local session. The backend holds no server-side session
// to invalidate.
func (s *Service) Logout() {
	s.sess.Clear()
	logger.L().Info("logged out")
}
