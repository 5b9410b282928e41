package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hbnb-clone/hbnb-api/internal/pkg/metrics"
	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
)

// AuthService exchanges user credentials for a signed token.
type AuthService struct {
	store     ports.Storage
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(store ports.Storage, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{store: store, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !user.CheckPassword(password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*domain.User, error) {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	users, err := sess.All(ctx, domain.KindUser)
	if err != nil {
		return nil, err
	}
	for _, m := range users {
		if u := m.(*domain.User); u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
