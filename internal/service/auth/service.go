package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/agendafacil/booking-api/internal/config"
	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates admin users and issues HS256 access tokens.
type Service struct {
	users  repository.UserRepository
	cfg    config.JWTConfig
	logger zerolog.Logger
}

func NewService(users repository.UserRepository, cfg config.JWTConfig, logger zerolog.Logger) *Service {
	return &Service{users: users, cfg: cfg, logger: logger}
}

func (s *Service) Login(ctx context.Context, in *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Same answer as a bad password, so the endpoint does not
			// reveal which admin accounts exist.
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		s.logger.Warn().Str("email", in.Email).Msg("failed login attempt")
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.cfg.Expiry)
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info().Str("email", user.Email).Msg("admin logged in")
	return &model.TokenResponse{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses a bearer token and returns its claims. Only HMAC
// signatures are accepted.
func (s *Service) ValidateToken(tokenString string) (*model.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("invalid subject in token")
	}

	return &model.TokenClaims{UserID: userID, Email: email}, nil
}

// HashPassword is used by seeding tooling to create admin accounts.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
