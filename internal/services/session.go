package services

import (
	"context"
	"fmt"
	"time"

	"name-swiper/internal/config"
	"name-swiper/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const jwtExpDays = 365

// SessionService handles identity selection. There is no account system:
// the caller picks one of the two configured identities and receives a
// long-lived token carrying it, mirroring the original's localStorage-backed
// user selection.
type SessionService struct {
	profiles  ProfileStore
	users     config.UsersConfig
	jwtSecret string
}

// NewSessionService creates a new session service
func NewSessionService(profiles ProfileStore, users config.UsersConfig, jwtSecret string) *SessionService {
	return &SessionService{profiles: profiles, users: users, jwtSecret: jwtSecret}
}

// Users returns the configured identity pair.
func (s *SessionService) Users() config.UsersConfig {
	return s.users
}

// Select validates the chosen identity, seeds its profile row on first
// selection, and returns a signed token.
func (s *SessionService) Select(ctx context.Context, user string) (string, error) {
	if !s.users.Known(user) {
		return "", fmt.Errorf("%w: %s", ErrUnknownUser, user)
	}

	profile := &models.Profile{
		DisplayName: user,
		Votes:       map[string]models.Vote{},
		CreatedAt:   time.Now(),
	}
	if err := s.profiles.CreateIfAbsent(ctx, profile); err != nil {
		return "", fmt.Errorf("failed to seed profile: %w", err)
	}

	return s.generateJWT(user)
}

func (s *SessionService) generateJWT(user string) (string, error) {
	claims := jwt.MapClaims{
		"user": user,
		"exp":  time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a token and returns the identity it carries.
func (s *SessionService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	user, ok := claims["user"].(string)
	if !ok || !s.users.Known(user) {
		return "", fmt.Errorf("user not found in token")
	}
	return user, nil
}
