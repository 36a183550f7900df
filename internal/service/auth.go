package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"distance-tracker/internal/config"
	"distance-tracker/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// No real email is collected: usernames map to a synthetic address for the
// identity layer only.
const syntheticEmailDomain = "fake.mail"

type AuthService struct {
	people    PersonStore
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(people PersonStore, cfg *config.Config, logger zerolog.Logger) *AuthService {
	return &AuthService{
		people:    people,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
		logger:    logger,
	}
}

func syntheticEmail(username string) string {
	return strings.ToLower(strings.TrimSpace(username)) + "@" + syntheticEmailDomain
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.Person, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	person := &domain.Person{
		ID:    uuid.New().String(),
		Name:  username,
		Email: syntheticEmail(username),
	}

	if err := s.people.Create(ctx, person, string(hash)); err != nil {
		s.logger.Error().Err(err).Str("email", person.Email).Msg("failed to create person")
		return nil, fmt.Errorf("%w: username already taken or store rejected it", domain.ErrInvalidInput)
	}

	s.logger.Info().Str("person", person.ID).Msg("person registered")
	return person, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Person, string, error) {
	person, hash, err := s.people.GetByEmail(ctx, syntheticEmail(username))
	if err != nil {
		return nil, "", fmt.Errorf("%w: unknown username", domain.ErrNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: wrong password", domain.ErrInvalidInput)
	}

	token, err := s.issueToken(person.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("person", person.ID).Msg("person logged in")
	return person, token, nil
}

func (s *AuthService) issueToken(personID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   personID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// VerifyToken resolves a bearer token to the person it was issued for.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*domain.Person, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrNotFound)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, fmt.Errorf("%w: malformed claims", domain.ErrNotFound)
	}

	person, err := s.people.Get(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to load session person: %w", err)
	}
	return person, nil
}
