package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
)

// AuthService implements registration, sign-in, sign-out and the auth-state
// subscription.
type AuthService struct {
	repo      ports.IdentityRepository
	revoker   ports.TokenRevoker
	bus       ports.EventBus
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	repo ports.IdentityRepository,
	revoker ports.TokenRevoker,
	bus ports.EventBus,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		revoker:   revoker,
		bus:       bus,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Identity{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			logStoreError(s.log, "identity", "create", err)
		}
		return nil, err
	}
	return created, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			logStoreError(s.log, "identity", "find", err)
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(identity)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("uid", identity.UID).Msg("signed in")
	s.publish(domain.EventSignedIn, identity.UID)
	return token, identity, nil
}

// Logout revokes the session until its token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims ports.Claims) error {
	if claims.SessionID == "" {
		return domain.ErrUnauthenticated
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl > 0 && s.revoker != nil {
		if err := s.revoker.Revoke(ctx, claims.SessionID, ttl); err != nil {
			s.log.Error().Err(err).Str("uid", claims.UID).Msg("revoke session failed")
			return fmt.Errorf("sign out: %w: %w", domain.ErrWrite, err)
		}
	}

	s.log.Info().Str("uid", claims.UID).Msg("signed out")
	s.publish(domain.EventSignedOut, claims.UID)
	return nil
}

// Authenticate verifies a token signature, expiry and revocation state.
func (s *AuthService) Authenticate(ctx context.Context, token string) (ports.Claims, error) {
	mc := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, mc, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return ports.Claims{}, domain.ErrUnauthenticated
	}

	claims := ports.Claims{}
	claims.UID, _ = mc["uid"].(string)
	claims.Email, _ = mc["email"].(string)
	claims.SessionID, _ = mc["sid"].(string)
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if claims.UID == "" || claims.SessionID == "" {
		return ports.Claims{}, domain.ErrUnauthenticated
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.SessionID)
		if err != nil {
			return ports.Claims{}, fmt.Errorf("check session: %w: %w", domain.ErrRead, err)
		}
		if revoked {
			return ports.Claims{}, domain.ErrUnauthenticated
		}
	}
	return claims, nil
}

// Subscribe delivers sign-in and sign-out transitions of uid.
func (s *AuthService) Subscribe(uid string, onChange func(domain.ChangeEvent)) func() {
	if s.bus == nil {
		return func() {}
	}
	return s.bus.Subscribe(func(ev domain.ChangeEvent) bool {
		return ev.IsAuth() && ev.UID == uid
	}, onChange)
}

func (s *AuthService) publish(t domain.EventType, uid string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(domain.ChangeEvent{Type: t, UID: uid, At: s.now().UTC()})
}

func (s *AuthService) generateToken(identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"uid":   identity.UID,
		"email": identity.Email,
		"sid":   uuid.NewString(),
		"exp":   s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
