package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"news_portal/internal/config"
	"news_portal/internal/domain"
)

const minPasswordLength = 8

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// AuthService registers users, issues bearer tokens and resolves them
// back into principals.
type AuthService struct {
	users  UserStore
	cfg    config.AuthConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewAuthService(users UserStore, cfg config.AuthConfig, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		cfg:    cfg,
		logger: logger.With("component", "auth"),
		now:    time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &domain.ValidationError{Fields: []string{"email"}, Reason: "invalid value"}
	}
	if len(password) < minPasswordLength {
		return nil, &domain.ValidationError{
			Fields: []string{"password"},
			Reason: fmt.Sprintf("must be at least %d characters", minPasswordLength),
		}
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, &domain.ValidationError{Fields: []string{"email"}, Reason: "already registered"}
	}
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)

	return user, nil
}

// Login checks the credentials and returns a signed token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	invalid := &domain.UnauthorizedError{Reason: "invalid credentials"}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return "", nil, invalid
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, invalid
	}

	token, err := s.issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Authenticate resolves a bearer credential: the configured API token or a
// token issued by Login.
func (s *AuthService) Authenticate(_ context.Context, credential string) (*domain.Principal, error) {
	if credential == "" {
		return nil, &domain.UnauthorizedError{Reason: "missing credentials"}
	}

	if s.cfg.APIToken != "" &&
		subtle.ConstantTimeCompare([]byte(credential), []byte(s.cfg.APIToken)) == 1 {
		return &domain.Principal{Email: "api-token", Role: domain.RoleAdmin}, nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, &domain.UnauthorizedError{Reason: "invalid token"}
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, &domain.UnauthorizedError{Reason: "invalid token subject"}
	}

	return &domain.Principal{UserID: id, Email: claims.Email, Role: claims.Role}, nil
}

// SeedAdmin creates the configured administrator account if it does not
// exist yet.
func (s *AuthService) SeedAdmin(ctx context.Context) error {
	admin := s.cfg.Admin
	if admin.Email == "" || admin.PasswordHash == "" {
		return nil
	}

	email := normalizeEmail(admin.Email)
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         admin.Name,
		Email:        email,
		PasswordHash: admin.PasswordHash,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("seeded admin account", "email", email)

	return nil
}

func (s *AuthService) issue(user *domain.User) (string, error) {
	now := s.now()
	claims := &Claims{
		Email: user.Email,
		Role:  user.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.cfg.TokenTTL).Unix(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// RoleAuthorizer allows writes to admin principals only.
type RoleAuthorizer struct{}

func (RoleAuthorizer) AuthorizeWrite(ctx context.Context) error {
	p := domain.PrincipalFromContext(ctx)
	if p == nil {
		return &domain.UnauthorizedError{Reason: "missing credentials"}
	}
	if !p.IsAdmin() {
		return &domain.UnauthorizedError{Reason: "admin role required"}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
