package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service handles registration, login and bearer-credential resolution.
type Service struct {
	users       userrepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	refreshTTL  time.Duration
	passwordMin int
}

// New creates a Service with sane defaults.
func New(users userrepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		users:       users,
		tokens:      newTokenManager(tokens),
		accessTTL:   7 * 24 * time.Hour,
		refreshTTL:  30 * 24 * time.Hour,
		passwordMin: 8,
	}
}

// RegisterInput captures fields expected by the register endpoint.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account with the default user role.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("name required")
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, errors.New("password too short")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         domain.RoleUser,
	})
}

// Login validates credentials and returns issued tokens plus the user.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, u.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, u.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// Logout revokes the given access token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, tok string) error {
	return s.tokens.Revoke(ctx, tok)
}

// Verify resolves an optional bearer credential to an identity. Malformed,
// expired or unknown credentials yield nil; the caller treats the requester
// as anonymous. Verify never returns an error for bad input.
func (s *Service) Verify(ctx context.Context, credential string) *domain.Identity {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil
	}
	meta, ok := s.tokens.Validate(ctx, credential)
	if !ok {
		return nil
	}
	u, err := s.users.GetByID(ctx, meta.UserID)
	if err != nil {
		return nil
	}
	return &domain.Identity{ID: u.ID, Role: u.Role}
}

// Me returns the account behind a valid access token.
func (s *Service) Me(ctx context.Context, credential string) (*domain.User, error) {
	id := s.Verify(ctx, credential)
	if id == nil {
		return nil, domain.ErrNotFound
	}
	return s.users.GetByID(ctx, id.ID)
}

// AccessTTLSeconds is exposed for cookie max-age headers.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
