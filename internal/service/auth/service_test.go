package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepo struct {
	nextID int64
	byID   map[int64]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, byID: map[int64]domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now()
	r.byID[u.ID] = u
	return &u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := u
	return &out, nil
}

type memTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: map[string]tokenrepo.Token{}}
}

func (r *memTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := r.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	r.tokens[t.Token] = t
	return nil
}

func (r *memTokenRepo) Get(_ context.Context, tok string) (*tokenrepo.Token, error) {
	t, ok := r.tokens[tok]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := t
	return &out, nil
}

func (r *memTokenRepo) Delete(_ context.Context, tok string) error {
	if _, ok := r.tokens[tok]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, tok)
	return nil
}

func newTestService() (*Service, *memUserRepo, *memTokenRepo) {
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	return New(users, tokens), users, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "Ada@Example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "ada@example.com" || u.Role != domain.RoleUser {
		t.Fatalf("unexpected user %+v", u)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("supersecret")); err != nil {
		t.Fatalf("password not hashed correctly: %v", err)
	}

	logged, access, refresh, err := svc.Login(ctx, "ada@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != u.ID || access == "" || refresh == "" || access == refresh {
		t.Fatalf("unexpected login result user=%+v access=%q refresh=%q", logged, access, refresh)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, _, err := svc.Login(ctx, "ada@example.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Name: "Other", Email: "ada@example.com", Password: "supersecret"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestVerify_ResolvesIdentity(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	u, access, _, err := svc.Login(ctx, "ada@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	id := svc.Verify(ctx, access)
	if id == nil || id.ID != u.ID || id.Role != domain.RoleUser {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestVerify_NeverErrorsOnBadInput(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, tok := range []string{"", "   ", "garbage", "a.b.c"} {
		if id := svc.Verify(ctx, tok); id != nil {
			t.Fatalf("token %q: expected nil identity, got %+v", tok, id)
		}
	}
}

func TestVerify_ExpiredTokenDeleted(t *testing.T) {
	svc, _, tokens := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	tokens.tokens["stale"] = tokenrepo.Token{
		Token:     "stale",
		UserID:    u.ID,
		Kind:      "access",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	if id := svc.Verify(ctx, "stale"); id != nil {
		t.Fatalf("expected nil identity for expired token, got %+v", id)
	}
	if _, ok := tokens.tokens["stale"]; ok {
		t.Fatalf("expired token should have been deleted")
	}
}

func TestVerify_RefreshTokenRejected(t *testing.T) {
	svc, _, tokens := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	tokens.tokens["refresh-tok"] = tokenrepo.Token{
		Token:     "refresh-tok",
		UserID:    u.ID,
		Kind:      "refresh",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	if id := svc.Verify(ctx, "refresh-tok"); id != nil {
		t.Fatalf("refresh tokens must not resolve an identity, got %+v", id)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, access, _, err := svc.Login(ctx, "ada@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(ctx, access); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if id := svc.Verify(ctx, access); id != nil {
		t.Fatalf("revoked token must not verify")
	}
	// logging out twice is fine
	if err := svc.Logout(ctx, access); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}
