package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
	"github.com/gin-gonic/gin"
)

// Narrow service interfaces keep the handlers testable with stubs.

type authService interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	Logout(ctx context.Context, token string) error
	Verify(ctx context.Context, credential string) *domain.Identity
	Me(ctx context.Context, credential string) (*domain.User, error)
	AccessTTLSeconds() int
}

type cartService interface {
	ResolveOrCreate(ctx context.Context, userID, cartID *int64) (*domain.Cart, error)
	Fetch(ctx context.Context, userID, cartID *int64) (*domain.Cart, error)
	ApplyDelta(ctx context.Context, cartID, productID int64, delta int) (*domain.CartItem, error)
	SetQuantity(ctx context.Context, cartID, productID int64, quantity int) (*domain.CartItem, error)
	Remove(ctx context.Context, cartID, productID int64) error
	Clear(ctx context.Context, cartID int64) error
	Associate(ctx context.Context, cartID, userID int64) (*domain.Cart, error)
	Disassociate(ctx context.Context, cartID int64) (*domain.Cart, error)
}

type orderService interface {
	Create(ctx context.Context, cartID int64, userID *int64) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Status(ctx context.Context, id int64) (string, error)
	Cancel(ctx context.Context, orderID int64) error
}

type productService interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
}

type categoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}

// bearerToken pulls the credential from the Authorization header or the
// token cookie set on login.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

// identity resolves the optional authenticated identity for a request.
// A missing or invalid credential yields nil, never an error.
func (h *handlers) identity(c *gin.Context) *domain.Identity {
	tok := bearerToken(c)
	if tok == "" {
		return nil
	}
	return h.deps.AuthSvc.Verify(c.Request.Context(), tok)
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors to HTTP statuses. Every taxonomy member
// stays distinguishable to the client.
func (h *handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, domain.ErrOrderExists):
		c.JSON(http.StatusConflict, gin.H{"error": "order already exists for cart"})
	case errors.Is(err, domain.ErrCartLocked):
		c.JSON(http.StatusConflict, gin.H{"error": "complete or cancel the pending order before changing the cart"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		h.logger.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
