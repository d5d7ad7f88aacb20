package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type cartItemRequest struct {
	CartID    int64 `json:"cartId" binding:"required"`
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity"`
}

type cartRequest struct {
	CartID int64 `json:"cartId" binding:"required"`
}

type associateRequest struct {
	CartID int64 `json:"cartId" binding:"required"`
	UserID int64 `json:"userId" binding:"required"`
}

// cartRef resolves the identity/cart reference for a request: an
// authenticated identity wins; anonymous clients pass ?cartId=.
func (h *handlers) cartRef(c *gin.Context) (userID, cartID *int64) {
	if id := h.identity(c); id != nil {
		userID = &id.ID
	}
	if raw := c.Query("cartId"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			cartID = &v
		}
	}
	return userID, cartID
}

func (h *handlers) getCart(c *gin.Context) {
	userID, cartID := h.cartRef(c)
	if userID == nil && cartID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no user or cartId"})
		return
	}
	cart, err := h.deps.CartSvc.Fetch(c.Request.Context(), userID, cartID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// createCart is idempotent for authenticated users: an existing cart is
// returned rather than duplicated.
func (h *handlers) createCart(c *gin.Context) {
	userID, cartID := h.cartRef(c)
	cart, err := h.deps.CartSvc.ResolveOrCreate(c.Request.Context(), userID, cartID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) clearCart(c *gin.Context) {
	var in cartRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cartId required"})
		return
	}
	if err := h.deps.CartSvc.Clear(c.Request.Context(), in.CartID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

func (h *handlers) applyItemDelta(c *gin.Context) {
	var in cartItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cartId and productId required"})
		return
	}
	item, err := h.deps.CartSvc.ApplyDelta(c.Request.Context(), in.CartID, in.ProductID, in.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if item == nil {
		c.JSON(http.StatusOK, gin.H{
			"cartId":    in.CartID,
			"productId": in.ProductID,
			"quantity":  0,
			"removed":   true,
		})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) setItemQuantity(c *gin.Context) {
	var in cartItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cartId and productId required"})
		return
	}
	item, err := h.deps.CartSvc.SetQuantity(c.Request.Context(), in.CartID, in.ProductID, in.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) removeItem(c *gin.Context) {
	cartID, err := strconv.ParseInt(c.Query("cartId"), 10, 64)
	if err != nil || cartID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cartId"})
		return
	}
	productID, err := strconv.ParseInt(c.Query("productId"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
		return
	}
	if err := h.deps.CartSvc.Remove(c.Request.Context(), cartID, productID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product removed from cart"})
}

func (h *handlers) associateCart(c *gin.Context) {
	var in associateRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cartId and userId required"})
		return
	}
	cart, err := h.deps.CartSvc.Associate(c.Request.Context(), in.CartID, in.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) disassociateCart(c *gin.Context) {
	var in cartRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cartId required"})
		return
	}
	cart, err := h.deps.CartSvc.Disassociate(c.Request.Context(), in.CartID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
