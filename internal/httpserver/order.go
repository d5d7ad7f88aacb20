package httpserver

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/handoff"
	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	CartID int64 `json:"cartId" binding:"required"`
}

type orderResponse struct {
	domain.Order
	ConfirmationText string `json:"confirmationText,omitempty"`
	ConfirmationURL  string `json:"confirmationUrl,omitempty"`
}

func (h *handlers) createOrder(c *gin.Context) {
	var in createOrderRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cartId required"})
		return
	}

	var userID *int64
	if id := h.identity(c); id != nil {
		userID = &id.ID
	}

	order, err := h.deps.OrderSvc.Create(c.Request.Context(), in.CartID, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *handlers) getOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.deps.OrderSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	confirmation := handoff.Build(*order, h.deps.WhatsAppNumber)
	c.JSON(http.StatusOK, orderResponse{
		Order:            *order,
		ConfirmationText: confirmation.Text,
		ConfirmationURL:  confirmation.URL,
	})
}

func (h *handlers) getOrderStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	status, err := h.deps.OrderSvc.Status(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

func (h *handlers) cancelOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.deps.OrderSvc.Cancel(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
