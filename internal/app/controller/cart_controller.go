package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/emporium-backend/config"
	"github.com/ikkim/emporium-backend/internal/app/service"
	"github.com/ikkim/emporium-backend/internal/app/view"
	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"github.com/ikkim/emporium-backend/internal/middleware"
	"github.com/ikkim/emporium-backend/internal/pagination"
)

type CartController struct {
	cartService service.CartService
	pageConfig  config.PaginationConfig
}

func NewCartController(cartService service.CartService, pageConfig config.PaginationConfig) *CartController {
	return &CartController{
		cartService: cartService,
		pageConfig:  pageConfig,
	}
}

// GetCart lists the caller's cart items
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	page, err := pagination.ParseParams(c, ctrl.pageConfig)
	if err != nil {
		apperrors.Respond(c, err, "")
		return
	}

	carts, count, err := ctrl.cartService.GetUserCart(c.Request.Context(), currentUserID(c), page)
	if err != nil {
		apperrors.Respond(c, err, "get cart")
		return
	}
	c.JSON(http.StatusOK, pagination.NewPage(c, view.NewCarts(carts), count, page))
}

// AddToCart puts a product in the caller's cart
// POST /api/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID := currentUserID(c)

	var input service.CartInput
	if !decodeBody(c, &input) {
		return
	}

	cart, err := ctrl.cartService.AddToCart(c.Request.Context(), userID, input)
	if err != nil {
		apperrors.Respond(c, err, "add to cart")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
	})
	c.JSON(http.StatusCreated, view.NewCart(cart))
}

// GetCartItem returns one of the caller's cart items
// GET /api/cart/:id
func (ctrl *CartController) GetCartItem(c *gin.Context) {
	id, ok := parseID(c, "Cart")
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetCartItem(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		apperrors.Respond(c, err, "get cart item")
		return
	}
	c.JSON(http.StatusOK, view.NewCart(cart))
}

// UpdateCartItem changes the product or quantity of a cart item
// PATCH /api/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	id, ok := parseID(c, "Cart")
	if !ok {
		return
	}

	var input service.CartInput
	if !decodeBody(c, &input) {
		return
	}

	cart, err := ctrl.cartService.UpdateCartItem(c.Request.Context(), currentUserID(c), id, input)
	if err != nil {
		apperrors.Respond(c, err, "update cart item")
		return
	}
	c.JSON(http.StatusOK, view.NewCart(cart))
}

// RemoveFromCart deletes one of the caller's cart items
// DELETE /api/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	id, ok := parseID(c, "Cart")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveFromCart(c.Request.Context(), currentUserID(c), id); err != nil {
		apperrors.Respond(c, err, "remove from cart")
		return
	}
	c.JSON(http.StatusOK, view.Deleted("Cart"))
}
