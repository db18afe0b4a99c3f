package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/emporium-backend/internal/app/repository"
	"github.com/ikkim/emporium-backend/internal/app/service"
	"github.com/ikkim/emporium-backend/internal/app/view"
	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"github.com/ikkim/emporium-backend/internal/middleware"
)

type ShopController struct {
	shopService service.ShopService
}

func NewShopController(shopService service.ShopService) *ShopController {
	return &ShopController{shopService: shopService}
}

// ListShops returns every shop, optionally filtered by name
// GET /api/shop?name=
func (ctrl *ShopController) ListShops(c *gin.Context) {
	shops, err := ctrl.shopService.ListShops(c.Request.Context(), repository.ShopQuery{
		NameContains: c.Query("name"),
	})
	if err != nil {
		apperrors.Respond(c, err, "list shops")
		return
	}
	c.JSON(http.StatusOK, view.NewShops(shops))
}

// CreateShop creates a shop owned by the caller
// POST /api/shop/create
func (ctrl *ShopController) CreateShop(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID := currentUserID(c)

	var input service.ShopInput
	if !decodeBody(c, &input) {
		return
	}

	shop, err := ctrl.shopService.CreateShop(c.Request.Context(), userID, input)
	if err != nil {
		apperrors.Respond(c, err, "create shop")
		return
	}

	log.Info("Shop created", map[string]interface{}{
		"shop_id": shop.ID,
		"user_id": userID,
	})
	c.JSON(http.StatusCreated, view.NewShop(shop))
}

// GetShop returns one shop
// GET /api/shop/:id
func (ctrl *ShopController) GetShop(c *gin.Context) {
	id, ok := parseID(c, "Shop")
	if !ok {
		return
	}

	shop, err := ctrl.shopService.GetShopByID(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err, "get shop")
		return
	}
	c.JSON(http.StatusOK, view.NewShop(shop))
}

// DeleteShop deletes a shop owned by the caller
// DELETE /api/shop/:id
func (ctrl *ShopController) DeleteShop(c *gin.Context) {
	id, ok := parseID(c, "Shop")
	if !ok {
		return
	}

	if err := ctrl.shopService.DeleteShop(c.Request.Context(), currentUserID(c), id); err != nil {
		apperrors.Respond(c, err, "delete shop")
		return
	}
	c.JSON(http.StatusOK, view.Deleted("Shop"))
}
