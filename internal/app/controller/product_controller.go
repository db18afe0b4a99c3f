package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/emporium-backend/config"
	"github.com/ikkim/emporium-backend/internal/app/repository"
	"github.com/ikkim/emporium-backend/internal/app/service"
	"github.com/ikkim/emporium-backend/internal/app/view"
	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"github.com/ikkim/emporium-backend/internal/middleware"
	"github.com/ikkim/emporium-backend/internal/pagination"
	"github.com/ikkim/emporium-backend/internal/validation"
)

type ProductController struct {
	productService service.ProductService
	pageConfig     config.PaginationConfig
}

func NewProductController(productService service.ProductService, pageConfig config.PaginationConfig) *ProductController {
	return &ProductController{
		productService: productService,
		pageConfig:     pageConfig,
	}
}

// ListProducts returns in-stock products, filtered by shop, search and category
// GET /api/product?shop=&search=&category=&page=&page_size=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	errs := validation.NewErrors()
	query := repository.ProductQuery{
		ShopID:   queryUint(c, "shop", errs),
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}
	if err := errs.Err(); err != nil {
		apperrors.Respond(c, err, "")
		return
	}

	page, err := pagination.ParseParams(c, ctrl.pageConfig)
	if err != nil {
		apperrors.Respond(c, err, "")
		return
	}

	products, count, err := ctrl.productService.ListProducts(c.Request.Context(), query, page)
	if err != nil {
		apperrors.Respond(c, err, "list products")
		return
	}
	c.JSON(http.StatusOK, pagination.NewPage(c, view.NewProducts(products), count, page))
}

// CreateProduct adds a product to a shop
// POST /api/product
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID := currentUserID(c)

	var input service.ProductInput
	if !decodeBody(c, &input) {
		return
	}

	product, err := ctrl.productService.CreateProduct(c.Request.Context(), userID, input)
	if err != nil {
		apperrors.Respond(c, err, "create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"user_id":    userID,
	})
	c.JSON(http.StatusCreated, view.NewProduct(product))
}

// GetProduct returns the detail projection of one product
// GET /api/product/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "Product")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err, "get product")
		return
	}
	c.JSON(http.StatusOK, view.NewProductDetail(product))
}

// UpdateProduct partially updates a product
// PATCH /api/product/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "Product")
	if !ok {
		return
	}

	var input service.ProductInput
	if !decodeBody(c, &input) {
		return
	}

	product, err := ctrl.productService.UpdateProduct(c.Request.Context(), id, input)
	if err != nil {
		apperrors.Respond(c, err, "update product")
		return
	}

	log.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})
	c.JSON(http.StatusOK, view.NewProduct(product))
}

// DeleteProduct removes a product
// DELETE /api/product/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "Product")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err, "delete product")
		return
	}
	c.JSON(http.StatusOK, view.Deleted("Product"))
}
