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

type TransactionController struct {
	transactionService service.TransactionService
	pageConfig         config.PaginationConfig
}

func NewTransactionController(transactionService service.TransactionService, pageConfig config.PaginationConfig) *TransactionController {
	return &TransactionController{
		transactionService: transactionService,
		pageConfig:         pageConfig,
	}
}

// ListTransactions returns the caller's purchases
// GET /api/transaction
func (ctrl *TransactionController) ListTransactions(c *gin.Context) {
	page, err := pagination.ParseParams(c, ctrl.pageConfig)
	if err != nil {
		apperrors.Respond(c, err, "")
		return
	}

	txns, count, err := ctrl.transactionService.ListTransactions(c.Request.Context(), currentUserID(c), page)
	if err != nil {
		apperrors.Respond(c, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, pagination.NewPage(c, view.NewTransactions(txns), count, page))
}

// Purchase buys a product out of stock
// POST /api/transaction
func (ctrl *TransactionController) Purchase(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID := currentUserID(c)

	var input service.PurchaseInput
	if !decodeBody(c, &input) {
		return
	}

	txn, err := ctrl.transactionService.Purchase(c.Request.Context(), userID, input)
	if err != nil {
		apperrors.Respond(c, err, "purchase")
		return
	}

	log.Info("Purchase completed", map[string]interface{}{
		"transaction_id": txn.ID,
		"user_id":        userID,
		"total":          txn.Total.String(),
	})
	c.JSON(http.StatusCreated, view.NewTransaction(txn))
}
