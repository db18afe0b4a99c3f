package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/app/repository"
	"github.com/ikkim/emporium-backend/internal/db"
	"github.com/ikkim/emporium-backend/internal/pagination"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseInput struct {
	Product  json.RawMessage `json:"product"`
	Quantity json.RawMessage `json:"quantity"`
}

type TransactionService interface {
	Purchase(ctx context.Context, userID uint, input PurchaseInput) (*model.Transaction, error)
	ListTransactions(ctx context.Context, userID uint, page pagination.Params) ([]model.Transaction, int64, error)
}

type transactionService struct {
	db              *gorm.DB
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
}

func NewTransactionService(
	database *gorm.DB,
	transactionRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
) TransactionService {
	return &transactionService{
		db:              database,
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
	}
}

// Purchase buys quantity units of a product at its current price. The
// product row is locked while stock is checked and decremented.
func (s *transactionService) Purchase(ctx context.Context, userID uint, input PurchaseInput) (*model.Transaction, error) {
	logger.Info("Processing purchase", map[string]interface{}{
		"user_id": userID,
	})

	errs := validation.NewErrors()
	quantity := 1
	if len(input.Quantity) > 0 {
		q, fe := validation.ParseInt(fieldQuantity, input.Quantity)
		if fe == nil {
			fe = validation.Quantity(fieldQuantity, q)
		}
		errs.Add(fe)
		quantity = q
	}

	var txn *model.Transaction
	err := db.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		productID, err := resolveProduct(ctx, products, input.Product, errs)
		if err != nil {
			return err
		}
		if err := errs.Err(); err != nil {
			return err
		}

		product, err := products.FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if quantity > product.Quantity {
			logger.Warn("Purchase rejected: insufficient stock", map[string]interface{}{
				"product_id": product.ID,
				"requested":  quantity,
				"available":  product.Quantity,
			})
			errs.AddMessage(fieldQuantity, validation.CodeMaxValue,
				fmt.Sprintf("Only %d item(s) left in stock.", product.Quantity))
			return errs.Err()
		}

		remaining := product.Quantity - quantity
		if err := products.Update(ctx, product, map[string]interface{}{"quantity": remaining}); err != nil {
			return err
		}
		product.Quantity = remaining

		txn = &model.Transaction{
			ProductID:           product.ID,
			Quantity:            quantity,
			UserID:              userID,
			ItemPriceAtPurchase: product.Price,
			Total:               product.Price.Mul(decimal.NewFromInt(int64(quantity))),
			Entity:              model.Entity{CreatedByID: userID},
		}
		if err := s.transactionRepo.WithTx(tx).Create(ctx, txn); err != nil {
			return err
		}
		txn.Product = product
		return nil
	})
	if err != nil {
		logger.Warn("Purchase rejected", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	logger.Info("Purchase completed", map[string]interface{}{
		"transaction_id": txn.ID,
		"product_id":     txn.ProductID,
		"quantity":       txn.Quantity,
		"total":          txn.Total.StringFixed(2),
	})
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, userID uint, page pagination.Params) ([]model.Transaction, int64, error) {
	return s.transactionRepo.ListByUser(ctx, userID, page)
}
