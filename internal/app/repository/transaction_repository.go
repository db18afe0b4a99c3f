package repository

import (
	"context"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/pagination"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"gorm.io/gorm"
)

const transactionOrder = "transactions.created_at DESC, transactions.id DESC"

type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository
	Create(ctx context.Context, txn *model.Transaction) error
	ListByUser(ctx context.Context, userID uint, page pagination.Params) ([]model.Transaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepository{db: tx}
}

func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	logger.Debug("Creating transaction in database", map[string]interface{}{
		"product_id": txn.ProductID,
		"user_id":    txn.UserID,
		"quantity":   txn.Quantity,
	})

	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		logFailure("Failed to create transaction in database", err, map[string]interface{}{
			"product_id": txn.ProductID,
			"user_id":    txn.UserID,
		})
		return err
	}
	return nil
}

// ListByUser returns the user's purchases, newest first
func (r *transactionRepository) ListByUser(ctx context.Context, userID uint, page pagination.Params) ([]model.Transaction, int64, error) {
	logger.Debug("Listing transactions", map[string]interface{}{
		"user_id": userID,
		"page":    page.Page,
	})

	txns, count, err := pagination.Fetch[model.Transaction](ctx, r.db, pagination.Query{
		Filter: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("transactions.user_id = ?", userID)
		},
		Order:   transactionOrder,
		Preload: []string{"Product"},
	}, page)
	if err != nil {
		logFailure("Failed to list transactions", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}
	return txns, count, nil
}
