package repository

import (
	"context"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/pagination"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"gorm.io/gorm"
)

const cartOrder = "carts.id ASC"

// CartRepository reads and writes cart rows. Every lookup is scoped to the
// owning user; another user's row is indistinguishable from a missing one.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Create(ctx context.Context, cart *model.Cart) error
	FindByID(ctx context.Context, userID, id uint) (*model.Cart, error)
	ListByUser(ctx context.Context, userID uint, page pagination.Params) ([]model.Cart, int64, error)
	Update(ctx context.Context, cart *model.Cart, fields map[string]interface{}) error
	Delete(ctx context.Context, userID, id uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepository{db: tx}
}

func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"user_id":    cart.UserID,
		"product_id": cart.ProductID,
		"quantity":   cart.Quantity,
	})

	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		logFailure("Failed to create cart item in database", err, map[string]interface{}{
			"user_id":    cart.UserID,
			"product_id": cart.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindByID(ctx context.Context, userID, id uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND user_id = ?", id, userID).
		First(&cart).Error
	if err != nil {
		logFailure("Failed to find cart item in database", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": id,
		})
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userID uint, page pagination.Params) ([]model.Cart, int64, error) {
	logger.Debug("Listing cart items", map[string]interface{}{
		"user_id": userID,
		"page":    page.Page,
	})

	carts, count, err := pagination.Fetch[model.Cart](ctx, r.db, pagination.Query{
		Filter: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("carts.user_id = ?", userID)
		},
		Order:   cartOrder,
		Preload: []string{"Product"},
	}, page)
	if err != nil {
		logFailure("Failed to list cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}
	return carts, count, nil
}

// Update writes only the given columns
func (r *cartRepository) Update(ctx context.Context, cart *model.Cart, fields map[string]interface{}) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_id": cart.ID,
		"fields":  len(fields),
	})

	if err := r.db.WithContext(ctx).Model(cart).Updates(fields).Error; err != nil {
		logFailure("Failed to update cart item in database", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, userID, id uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"user_id": userID,
		"cart_id": id,
	})

	if err := deleteByID(r.db.WithContext(ctx), &model.Cart{}, "id = ? AND user_id = ?", id, userID); err != nil {
		logFailure("Failed to delete cart item from database", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": id,
		})
		return err
	}
	return nil
}
