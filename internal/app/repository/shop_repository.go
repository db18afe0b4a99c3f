package repository

import (
	"context"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"gorm.io/gorm"
)

type ShopRepository interface {
	WithTx(tx *gorm.DB) ShopRepository
	Create(ctx context.Context, shop *model.Shop) error
	FindByID(ctx context.Context, id uint) (*model.Shop, error)
	List(ctx context.Context, query ShopQuery) ([]model.Shop, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ShopNameExists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, id uint) error
}

type shopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) WithTx(tx *gorm.DB) ShopRepository {
	return &shopRepository{db: tx}
}

func (r *shopRepository) Create(ctx context.Context, shop *model.Shop) error {
	logger.Debug("Creating shop in database", map[string]interface{}{
		"name":    shop.Name,
		"user_id": shop.UserID,
	})

	if err := r.db.WithContext(ctx).Create(shop).Error; err != nil {
		logFailure("Failed to create shop in database", err, map[string]interface{}{
			"name":    shop.Name,
			"user_id": shop.UserID,
		})
		return err
	}

	logger.Debug("Shop created in database", map[string]interface{}{
		"shop_id": shop.ID,
	})
	return nil
}

func (r *shopRepository) FindByID(ctx context.Context, id uint) (*model.Shop, error) {
	var shop model.Shop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		logFailure("Failed to find shop by ID in database", err, map[string]interface{}{
			"shop_id": id,
		})
		return nil, err
	}
	return &shop, nil
}

// List returns every shop matching query, ordered by id
func (r *shopRepository) List(ctx context.Context, query ShopQuery) ([]model.Shop, error) {
	logger.Debug("Listing shops", map[string]interface{}{
		"name": query.NameContains,
	})

	shops := []model.Shop{}
	if err := query.Apply(r.db.WithContext(ctx).Model(&model.Shop{})).Order(shopOrder).Find(&shops).Error; err != nil {
		logger.Error("Failed to list shops", err, map[string]interface{}{
			"name": query.NameContains,
		})
		return nil, err
	}
	return shops, nil
}

func (r *shopRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Shop{}).Where("id = ?", id).Count(&count).Error; err != nil {
		logger.Error("Failed to check shop existence", err, map[string]interface{}{"shop_id": id})
		return false, err
	}
	return count > 0, nil
}

// ShopNameExists matches names exactly, case included
func (r *shopRepository) ShopNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Shop{}).Where("name = ?", name).Count(&count).Error; err != nil {
		logger.Error("Failed to check shop name", err, map[string]interface{}{"name": name})
		return false, err
	}
	return count > 0, nil
}

// Delete removes the shop; its products and their dependants go with it
// through ON DELETE CASCADE.
func (r *shopRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting shop from database", map[string]interface{}{
		"shop_id": id,
	})

	if err := deleteByID(r.db.WithContext(ctx), &model.Shop{}, "id = ?", id); err != nil {
		logFailure("Failed to delete shop from database", err, map[string]interface{}{
			"shop_id": id,
		})
		return err
	}
	return nil
}
