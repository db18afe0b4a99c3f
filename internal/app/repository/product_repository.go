package repository

import (
	"context"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/db"
	"github.com/ikkim/emporium-backend/internal/pagination"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context, query ProductQuery, page pagination.Params) ([]model.Product, int64, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, product *model.Product, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":    product.Name,
		"shop_id": product.ShopID,
	})

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		logFailure("Failed to create product in database", err, map[string]interface{}{
			"name":    product.Name,
			"shop_id": product.ShopID,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

// FindByID loads a product with its shop
func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Shop").First(&product, id).Error; err != nil {
		logFailure("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate loads the product and, on Postgres, locks its row until
// the surrounding transaction ends.
func (r *productRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := db.ForUpdate(r.db.WithContext(ctx)).First(&product, id).Error; err != nil {
		logFailure("Failed to lock product in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

// List returns one page of in-stock products matching query, with the total count
func (r *productRepository) List(ctx context.Context, query ProductQuery, page pagination.Params) ([]model.Product, int64, error) {
	fields := map[string]interface{}{
		"search":    query.Search,
		"category":  query.Category,
		"page":      page.Page,
		"page_size": page.PageSize,
	}
	if query.ShopID != nil {
		fields["shop_id"] = *query.ShopID
	}
	logger.Debug("Listing products", fields)

	products, count, err := pagination.Fetch[model.Product](ctx, r.db, pagination.Query{
		Filter:  query.Apply,
		Order:   productOrder,
		Preload: []string{"Shop"},
	}, page)
	if err != nil {
		logFailure("Failed to list products", err, fields)
		return nil, 0, err
	}
	return products, count, nil
}

func (r *productRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		logger.Error("Failed to check product existence", err, map[string]interface{}{"product_id": id})
		return false, err
	}
	return count > 0, nil
}

// Update writes only the given columns
func (r *productRepository) Update(ctx context.Context, product *model.Product, fields map[string]interface{}) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"fields":     len(fields),
	})

	if err := r.db.WithContext(ctx).Model(product).Updates(fields).Error; err != nil {
		logFailure("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := deleteByID(r.db.WithContext(ctx), &model.Product{}, "id = ?", id); err != nil {
		logFailure("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}
