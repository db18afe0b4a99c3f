package repository

import (
	"context"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/pagination"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	WithTx(tx *gorm.DB) ReviewRepository
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uint) (*model.Review, error)
	List(ctx context.Context, query ReviewQuery, page pagination.Params) ([]model.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"product_id": review.ProductID,
		"user_id":    review.UserID,
	})

	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		logFailure("Failed to create review in database", err, map[string]interface{}{
			"product_id": review.ProductID,
			"user_id":    review.UserID,
		})
		return err
	}
	return nil
}

// FindByID loads a review with the product and author it belongs to
func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).Preload("Product").Preload("User").First(&review, id).Error; err != nil {
		logFailure("Failed to find review by ID in database", err, map[string]interface{}{
			"review_id": id,
		})
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context, query ReviewQuery, page pagination.Params) ([]model.Review, int64, error) {
	fields := map[string]interface{}{"page": page.Page}
	if query.ProductID != nil {
		fields["product_id"] = *query.ProductID
	}
	logger.Debug("Listing reviews", fields)

	reviews, count, err := pagination.Fetch[model.Review](ctx, r.db, pagination.Query{
		Filter:  query.Apply,
		Order:   reviewOrder,
		Preload: []string{"Product", "User"},
	}, page)
	if err != nil {
		logFailure("Failed to list reviews", err, fields)
		return nil, 0, err
	}
	return reviews, count, nil
}
