package service

import (
	"context"
	"encoding/json"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/app/repository"
	"github.com/ikkim/emporium-backend/internal/db"
	"github.com/ikkim/emporium-backend/internal/pagination"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewInput struct {
	Message json.RawMessage `json:"message"`
	Rating  json.RawMessage `json:"rating"`
	Product json.RawMessage `json:"product"`
}

type ReviewService interface {
	CreateReview(ctx context.Context, userID uint, input ReviewInput) (*model.Review, error)
	ListReviews(ctx context.Context, query repository.ReviewQuery, page pagination.Params) ([]model.Review, int64, error)
}

type reviewService struct {
	db          *gorm.DB
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(
	database *gorm.DB,
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
) ReviewService {
	return &reviewService{
		db:          database,
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// CreateReview records the caller's review of a product
func (s *reviewService) CreateReview(ctx context.Context, userID uint, input ReviewInput) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"user_id": userID,
	})

	errs := validation.NewErrors()
	review := &model.Review{UserID: userID, Entity: model.Entity{CreatedByID: userID}}
	if len(input.Message) > 0 {
		message, fe := validation.ParseString(fieldMessage, input.Message)
		errs.Add(fe)
		review.Message = message
	}
	if len(input.Rating) == 0 {
		errs.Add(validation.Required(fieldRating))
	} else {
		rating, fe := validation.ParseDecimal(fieldRating, input.Rating)
		if fe == nil {
			fe = validation.ReviewRating(fieldRating, rating)
		}
		errs.Add(fe)
		review.Rating = rating
	}

	var created *model.Review
	err := db.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		productID, err := resolveProduct(ctx, s.productRepo.WithTx(tx), input.Product, errs)
		if err != nil {
			return err
		}
		if err := errs.Err(); err != nil {
			return err
		}

		reviews := s.reviewRepo.WithTx(tx)
		review.ProductID = productID
		if err := reviews.Create(ctx, review); err != nil {
			return err
		}
		created, err = reviews.FindByID(ctx, review.ID)
		return err
	})
	if err != nil {
		logger.Warn("Review creation rejected", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	logger.Info("Review created successfully", map[string]interface{}{
		"review_id":  created.ID,
		"product_id": created.ProductID,
	})
	return created, nil
}

func (s *reviewService) ListReviews(ctx context.Context, query repository.ReviewQuery, page pagination.Params) ([]model.Review, int64, error) {
	return s.reviewRepo.List(ctx, query, page)
}
