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

type ReviewController struct {
	reviewService service.ReviewService
	pageConfig    config.PaginationConfig
}

func NewReviewController(reviewService service.ReviewService, pageConfig config.PaginationConfig) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		pageConfig:    pageConfig,
	}
}

// ListReviews returns reviews, newest first
// GET /api/review?product=
func (ctrl *ReviewController) ListReviews(c *gin.Context) {
	errs := validation.NewErrors()
	query := repository.ReviewQuery{ProductID: queryUint(c, "product", errs)}
	if err := errs.Err(); err != nil {
		apperrors.Respond(c, err, "")
		return
	}

	page, err := pagination.ParseParams(c, ctrl.pageConfig)
	if err != nil {
		apperrors.Respond(c, err, "")
		return
	}

	reviews, count, err := ctrl.reviewService.ListReviews(c.Request.Context(), query, page)
	if err != nil {
		apperrors.Respond(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, pagination.NewPage(c, view.NewReviews(reviews), count, page))
}

// CreateReview posts a review as the caller
// POST /api/review
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID := currentUserID(c)

	var input service.ReviewInput
	if !decodeBody(c, &input) {
		return
	}

	review, err := ctrl.reviewService.CreateReview(c.Request.Context(), userID, input)
	if err != nil {
		apperrors.Respond(c, err, "create review")
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id": review.ID,
		"user_id":   userID,
	})
	c.JSON(http.StatusCreated, view.NewReview(review))
}
