package service

import (
	"errors"

	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"github.com/ikkim/emporium-backend/internal/validation"
	"gorm.io/gorm"
)

// Field names shared by request payloads and their rejections
const (
	fieldName        = "name"
	fieldEmail       = "email"
	fieldPrice       = "price"
	fieldQuantity    = "quantity"
	fieldShop        = "shop"
	fieldImage       = "image"
	fieldVariations  = "variations"
	fieldRating      = "rating"
	fieldCategory    = "category"
	fieldProduct     = "product"
	fieldFilename    = "filename"
	fieldContentType = "content_type"
	fieldDescription = "description"
	fieldMessage     = "message"
)

// notFound turns a missing row into the API's not-found error for resource
func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFound(resource)
	}
	return err
}

func fieldRejection(fe *validation.FieldError) error {
	errs := validation.NewErrors()
	errs.Add(fe)
	return errs.Err()
}
