package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/app/repository"
	"github.com/ikkim/emporium-backend/internal/db"
	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"gorm.io/gorm"
)

type ShopInput struct {
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description"`
}

type ShopService interface {
	CreateShop(ctx context.Context, userID uint, input ShopInput) (*model.Shop, error)
	GetShopByID(ctx context.Context, id uint) (*model.Shop, error)
	ListShops(ctx context.Context, query repository.ShopQuery) ([]model.Shop, error)
	DeleteShop(ctx context.Context, userID, id uint) error
}

type shopService struct {
	db       *gorm.DB
	shopRepo repository.ShopRepository
}

func NewShopService(database *gorm.DB, shopRepo repository.ShopRepository) ShopService {
	return &shopService{db: database, shopRepo: shopRepo}
}

func (s *shopService) CreateShop(ctx context.Context, userID uint, input ShopInput) (*model.Shop, error) {
	logger.Info("Creating shop", map[string]interface{}{
		"user_id": userID,
	})

	errs := validation.NewErrors()
	var name string
	if len(input.Name) == 0 {
		errs.Add(validation.Required(fieldName))
	} else {
		var fe *validation.FieldError
		name, fe = validation.ParseString(fieldName, input.Name)
		if fe == nil {
			name = strings.TrimSpace(name)
			fe = validation.Name(fieldName, name, "")
		}
		if fe == nil {
			fe = validation.MaxLength(fieldName, name, validation.MaxShopNameLength)
		}
		errs.Add(fe)
	}
	shop := &model.Shop{
		Name:   name,
		UserID: userID,
		Entity: model.Entity{CreatedByID: userID},
	}
	if len(input.Description) > 0 {
		description, fe := validation.ParseString(fieldDescription, input.Description)
		errs.Add(fe)
		shop.Description = description
	}

	err := db.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		shops := s.shopRepo.WithTx(tx)
		if !errs.Has(fieldName) {
			fe, err := validation.UniqueShopName(ctx, fieldName, name, shops)
			if err != nil {
				return err
			}
			errs.Add(fe)
		}
		if err := errs.Err(); err != nil {
			return err
		}

		if err := shops.Create(ctx, shop); err != nil {
			if apperrors.IsUniqueViolation(err) {
				return fieldRejection(validation.ShopNameTaken(fieldName))
			}
			return err
		}
		return nil
	})
	if err != nil {
		logger.Warn("Shop creation rejected", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	logger.Info("Shop created successfully", map[string]interface{}{
		"shop_id": shop.ID,
		"user_id": userID,
	})
	return shop, nil
}

func (s *shopService) GetShopByID(ctx context.Context, id uint) (*model.Shop, error) {
	shop, err := s.shopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Shop")
	}
	return shop, nil
}

func (s *shopService) ListShops(ctx context.Context, query repository.ShopQuery) ([]model.Shop, error) {
	return s.shopRepo.List(ctx, query)
}

// DeleteShop removes a shop the caller owns, together with its catalog
func (s *shopService) DeleteShop(ctx context.Context, userID, id uint) error {
	return db.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		shops := s.shopRepo.WithTx(tx)
		shop, err := shops.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "Shop")
		}
		if shop.UserID != userID {
			logger.Warn("Shop deletion denied: not owner", map[string]interface{}{
				"shop_id": id,
				"user_id": userID,
			})
			return apperrors.NewForbidden("Only the shop owner can delete this shop.")
		}
		if err := shops.Delete(ctx, id); err != nil {
			return notFound(err, "Shop")
		}

		logger.Info("Shop deleted", map[string]interface{}{
			"shop_id": id,
			"user_id": userID,
		})
		return nil
	})
}
