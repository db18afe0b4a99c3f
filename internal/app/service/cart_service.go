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

type CartInput struct {
	Product  json.RawMessage `json:"product"`
	Quantity json.RawMessage `json:"quantity"`
}

// CartService manages the caller's private cart. Rows belonging to other
// users are reported as not found.
type CartService interface {
	AddToCart(ctx context.Context, userID uint, input CartInput) (*model.Cart, error)
	GetCartItem(ctx context.Context, userID, id uint) (*model.Cart, error)
	GetUserCart(ctx context.Context, userID uint, page pagination.Params) ([]model.Cart, int64, error)
	UpdateCartItem(ctx context.Context, userID, id uint, input CartInput) (*model.Cart, error)
	RemoveFromCart(ctx context.Context, userID, id uint) error
}

type cartService struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	database *gorm.DB,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		db:          database,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// resolveProduct parses and looks up a product reference, recording any
// rejection in errs. It returns 0 when the reference is unusable.
func resolveProduct(ctx context.Context, products repository.ProductRepository, raw json.RawMessage, errs *validation.Errors) (uint, error) {
	pk, fe := validation.ParsePrimaryKey(fieldProduct, raw)
	if fe != nil {
		errs.Add(fe)
		return 0, nil
	}
	if pk.ID == 0 {
		errs.Add(validation.DoesNotExist(fieldProduct, pk.Raw))
		return 0, nil
	}
	exists, err := products.Exists(ctx, pk.ID)
	if err != nil {
		return 0, err
	}
	if !exists {
		errs.Add(validation.DoesNotExist(fieldProduct, pk.Raw))
		return 0, nil
	}
	return pk.ID, nil
}

func parseCartQuantity(raw json.RawMessage, errs *validation.Errors) int {
	quantity, fe := validation.ParseInt(fieldQuantity, raw)
	if fe == nil {
		fe = validation.NonNegativeQuantity(fieldQuantity, quantity)
	}
	errs.Add(fe)
	return quantity
}

func (s *cartService) AddToCart(ctx context.Context, userID uint, input CartInput) (*model.Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id": userID,
	})

	errs := validation.NewErrors()
	cart := &model.Cart{UserID: userID, Entity: model.Entity{CreatedByID: userID}}
	if len(input.Quantity) > 0 {
		cart.Quantity = parseCartQuantity(input.Quantity, errs)
	}

	var created *model.Cart
	err := db.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		productID, err := resolveProduct(ctx, s.productRepo.WithTx(tx), input.Product, errs)
		if err != nil {
			return err
		}
		if err := errs.Err(); err != nil {
			return err
		}

		carts := s.cartRepo.WithTx(tx)
		cart.ProductID = productID
		if err := carts.Create(ctx, cart); err != nil {
			return err
		}
		created, err = carts.FindByID(ctx, userID, cart.ID)
		return err
	})
	if err != nil {
		logger.Warn("Add to cart rejected", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	logger.Info("Item added to cart successfully", map[string]interface{}{
		"user_id":    userID,
		"cart_id":    created.ID,
		"product_id": created.ProductID,
	})
	return created, nil
}

func (s *cartService) GetCartItem(ctx context.Context, userID, id uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, notFound(err, "Cart")
	}
	return cart, nil
}

func (s *cartService) GetUserCart(ctx context.Context, userID uint, page pagination.Params) ([]model.Cart, int64, error) {
	return s.cartRepo.ListByUser(ctx, userID, page)
}

// UpdateCartItem changes the quantity and/or product of a cart row
func (s *cartService) UpdateCartItem(ctx context.Context, userID, id uint, input CartInput) (*model.Cart, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id": userID,
		"cart_id": id,
	})

	errs := validation.NewErrors()
	fields := map[string]interface{}{}
	if len(input.Quantity) > 0 {
		fields["quantity"] = parseCartQuantity(input.Quantity, errs)
	}

	var updated *model.Cart
	err := db.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		carts := s.cartRepo.WithTx(tx)
		cart, err := carts.FindByID(ctx, userID, id)
		if err != nil {
			return notFound(err, "Cart")
		}

		if len(input.Product) > 0 {
			productID, err := resolveProduct(ctx, s.productRepo.WithTx(tx), input.Product, errs)
			if err != nil {
				return err
			}
			fields["product_id"] = productID
		}
		if err := errs.Err(); err != nil {
			return err
		}

		if len(fields) > 0 {
			if err := carts.Update(ctx, cart, fields); err != nil {
				return err
			}
		}
		updated, err = carts.FindByID(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, userID, id uint) error {
	if err := s.cartRepo.Delete(ctx, userID, id); err != nil {
		return notFound(err, "Cart")
	}

	logger.Info("Item removed from cart", map[string]interface{}{
		"user_id": userID,
		"cart_id": id,
	})
	return nil
}
