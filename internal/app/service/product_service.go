package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/app/repository"
	"github.com/ikkim/emporium-backend/internal/db"
	"github.com/ikkim/emporium-backend/internal/pagination"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const msgProductNameInvalid = "Product name is invalid"

// ProductInput is a product create or patch payload. Fields are kept raw
// so every malformed field can be reported at once.
type ProductInput struct {
	Name       json.RawMessage `json:"name"`
	Price      json.RawMessage `json:"price"`
	Quantity   json.RawMessage `json:"quantity"`
	Shop       json.RawMessage `json:"shop"`
	Image      json.RawMessage `json:"image"`
	Variations json.RawMessage `json:"variations"`
	Rating     json.RawMessage `json:"rating"`
	Category   json.RawMessage `json:"category"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, userID uint, input ProductInput) (*model.Product, error)
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	ListProducts(ctx context.Context, query repository.ProductQuery, page pagination.Params) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type productService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	shopRepo    repository.ShopRepository
}

func NewProductService(
	database *gorm.DB,
	productRepo repository.ProductRepository,
	shopRepo repository.ShopRepository,
) ProductService {
	return &productService{
		db:          database,
		productRepo: productRepo,
		shopRepo:    shopRepo,
	}
}

// productChanges is a validated payload: the columns to write plus the
// shop reference still to be resolved.
type productChanges struct {
	fields map[string]interface{}
	shop   *validation.PrimaryKey
}

// parse validates every present field of input. On create, missing
// required fields are rejected and positive quantity is required.
func (in ProductInput) parse(create bool) (*productChanges, *validation.Errors) {
	errs := validation.NewErrors()
	ch := &productChanges{fields: map[string]interface{}{}}

	switch {
	case len(in.Name) > 0:
		name, fe := validation.ParseString(fieldName, in.Name)
		if fe == nil {
			name = strings.TrimSpace(name)
			fe = validation.Name(fieldName, name, msgProductNameInvalid)
		}
		if fe == nil {
			fe = validation.MaxLength(fieldName, name, validation.MaxProductNameLength)
		}
		errs.Add(fe)
		ch.fields["name"] = name
	case create:
		errs.Add(validation.Required(fieldName))
	}

	switch {
	case len(in.Price) > 0:
		price, fe := validation.ParseDecimal(fieldPrice, in.Price)
		if fe == nil {
			fe = validation.Price(fieldPrice, price)
		}
		errs.Add(fe)
		ch.fields["price"] = price
	case create:
		errs.Add(validation.Required(fieldPrice))
	}

	switch {
	case len(in.Quantity) > 0:
		quantity, fe := validation.ParseInt(fieldQuantity, in.Quantity)
		if fe == nil && create {
			fe = validation.Quantity(fieldQuantity, quantity)
		} else if fe == nil {
			fe = validation.NonNegativeQuantity(fieldQuantity, quantity)
		}
		errs.Add(fe)
		ch.fields["quantity"] = quantity
	case create:
		errs.Add(validation.Required(fieldQuantity))
	}

	switch {
	case len(in.Shop) > 0:
		pk, fe := validation.ParsePrimaryKey(fieldShop, in.Shop)
		errs.Add(fe)
		if fe == nil {
			ch.shop = &pk
		}
	case create:
		errs.Add(validation.Required(fieldShop))
	}

	if len(in.Image) > 0 {
		image, fe := validation.ParseOptionalString(fieldImage, in.Image)
		if fe == nil && image != nil {
			fe = validation.MaxLength(fieldImage, *image, validation.MaxImageURLLength)
		}
		errs.Add(fe)
		ch.fields["image"] = image
	}

	if len(in.Variations) > 0 {
		variations, fe := validation.ParseStringList(fieldVariations, in.Variations)
		if fe == nil {
			fe = validation.Variations(fieldVariations, variations)
		}
		errs.Add(fe)
		ch.fields["variations"] = model.Variations(variations)
	}

	if len(in.Rating) > 0 {
		rating, fe := validation.ParseDecimal(fieldRating, in.Rating)
		if fe == nil {
			fe = validation.ProductRating(fieldRating, rating)
		}
		errs.Add(fe)
		ch.fields["rating"] = rating
	}

	if len(in.Category) > 0 {
		category, fe := validation.ParseString(fieldCategory, in.Category)
		category = strings.TrimSpace(category)
		if fe == nil {
			fe = validation.MaxLength(fieldCategory, category, validation.MaxCategoryLength)
		}
		errs.Add(fe)
		ch.fields["category"] = category
	}

	return ch, errs
}

// resolveShop checks that the referenced shop exists, recording a field
// rejection when it does not.
func (s *productService) resolveShop(ctx context.Context, shops repository.ShopRepository, pk *validation.PrimaryKey, errs *validation.Errors) error {
	if pk == nil {
		return nil
	}
	if pk.ID == 0 {
		errs.Add(validation.DoesNotExist(fieldShop, pk.Raw))
		return nil
	}
	exists, err := shops.Exists(ctx, pk.ID)
	if err != nil {
		return err
	}
	if !exists {
		errs.Add(validation.DoesNotExist(fieldShop, pk.Raw))
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, userID uint, input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"user_id": userID,
	})

	changes, errs := input.parse(true)

	var created *model.Product
	err := db.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.resolveShop(ctx, s.shopRepo.WithTx(tx), changes.shop, errs); err != nil {
			return err
		}
		if err := errs.Err(); err != nil {
			return err
		}

		product := &model.Product{
			Name:       changes.fields["name"].(string),
			Price:      changes.fields["price"].(decimal.Decimal),
			Quantity:   changes.fields["quantity"].(int),
			ShopID:     changes.shop.ID,
			Variations: model.Variations{},
			Rating:     decimal.Zero,
			Entity:     model.Entity{CreatedByID: userID},
		}
		if image, ok := changes.fields["image"].(*string); ok {
			product.Image = image
		}
		if variations, ok := changes.fields["variations"].(model.Variations); ok {
			product.Variations = variations
		}
		if rating, ok := changes.fields["rating"].(decimal.Decimal); ok {
			product.Rating = rating
		}
		if category, ok := changes.fields["category"].(string); ok {
			product.Category = category
		}

		products := s.productRepo.WithTx(tx)
		if err := products.Create(ctx, product); err != nil {
			return err
		}
		var err error
		created, err = products.FindByID(ctx, product.ID)
		return err
	})
	if err != nil {
		logger.Warn("Product creation rejected", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": created.ID,
		"shop_id":    created.ShopID,
	})
	return created, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product")
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, query repository.ProductQuery, page pagination.Params) ([]model.Product, int64, error) {
	return s.productRepo.List(ctx, query, page)
}

// UpdateProduct validates and writes only the fields present in input
func (s *productService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	changes, errs := input.parse(false)

	var updated *model.Product
	err := db.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		product, err := products.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "Product")
		}

		if err := s.resolveShop(ctx, s.shopRepo.WithTx(tx), changes.shop, errs); err != nil {
			return err
		}
		if err := errs.Err(); err != nil {
			return err
		}
		if changes.shop != nil {
			changes.fields["shop_id"] = changes.shop.ID
		}

		if len(changes.fields) > 0 {
			if err := products.Update(ctx, product, changes.fields); err != nil {
				return err
			}
		}
		updated, err = products.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": id,
		"fields":     len(changes.fields),
	})
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return notFound(err, "Product")
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
