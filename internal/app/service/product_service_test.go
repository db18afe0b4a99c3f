package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/app/repository"
	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB, *model.User, *model.Shop) {
	testDB := setupServiceTest(t)
	owner := seedUser(t, testDB, "owner@example.com")
	shop := seedShop(t, testDB, owner, "Corner")
	svc := NewProductService(testDB, repository.NewProductRepository(testDB), repository.NewShopRepository(testDB))
	return svc, testDB, owner, shop
}

func validProductInput(shopID uint) ProductInput {
	return ProductInput{
		Name:     raw(`"Desk Lamp"`),
		Price:    raw(`"19.99"`),
		Quantity: raw(`4`),
		Shop:     raw(fmt.Sprintf("%d", shopID)),
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	svc, _, owner, shop := setupProductServiceTest(t)

	input := validProductInput(shop.ID)
	input.Variations = raw(`["a","b"]`)

	product, err := svc.CreateProduct(context.Background(), owner.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "19.99", product.Price.StringFixed(2))
	assert.Equal(t, model.Variations{"a", "b"}, product.Variations)
	assert.Equal(t, owner.ID, product.CreatedByID)
	require.NotNil(t, product.Shop)
	assert.Equal(t, "Corner", product.Shop.Name)
}

func TestProductService_CreateProduct_Rejections(t *testing.T) {
	svc, testDB, owner, shop := setupProductServiceTest(t)

	tests := []struct {
		name   string
		mutate func(*ProductInput)
		want   map[string]string
	}{
		{"zero price", func(in *ProductInput) { in.Price = raw(`0`) }, map[string]string{"price": validation.CodeMinValue}},
		{"negative price", func(in *ProductInput) { in.Price = raw(`"-1.00"`) }, map[string]string{"price": validation.CodeMinValue}},
		{"zero quantity", func(in *ProductInput) { in.Quantity = raw(`0`) }, map[string]string{"quantity": validation.CodeMinValue}},
		{"blank name", func(in *ProductInput) { in.Name = raw(`"   "`) }, map[string]string{"name": validation.CodeBlank}},
		{"name wrong type", func(in *ProductInput) { in.Name = raw(`5`) }, map[string]string{"name": validation.CodeInvalid}},
		{"variations not a list", func(in *ProductInput) { in.Variations = raw(`"small"`) }, map[string]string{"variations": validation.CodeNotAList}},
		{"duplicate variations", func(in *ProductInput) { in.Variations = raw(`["a","a"]`) }, map[string]string{"variations": validation.CodeDuplicate}},
		{"rating too high", func(in *ProductInput) { in.Rating = raw(`5.5`) }, map[string]string{"rating": validation.CodeMaxValue}},
		{"unknown shop", func(in *ProductInput) { in.Shop = raw(`999`) }, map[string]string{"shop": validation.CodeDoesNotExist}},
		{"shop wrong type", func(in *ProductInput) { in.Shop = raw(`"abc"`) }, map[string]string{"shop": validation.CodeIncorrectType}},
		{
			"every failure reported",
			func(in *ProductInput) {
				in.Name = raw(`5`)
				in.Price = raw(`0`)
				in.Quantity = raw(`-1`)
				in.Shop = raw(`999`)
				in.Variations = raw(`["a","a"]`)
				in.Category = raw(`7`)
			},
			map[string]string{
				"name":       validation.CodeInvalid,
				"price":      validation.CodeMinValue,
				"quantity":   validation.CodeMinValue,
				"shop":       validation.CodeDoesNotExist,
				"variations": validation.CodeDuplicate,
				"category":   validation.CodeInvalid,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validProductInput(shop.ID)
			tt.mutate(&input)

			_, err := svc.CreateProduct(context.Background(), owner.ID, input)
			requireFieldCodes(t, err, tt.want)
		})
	}

	assert.Zero(t, count(t, testDB, &model.Product{}))
}

func TestProductService_CreateProduct_MissingFields(t *testing.T) {
	svc, _, owner, _ := setupProductServiceTest(t)

	_, err := svc.CreateProduct(context.Background(), owner.ID, ProductInput{})
	requireFieldCodes(t, err, map[string]string{
		"name":     validation.CodeRequired,
		"price":    validation.CodeRequired,
		"quantity": validation.CodeRequired,
		"shop":     validation.CodeRequired,
	})
}

func TestProductService_UpdateProduct_PartialKeepsOtherFields(t *testing.T) {
	svc, testDB, _, shop := setupProductServiceTest(t)
	product := seedProduct(t, testDB, shop, 5, "12.50")

	updated, err := svc.UpdateProduct(context.Background(), product.ID, ProductInput{Quantity: raw(`0`)})
	require.NoError(t, err)

	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, "Lamp", updated.Name)
	assert.Equal(t, "12.50", updated.Price.StringFixed(2))
	assert.Equal(t, model.Variations{"red"}, updated.Variations)
	assert.Equal(t, "3.5", updated.Rating.StringFixed(1))
	assert.Equal(t, "lighting", updated.Category)
	assert.Equal(t, shop.ID, updated.ShopID)
}

func TestProductService_UpdateProduct_Rejections(t *testing.T) {
	svc, testDB, _, shop := setupProductServiceTest(t)
	product := seedProduct(t, testDB, shop, 5, "12.50")
	ctx := context.Background()

	_, err := svc.UpdateProduct(ctx, product.ID, ProductInput{Price: raw(`0`), Quantity: raw(`-3`)})
	requireFieldCodes(t, err, map[string]string{
		"price":    validation.CodeMinValue,
		"quantity": validation.CodeMinValue,
	})

	_, err = svc.UpdateProduct(ctx, product.ID+100, ProductInput{Quantity: raw(`1`)})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductService_UpdateProduct_RejectsNullVariationsAndCategory(t *testing.T) {
	svc, testDB, _, shop := setupProductServiceTest(t)
	product := seedProduct(t, testDB, shop, 5, "12.50")
	ctx := context.Background()

	_, err := svc.UpdateProduct(ctx, product.ID, ProductInput{Variations: raw(`null`), Category: raw(`null`)})
	errs := requireFieldCodes(t, err, map[string]string{
		"variations": validation.CodeNull,
		"category":   validation.CodeNull,
	})
	assert.Equal(t, []string{"This field may not be null."}, errs.Messages()["category"])

	stored, err := svc.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Variations{"red"}, stored.Variations)
	assert.Equal(t, "lighting", stored.Category)
}

func TestProductService_UpdateProduct_ClearsImage(t *testing.T) {
	svc, testDB, _, shop := setupProductServiceTest(t)
	product := seedProduct(t, testDB, shop, 5, "12.50")
	ctx := context.Background()

	updated, err := svc.UpdateProduct(ctx, product.ID, ProductInput{Image: raw(`"https://cdn.example/x.png"`)})
	require.NoError(t, err)
	require.NotNil(t, updated.Image)

	updated, err = svc.UpdateProduct(ctx, product.ID, ProductInput{Image: raw(`null`)})
	require.NoError(t, err)
	assert.Nil(t, updated.Image)
}

func TestProductService_DeleteThenGet(t *testing.T) {
	svc, testDB, _, shop := setupProductServiceTest(t)
	product := seedProduct(t, testDB, shop, 5, "12.50")
	ctx := context.Background()

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))

	_, err := svc.GetProductByID(ctx, product.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, product.ID), apperrors.ErrNotFound)
}
