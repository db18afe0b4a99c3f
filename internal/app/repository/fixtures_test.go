package repository

import (
	"fmt"
	"testing"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Name: "User " + email, PasswordHash: "hash"}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createShop(t *testing.T, testDB *gorm.DB, owner *model.User, name string) *model.Shop {
	t.Helper()
	shop := &model.Shop{Name: name, UserID: owner.ID, Entity: model.Entity{CreatedByID: owner.ID}}
	require.NoError(t, testDB.Create(shop).Error)
	return shop
}

func createProduct(t *testing.T, testDB *gorm.DB, shop *model.Shop, name string, quantity int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:       name,
		Quantity:   quantity,
		Price:      decimal.RequireFromString("9.99"),
		ShopID:     shop.ID,
		Variations: model.Variations{},
		Rating:     decimal.Zero,
		Entity:     model.Entity{CreatedByID: shop.UserID},
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func createProducts(t *testing.T, testDB *gorm.DB, shop *model.Shop, n int) []*model.Product {
	t.Helper()
	products := make([]*model.Product, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, createProduct(t, testDB, shop, fmt.Sprintf("Item %02d", i), i))
	}
	return products
}

func productIDs(products []model.Product) []uint {
	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}
