package service

import (
	"encoding/json"
	"testing"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/db"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServiceTest(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func seedUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Name: "Test User", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func seedShop(t *testing.T, testDB *gorm.DB, owner *model.User, name string) *model.Shop {
	t.Helper()
	shop := &model.Shop{Name: name, UserID: owner.ID, Entity: model.Entity{CreatedByID: owner.ID}}
	require.NoError(t, testDB.Create(shop).Error)
	return shop
}

func seedProduct(t *testing.T, testDB *gorm.DB, shop *model.Shop, quantity int, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:       "Lamp",
		Quantity:   quantity,
		Price:      decimal.RequireFromString(price),
		ShopID:     shop.ID,
		Variations: model.Variations{"red"},
		Rating:     decimal.RequireFromString("3.5"),
		Category:   "lighting",
		Entity:     model.Entity{CreatedByID: shop.UserID},
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func raw(v string) json.RawMessage {
	return json.RawMessage(v)
}

func strPtr(s string) *string {
	return &s
}

// requireFieldCodes asserts err is a validation failure carrying code on each field
func requireFieldCodes(t *testing.T, err error, want map[string]string) *validation.Errors {
	t.Helper()
	var errs *validation.Errors
	require.ErrorAs(t, err, &errs)
	for field, code := range want {
		assert.Contains(t, errs.Codes(field), code, "field %s", field)
	}
	return errs
}

func count(t *testing.T, testDB *gorm.DB, value interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, testDB.Model(value).Count(&n).Error)
	return n
}
