package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(testDB) })
	return testDB
}

func seedShopWithProduct(t *testing.T, testDB *gorm.DB) (*model.Shop, *model.Product) {
	t.Helper()
	user := &model.User{Email: "owner@example.com", Name: "Owner", PasswordHash: "x"}
	require.NoError(t, testDB.Create(user).Error)

	shop := &model.Shop{Name: "Corner", UserID: user.ID, Entity: model.Entity{CreatedByID: user.ID}}
	require.NoError(t, testDB.Create(shop).Error)

	product := &model.Product{
		Name:       "Lamp",
		Quantity:   3,
		Price:      decimal.RequireFromString("12.50"),
		ShopID:     shop.ID,
		Variations: model.Variations{"red", "blue"},
		Rating:     decimal.RequireFromString("4.5"),
		Entity:     model.Entity{CreatedByID: user.ID},
	}
	require.NoError(t, testDB.Create(product).Error)
	return shop, product
}

func TestSetupTestDB_IsolatedDatabases(t *testing.T) {
	first := setup(t)
	second := setup(t)

	seedShopWithProduct(t, first)

	var count int64
	require.NoError(t, second.Model(&model.Shop{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductColumns_RoundTrip(t *testing.T) {
	testDB := setup(t)
	_, product := seedShopWithProduct(t, testDB)

	var got model.Product
	require.NoError(t, testDB.First(&got, product.ID).Error)

	assert.Equal(t, "12.50", got.Price.StringFixed(2))
	assert.Equal(t, "4.5", got.Rating.StringFixed(1))
	assert.Equal(t, model.Variations{"red", "blue"}, got.Variations)
	assert.Nil(t, got.Image)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}

func TestShopDelete_CascadesToProducts(t *testing.T) {
	testDB := setup(t)
	shop, product := seedShopWithProduct(t, testDB)

	require.NoError(t, testDB.Delete(&model.Shop{}, shop.ID).Error)

	err := testDB.First(&model.Product{}, product.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestShopName_UniqueTranslatesToDuplicatedKey(t *testing.T) {
	testDB := setup(t)
	shop, _ := seedShopWithProduct(t, testDB)

	dup := &model.Shop{Name: shop.Name, UserID: shop.UserID, Entity: model.Entity{CreatedByID: shop.UserID}}
	err := testDB.Create(dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestWithTransaction_RollsBack(t *testing.T) {
	testDB := setup(t)
	boom := errors.New("boom")

	err := WithTransaction(context.Background(), testDB, func(tx *gorm.DB) error {
		if err := tx.Create(&model.User{Email: "gone@example.com", Name: "Gone", PasswordHash: "x"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, testDB.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestForUpdate_NoLockOnSQLite(t *testing.T) {
	testDB := setup(t)
	_, product := seedShopWithProduct(t, testDB)

	var got model.Product
	require.NoError(t, ForUpdate(testDB).First(&got, product.ID).Error)
	assert.Equal(t, product.ID, got.ID)
}
