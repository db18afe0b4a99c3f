package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/app/repository"
	"github.com/ikkim/emporium-backend/internal/pagination"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTransactionServiceTest(t *testing.T) (TransactionService, *gorm.DB, *model.User, *model.Product) {
	testDB := setupServiceTest(t)
	user := seedUser(t, testDB, "buyer@example.com")
	product := seedProduct(t, testDB, seedShop(t, testDB, user, "Corner"), 3, "2.50")
	svc := NewTransactionService(testDB, repository.NewTransactionRepository(testDB), repository.NewProductRepository(testDB))
	return svc, testDB, user, product
}

func TestTransactionService_Purchase(t *testing.T) {
	svc, testDB, user, product := setupTransactionServiceTest(t)

	txn, err := svc.Purchase(context.Background(), user.ID, PurchaseInput{
		Product:  raw(fmt.Sprint(product.ID)),
		Quantity: raw(`2`),
	})
	require.NoError(t, err)

	assert.Equal(t, "2.50", txn.ItemPriceAtPurchase.StringFixed(2))
	assert.Equal(t, "5.00", txn.Total.StringFixed(2))
	require.NotNil(t, txn.Product)
	assert.Equal(t, 1, txn.Product.Quantity)

	var stored model.Product
	require.NoError(t, testDB.First(&stored, product.ID).Error)
	assert.Equal(t, 1, stored.Quantity)
}

func TestTransactionService_Purchase_DefaultsToOne(t *testing.T) {
	svc, _, user, product := setupTransactionServiceTest(t)

	txn, err := svc.Purchase(context.Background(), user.ID, PurchaseInput{Product: raw(fmt.Sprint(product.ID))})
	require.NoError(t, err)
	assert.Equal(t, 1, txn.Quantity)
}

func TestTransactionService_Purchase_OverStockWritesNothing(t *testing.T) {
	svc, testDB, user, product := setupTransactionServiceTest(t)

	_, err := svc.Purchase(context.Background(), user.ID, PurchaseInput{
		Product:  raw(fmt.Sprint(product.ID)),
		Quantity: raw(`4`),
	})
	requireFieldCodes(t, err, map[string]string{"quantity": validation.CodeMaxValue})

	var stored model.Product
	require.NoError(t, testDB.First(&stored, product.ID).Error)
	assert.Equal(t, 3, stored.Quantity)
	assert.Zero(t, count(t, testDB, &model.Transaction{}))
}

func TestTransactionService_Purchase_Invalid(t *testing.T) {
	svc, _, user, _ := setupTransactionServiceTest(t)

	_, err := svc.Purchase(context.Background(), user.ID, PurchaseInput{Product: raw(`[1]`), Quantity: raw(`0`)})
	requireFieldCodes(t, err, map[string]string{
		"product":  validation.CodeIncorrectType,
		"quantity": validation.CodeMinValue,
	})
}

func TestTransactionService_ListTransactions(t *testing.T) {
	svc, testDB, user, product := setupTransactionServiceTest(t)
	other := seedUser(t, testDB, "other@example.com")
	ctx := context.Background()

	_, err := svc.Purchase(ctx, user.ID, PurchaseInput{Product: raw(fmt.Sprint(product.ID))})
	require.NoError(t, err)

	_, total, err := svc.ListTransactions(ctx, user.ID, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = svc.ListTransactions(ctx, other.ID, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}
