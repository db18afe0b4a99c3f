package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/emporium-backend/config"
	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/app/repository"
	"github.com/ikkim/emporium-backend/internal/app/service"
	"github.com/ikkim/emporium-backend/internal/db"
	"github.com/ikkim/emporium-backend/internal/middleware"
	"github.com/ikkim/emporium-backend/internal/storage"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/ikkim/emporium-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "controller-test-secret"

var testPageConfig = config.PaginationConfig{DefaultPageSize: 2, MaxPageSize: 10}

type testAPI struct {
	engine *gin.Engine
	db     *gorm.DB
	media  string
}

// setupControllerTest mounts every controller behind the access gate on a
// fresh in-memory database.
func setupControllerTest(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.RegisterTagNames()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	mediaDir := t.TempDir()
	local, err := storage.NewLocalStorage(mediaDir)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	shopRepo := repository.NewShopRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	txnRepo := repository.NewTransactionRepository(testDB)

	authCtrl := NewAuthController(service.NewAuthService(testDB, userRepo, testSecret, time.Hour, nil))
	shopCtrl := NewShopController(service.NewShopService(testDB, shopRepo))
	productCtrl := NewProductController(service.NewProductService(testDB, productRepo, shopRepo), testPageConfig)
	cartCtrl := NewCartController(service.NewCartService(testDB, cartRepo, productRepo), testPageConfig)
	reviewCtrl := NewReviewController(service.NewReviewService(testDB, reviewRepo, productRepo), testPageConfig)
	txnCtrl := NewTransactionController(service.NewTransactionService(testDB, txnRepo, productRepo), testPageConfig)
	uploadCtrl := NewUploadController(service.NewUploadService(local, local))

	gate := middleware.NewAuthMiddleware(testSecret, nil).Gate
	r := gin.New()
	api := r.Group("/api")

	api.POST("/user", gate(middleware.ResourceUser), authCtrl.Register)
	api.POST("/user/token", gate(middleware.ResourceUser), authCtrl.Login)
	api.POST("/user/logout", gate(middleware.ResourceUserMe), authCtrl.Logout)
	api.GET("/user/me", gate(middleware.ResourceUserMe), authCtrl.GetMe)
	api.PATCH("/user/me", gate(middleware.ResourceUserMe), authCtrl.UpdateMe)

	shops := api.Group("/shop", gate(middleware.ResourceShop))
	shops.GET("", shopCtrl.ListShops)
	shops.POST("/create", shopCtrl.CreateShop)
	shops.GET("/:id", shopCtrl.GetShop)
	shops.DELETE("/:id", shopCtrl.DeleteShop)

	products := api.Group("/product", gate(middleware.ResourceProduct))
	products.GET("", productCtrl.ListProducts)
	products.POST("", productCtrl.CreateProduct)
	products.GET("/:id", productCtrl.GetProduct)
	products.PATCH("/:id", productCtrl.UpdateProduct)
	products.DELETE("/:id", productCtrl.DeleteProduct)

	cart := api.Group("/cart", gate(middleware.ResourceCart))
	cart.GET("", cartCtrl.GetCart)
	cart.POST("", cartCtrl.AddToCart)
	cart.GET("/:id", cartCtrl.GetCartItem)
	cart.PATCH("/:id", cartCtrl.UpdateCartItem)
	cart.DELETE("/:id", cartCtrl.RemoveFromCart)

	reviews := api.Group("/review", gate(middleware.ResourceReview))
	reviews.GET("", reviewCtrl.ListReviews)
	reviews.POST("", reviewCtrl.CreateReview)

	txns := api.Group("/transaction", gate(middleware.ResourceTransaction))
	txns.GET("", txnCtrl.ListTransactions)
	txns.POST("", txnCtrl.Purchase)

	media := api.Group("/media", gate(middleware.ResourceMedia))
	media.POST("/upload", uploadCtrl.PrepareUpload)
	media.POST("/upload/local", uploadCtrl.UploadLocal)

	return &testAPI{engine: r, db: testDB, media: mediaDir}
}

// do sends body (JSON-encoded unless it is already a string) with an
// optional bearer token.
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		encoded, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testAPI) user(t *testing.T, email string) (*model.User, string) {
	t.Helper()
	hash, err := util.HashPassword("secret123")
	require.NoError(t, err)
	user := &model.User{Email: email, Name: "Tester", PasswordHash: hash}
	require.NoError(t, a.db.Create(user).Error)
	token, err := util.GenerateToken(user.ID, user.Email, testSecret, time.Hour)
	require.NoError(t, err)
	return user, token
}

func (a *testAPI) shop(t *testing.T, owner *model.User, name string) *model.Shop {
	t.Helper()
	shop := &model.Shop{Name: name, UserID: owner.ID, Entity: model.Entity{CreatedByID: owner.ID}}
	require.NoError(t, a.db.Create(shop).Error)
	return shop
}

func (a *testAPI) product(t *testing.T, shop *model.Shop, name string, quantity int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:       name,
		Price:      decimal.RequireFromString("12.50"),
		Quantity:   quantity,
		ShopID:     shop.ID,
		Variations: model.Variations{"small", "large"},
		Rating:     decimal.RequireFromString("4.5"),
		Category:   "kitchen",
		Entity:     model.Entity{CreatedByID: shop.UserID},
	}
	require.NoError(t, a.db.Create(product).Error)
	return product
}

func (a *testAPI) count(t *testing.T, value interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, a.db.Model(value).Count(&n).Error)
	return n
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}


func jsonUnmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
