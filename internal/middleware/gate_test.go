package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPolicy_Required(t *testing.T) {
	tests := []struct {
		resource string
		method   string
		want     Access
	}{
		{ResourceProduct, http.MethodGet, AccessAnyone},
		{ResourceShop, http.MethodGet, AccessAnyone},
		{ResourceReview, http.MethodGet, AccessAnyone},
		{ResourceUser, http.MethodPost, AccessAnyone},
		{ResourceProduct, http.MethodPost, AccessAuthenticated},
		{ResourceProduct, http.MethodPatch, AccessAuthenticated},
		{ResourceProduct, http.MethodDelete, AccessAuthenticated},
		{ResourceShop, http.MethodPost, AccessAuthenticated},
		{ResourceReview, http.MethodPost, AccessAuthenticated},
		{ResourceCart, http.MethodGet, AccessAuthenticated},
		{ResourceTransaction, http.MethodGet, AccessAuthenticated},
		{ResourceUserMe, http.MethodGet, AccessAuthenticated},
		{"unknown", http.MethodGet, AccessAuthenticated},
		{ResourceProduct, "PURGE", AccessAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.resource+" "+tt.method, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultPolicy.Required(tt.resource, tt.method))
		})
	}
}

func TestGate_BlocksBeforeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	auth := NewAuthMiddleware(testJWTSecret, nil)

	handlerRan := false
	handler := func(c *gin.Context) {
		handlerRan = true
		c.Status(http.StatusOK)
	}
	router.GET("/review", auth.Gate(ResourceReview), handler)
	router.POST("/review", auth.Gate(ResourceReview), handler)

	w := doRequest(router, http.MethodPost, "/review", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handlerRan)

	w = doRequest(router, http.MethodGet, "/review", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerRan)

	handlerRan = false
	token, _ := generateTestToken(t, 1, time.Minute)
	w = doRequest(router, http.MethodPost, "/review", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerRan)
}

func TestGate_CustomPolicy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	auth := NewAuthMiddleware(testJWTSecret, nil).WithPolicy(Policy{
		ResourceCart: {http.MethodGet: AccessAnyone},
	})
	router.GET("/cart", auth.Gate(ResourceCart), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/product", auth.Gate(ResourceProduct), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/cart", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodGet, "/product", "").Code)
}

func TestAccess_String(t *testing.T) {
	assert.Equal(t, "anyone", AccessAnyone.String())
	assert.Equal(t, "authenticated", Access(0).String())
}
