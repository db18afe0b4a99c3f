package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_ScopedToCaller(t *testing.T) {
	api := setupControllerTest(t)
	owner, ownerToken := api.user(t, "owner@example.com")
	_, otherToken := api.user(t, "other@example.com")
	product := api.product(t, api.shop(t, owner, "Kitchen"), "Pan", 4)

	w := api.do(t, http.MethodPost, "/api/cart", map[string]interface{}{
		"product":  product.ID,
		"quantity": 2,
	}, ownerToken)
	requireStatus(t, w, http.StatusCreated)
	created := decodeObject(t, w)
	assert.EqualValues(t, owner.ID, created["user"])
	assert.Equal(t, "Pan", created["product"].(map[string]interface{})["name"])
	path := fmt.Sprintf("/api/cart/%v", created["id"])

	w = api.do(t, http.MethodGet, path, nil, otherToken)
	requireStatus(t, w, http.StatusNotFound)
	w = api.do(t, http.MethodDelete, path, nil, otherToken)
	requireStatus(t, w, http.StatusNotFound)

	w = api.do(t, http.MethodGet, "/api/cart", nil, otherToken)
	requireStatus(t, w, http.StatusOK)
	assert.EqualValues(t, 0, decodeObject(t, w)["count"])

	w = api.do(t, http.MethodGet, "/api/cart", nil, ownerToken)
	requireStatus(t, w, http.StatusOK)
	assert.EqualValues(t, 1, decodeObject(t, w)["count"])
}

func TestCart_UpdateAndRemove(t *testing.T) {
	api := setupControllerTest(t)
	owner, token := api.user(t, "owner@example.com")
	product := api.product(t, api.shop(t, owner, "Kitchen"), "Pan", 4)

	w := api.do(t, http.MethodPost, "/api/cart", map[string]interface{}{"product": product.ID, "quantity": 1}, token)
	requireStatus(t, w, http.StatusCreated)
	path := fmt.Sprintf("/api/cart/%v", decodeObject(t, w)["id"])

	w = api.do(t, http.MethodPatch, path, map[string]interface{}{"quantity": 3}, token)
	requireStatus(t, w, http.StatusOK)
	assert.EqualValues(t, 3, decodeObject(t, w)["quantity"])

	w = api.do(t, http.MethodPatch, path, map[string]interface{}{"quantity": -1}, token)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Contains(t, decodeObject(t, w), "quantity")

	w = api.do(t, http.MethodDelete, path, nil, token)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Cart successfully deleted", decodeObject(t, w)["message"])
	assert.Zero(t, api.count(t, &model.Cart{}))
}

func TestCart_RejectsUnknownProductAndAnonymous(t *testing.T) {
	api := setupControllerTest(t)
	_, token := api.user(t, "owner@example.com")

	w := api.do(t, http.MethodPost, "/api/cart", map[string]interface{}{"product": 404, "quantity": 1}, token)
	requireStatus(t, w, http.StatusBadRequest)
	require.Contains(t, decodeObject(t, w), "product")

	w = api.do(t, http.MethodGet, "/api/cart", nil, "")
	requireStatus(t, w, http.StatusUnauthorized)
	assert.Zero(t, api.count(t, &model.Cart{}))
}
