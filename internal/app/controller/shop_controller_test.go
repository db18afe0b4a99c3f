package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListShops_IsPublicAndUnpaginated(t *testing.T) {
	api := setupControllerTest(t)
	owner, _ := api.user(t, "owner@example.com")
	api.shop(t, owner, "Corner Books")
	api.shop(t, owner, "Tea House")
	api.shop(t, owner, "Bookworm")

	w := api.do(t, http.MethodGet, "/api/shop?name=book", nil, "")

	requireStatus(t, w, http.StatusOK)
	var shops []map[string]interface{}
	require.NoError(t, jsonUnmarshal(w.Body.Bytes(), &shops))
	require.Len(t, shops, 2)
	assert.Equal(t, "Corner Books", shops[0]["name"])
	assert.Equal(t, "Bookworm", shops[1]["name"])
}

func TestCreateShop(t *testing.T) {
	api := setupControllerTest(t)
	owner, token := api.user(t, "owner@example.com")

	w := api.do(t, http.MethodPost, "/api/shop/create", map[string]string{
		"name":        "Lamp Store",
		"description": "Lamps",
	}, token)

	requireStatus(t, w, http.StatusCreated)
	body := decodeObject(t, w)
	assert.Equal(t, "Lamp Store", body["name"])
	assert.EqualValues(t, owner.ID, body["user"])

	w = api.do(t, http.MethodPost, "/api/shop/create", map[string]string{"name": "Lamp Store"}, token)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Contains(t, decodeObject(t, w), "name")
	assert.EqualValues(t, 1, api.count(t, &model.Shop{}))
}

func TestCreateShop_AnonymousRejectedBeforeWrite(t *testing.T) {
	api := setupControllerTest(t)

	w := api.do(t, http.MethodPost, "/api/shop/create", map[string]string{"name": "Ghost"}, "")

	requireStatus(t, w, http.StatusUnauthorized)
	assert.Zero(t, api.count(t, &model.Shop{}))
}

func TestGetShop_UnknownAndMalformedIDs(t *testing.T) {
	api := setupControllerTest(t)
	owner, _ := api.user(t, "owner@example.com")
	shop := api.shop(t, owner, "Real")

	w := api.do(t, http.MethodGet, fmt.Sprintf("/api/shop/%d", shop.ID), nil, "")
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Real", decodeObject(t, w)["name"])

	for _, path := range []string{"/api/shop/999", "/api/shop/abc"} {
		w = api.do(t, http.MethodGet, path, nil, "")
		requireStatus(t, w, http.StatusNotFound)
		assert.Equal(t, "No Shop matches the given query.", decodeObject(t, w)["message"])
	}
}

func TestDeleteShop_OwnerOnlyAndCascades(t *testing.T) {
	api := setupControllerTest(t)
	owner, ownerToken := api.user(t, "owner@example.com")
	_, otherToken := api.user(t, "other@example.com")
	shop := api.shop(t, owner, "Doomed")
	api.product(t, shop, "Kettle", 3)
	path := fmt.Sprintf("/api/shop/%d", shop.ID)

	w := api.do(t, http.MethodDelete, path, nil, otherToken)
	requireStatus(t, w, http.StatusForbidden)
	assert.EqualValues(t, 1, api.count(t, &model.Shop{}))

	w = api.do(t, http.MethodDelete, path, nil, ownerToken)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Shop successfully deleted", decodeObject(t, w)["message"])
	assert.Zero(t, api.count(t, &model.Shop{}))
	assert.Zero(t, api.count(t, &model.Product{}))
}
