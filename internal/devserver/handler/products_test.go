package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducts_ListEnvelope(t *testing.T) {
	srv := newTestServer(t)
	account := signUpUser(t, srv, "jane@x.com", "secret123")
	createProduct(t, srv, account["idToken"], map[string]string{
		"name": "Eggs", "price": "5", "description": "Free range",
	})

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/products/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Count   int `json:"count"`
		Results []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Seller string `json:"seller"`
		} `json:"results"`
	}
	decodeInto(t, data, &envelope)
	assert.Equal(t, 1, envelope.Count)
	require.Len(t, envelope.Results, 1)
	assert.Equal(t, "Eggs", envelope.Results[0].Name)
	assert.Equal(t, account["localId"], envelope.Results[0].Seller)
}

func TestProducts_CreateRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	body, ct := productBody(t, map[string]string{
		"name": "Eggs", "price": "5", "description": "d",
	}, "", nil)
	resp, data := doMultipart(t, http.MethodPost, srv.URL+"/api/products/", "", body, ct)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(data), "Authentication credentials were not provided.")
}

func TestProducts_CreateValidation(t *testing.T) {
	srv := newTestServer(t)
	account := signUpUser(t, srv, "jane@x.com", "secret123")

	body, ct := productBody(t, map[string]string{"price": "5", "description": "d"}, "", nil)
	resp, _ := doMultipart(t, http.MethodPost, srv.URL+"/api/products/", account["idToken"], body, ct)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, ct = productBody(t, map[string]string{"name": "Eggs", "description": "d"}, "", nil)
	resp, _ = doMultipart(t, http.MethodPost, srv.URL+"/api/products/", account["idToken"], body, ct)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProducts_CreateDenormalizesSeller(t *testing.T) {
	srv := newTestServer(t)
	account := signUpUser(t, srv, "jane@x.com", "secret123")

	// Set a display name first so attribution has something to copy.
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/identity/v1/accounts:update", "", map[string]any{
		"idToken": account["idToken"], "displayName": "Jane", "photoUrl": "",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	created := createProduct(t, srv, account["idToken"], map[string]string{
		"name": "Eggs", "price": "5", "description": "d",
	})
	assert.Equal(t, "Jane", created["seller_name"])
	assert.Equal(t, "jane@x.com", created["seller_email"])
}

func TestProducts_CreateWithImage(t *testing.T) {
	srv := newTestServer(t)
	account := signUpUser(t, srv, "jane@x.com", "secret123")

	body, ct := productBody(t, map[string]string{
		"name": "Eggs", "price": "5", "description": "d",
	}, "product-image.jpg", []byte("not really a jpeg"))
	resp, data := doMultipart(t, http.MethodPost, srv.URL+"/api/products/", account["idToken"], body, ct)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", data)

	var created map[string]any
	decodeInto(t, data, &created)
	imageURL, _ := created["image_url"].(string)
	require.NotEmpty(t, imageURL)

	// The stored file is served back under /media/.
	resp, data = doJSON(t, http.MethodGet, srv.URL+imageURL, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "not really a jpeg", string(data))
}

func TestProducts_GetAndNotFound(t *testing.T) {
	srv := newTestServer(t)
	account := signUpUser(t, srv, "jane@x.com", "secret123")
	created := createProduct(t, srv, account["idToken"], map[string]string{
		"name": "Eggs", "price": "5", "description": "d",
	})

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/products/"+created["id"].(string)+"/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	decodeInto(t, data, &got)
	assert.Equal(t, "Eggs", got["name"])

	resp, data = doJSON(t, http.MethodGet, srv.URL+"/api/products/missing/", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(data), "Not found.")
}

func TestProducts_DeleteEnforcesOwnership(t *testing.T) {
	srv := newTestServer(t)
	owner := signUpUser(t, srv, "jane@x.com", "secret123")
	other := signUpUser(t, srv, "joe@x.com", "secret123")

	created := createProduct(t, srv, owner["idToken"], map[string]string{
		"name": "Eggs", "price": "5", "description": "d",
	})
	url := srv.URL + "/api/products/" + created["id"].(string) + "/"

	resp, data := doJSON(t, http.MethodDelete, url, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(data), "Authentication credentials were not provided.")

	resp, data = doJSON(t, http.MethodDelete, url, other["idToken"], nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(data), "You do not have permission to perform this action.")

	resp, _ = doJSON(t, http.MethodDelete, url, owner["idToken"], nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, url, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_UpdateKeepsImageWhenOmitted(t *testing.T) {
	srv := newTestServer(t)
	account := signUpUser(t, srv, "jane@x.com", "secret123")

	body, ct := productBody(t, map[string]string{
		"name": "Eggs", "price": "5", "description": "d",
	}, "pic.jpg", []byte("img"))
	resp, data := doMultipart(t, http.MethodPost, srv.URL+"/api/products/", account["idToken"], body, ct)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]any
	decodeInto(t, data, &created)
	require.NotEmpty(t, created["image_url"])

	body, ct = productBody(t, map[string]string{
		"name": "Eggs XL", "price": "6", "description": "d",
	}, "", nil)
	resp, data = doMultipart(t, http.MethodPut, srv.URL+"/api/products/"+created["id"].(string)+"/", account["idToken"], body, ct)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)

	var updated map[string]any
	decodeInto(t, data, &updated)
	assert.Equal(t, "Eggs XL", updated["name"])
	assert.Equal(t, created["image_url"], updated["image_url"])
}

func TestProducts_UpdateForbiddenForNonOwner(t *testing.T) {
	srv := newTestServer(t)
	owner := signUpUser(t, srv, "jane@x.com", "secret123")
	other := signUpUser(t, srv, "joe@x.com", "secret123")

	created := createProduct(t, srv, owner["idToken"], map[string]string{
		"name": "Eggs", "price": "5", "description": "d",
	})

	body, ct := productBody(t, map[string]string{
		"name": "Hijacked", "price": "1", "description": "d",
	}, "", nil)
	resp, _ := doMultipart(t, http.MethodPut, srv.URL+"/api/products/"+created["id"].(string)+"/", other["idToken"], body, ct)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
