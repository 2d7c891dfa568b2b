package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_MeRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/users/me/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(data), "Authentication credentials were not provided.")
}

func TestUsers_MeReturnsOwnRecord(t *testing.T) {
	srv := newTestServer(t)
	account := signUpUser(t, srv, "jane@x.com", "secret123")

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/users/me/", account["idToken"], nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)

	var me map[string]any
	decodeInto(t, data, &me)
	assert.Equal(t, account["localId"], me["id"])
	assert.Equal(t, "jane@x.com", me["email"])
}

func TestUsers_UpdateMe(t *testing.T) {
	srv := newTestServer(t)
	account := signUpUser(t, srv, "jane@x.com", "secret123")

	resp, data := doJSON(t, http.MethodPut, srv.URL+"/api/users/me/", account["idToken"], map[string]string{
		"name": "Jane", "phone": "+100", "location": "Valley", "bio": "Grows tomatoes",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)

	var updated map[string]any
	decodeInto(t, data, &updated)
	assert.Equal(t, "Jane", updated["name"])
	assert.Equal(t, "+100", updated["phone"])
	assert.Equal(t, "Valley", updated["location"])
	assert.Equal(t, "Grows tomatoes", updated["bio"])
}

// The detail view looks sellers up anonymously; the record must be public.
func TestUsers_GetIsPublic(t *testing.T) {
	srv := newTestServer(t)
	account := signUpUser(t, srv, "jane@x.com", "secret123")

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/users/"+account["localId"]+"/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var u map[string]any
	decodeInto(t, data, &u)
	assert.Equal(t, "jane@x.com", u["email"])
}

func TestUsers_GetNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/users/ghost/", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(data), "Not found.")
}

func TestUsers_CreateProfileRecord(t *testing.T) {
	srv := newTestServer(t)

	resp, data := doJSON(t, http.MethodPost, srv.URL+"/api/users/", "", map[string]string{
		"name": "Jane", "email": "jane@x.com", "phone": "+100",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", data)

	var created map[string]any
	decodeInto(t, data, &created)
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "Jane", created["name"])

	// Profile-only records cannot sign in.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/identity/v1/accounts:signInWithPassword", "", map[string]any{
		"email": "jane@x.com", "password": "anything",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsers_CreateRequiresEmail(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/users/", "", map[string]string{"name": "Jane"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsers_CreateDuplicateConflict(t *testing.T) {
	srv := newTestServer(t)
	signUpUser(t, srv, "jane@x.com", "secret123")

	resp, data := doJSON(t, http.MethodPost, srv.URL+"/api/users/", "", map[string]string{
		"name": "Jane", "email": "jane@x.com",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(data), "user already exists")
}

// An invalid bearer token degrades to anonymous rather than failing the
// request outright.
func TestAuthenticate_InvalidTokenIsAnonymous(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/users/me/", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/products/", "garbage-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
