package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/farmstand/internal/devserver/media"
	"github.com/dmitrijs2005/farmstand/internal/devserver/repositories/products"
	"github.com/dmitrijs2005/farmstand/internal/devserver/repositories/users"
	"github.com/dmitrijs2005/farmstand/internal/logging"

	_ "modernc.org/sqlite"
)

var testSecret = []byte("test-secret")

const testSchema = `
CREATE TABLE users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    display_name TEXT NOT NULL DEFAULT '',
    photo_url TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT '',
    bio TEXT NOT NULL DEFAULT '',
    refresh_token TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE products (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    price TEXT NOT NULL,
    description TEXT NOT NULL,
    image_path TEXT NOT NULL DEFAULT '',
    thumb_path TEXT NOT NULL DEFAULT '',
    seller TEXT NOT NULL DEFAULT '',
    seller_name TEXT NOT NULL DEFAULT '',
    seller_email TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

var testDBCounter int

// newTestServer builds the full route tree over a fresh in-memory database
// and a throwaway media directory.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:handler_test_%d?mode=memory&cache=shared", testDBCounter)
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	store, err := media.NewStore(t.TempDir())
	require.NoError(t, err)

	router := NewRouter(RouterDeps{
		Products: products.NewSQLiteRepository(db),
		Users:    users.NewSQLiteRepository(db),
		Media:    store,
		Secret:   testSecret,
		TokenTTL: time.Hour,
		Log:      logging.NewDefault(slog.LevelError),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeInto(t *testing.T, data []byte, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, out), "body: %s", data)
}

// signUpUser registers an account via the identity endpoint and returns its
// account payload (localId, idToken, refreshToken).
func signUpUser(t *testing.T, srv *httptest.Server, email, password string) map[string]string {
	t.Helper()

	resp, data := doJSON(t, http.MethodPost, srv.URL+"/identity/v1/accounts:signUp", "", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)

	var account map[string]string
	decodeInto(t, data, &account)
	return account
}

// productBody builds a multipart create/update payload.
func productBody(t *testing.T, fields map[string]string, imageName string, image []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageName != "" {
		part, err := mw.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doMultipart(t *testing.T, method, url, token string, body io.Reader, contentType string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createProduct(t *testing.T, srv *httptest.Server, token string, fields map[string]string) map[string]any {
	t.Helper()

	body, ct := productBody(t, fields, "", nil)
	resp, data := doMultipart(t, http.MethodPost, srv.URL+"/api/products/", token, body, ct)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", data)

	var created map[string]any
	decodeInto(t, data, &created)
	return created
}
