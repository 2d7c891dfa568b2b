// Package session wraps the external identity provider: password sign-in and
// sign-up, account lookup, profile update and token refresh, plus an
// observable current-session state the views subscribe to.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// IdentityError carries the provider's machine-readable error code
// (e.g. EMAIL_EXISTS, INVALID_LOGIN_CREDENTIALS) next to the HTTP status.
type IdentityError struct {
	StatusCode int
	Code       string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("identity provider error %d: %s", e.StatusCode, e.Code)
}

// identityClient speaks the provider's REST protocol. Endpoints follow the
// accounts:<action> convention with the project API key as a query parameter.
type identityClient struct {
	endpoint string
	apiKey   string
	hc       *http.Client
}

func newIdentityClient(endpoint, apiKey string, timeout time.Duration) *identityClient {
	return &identityClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		hc:       &http.Client{Timeout: timeout},
	}
}

// accountInfo is the provider's account payload shape, shared by the
// sign-in/sign-up and update responses.
type accountInfo struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

func (c *identityClient) post(ctx context.Context, action string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/v1/accounts:%s?key=%s", c.endpoint, action, c.apiKey)
	return c.postURL(ctx, url, body, out)
}

func (c *identityClient) postURL(ctx context.Context, url string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		code := strings.TrimSpace(string(data))
		if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
			code = envelope.Error.Message
		}
		return &IdentityError{StatusCode: resp.StatusCode, Code: code}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *identityClient) signUp(ctx context.Context, email, password string) (*accountInfo, error) {
	var info accountInfo
	err := c.post(ctx, "signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *identityClient) signInWithPassword(ctx context.Context, email, password string) (*accountInfo, error) {
	var info accountInfo
	err := c.post(ctx, "signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// authorizeURL is the browser page that starts a federated sign-in with the
// given provider. The page displays a one-time code the user brings back to
// the terminal.
func (c *identityClient) authorizeURL(providerID string) string {
	return fmt.Sprintf("%s/v1/authorize?provider_id=%s&key=%s", c.endpoint, url.QueryEscape(providerID), c.apiKey)
}

// signInWithIdp exchanges the out-of-band code from a federated provider for
// a session. The provider creates the account on first sign-in.
func (c *identityClient) signInWithIdp(ctx context.Context, providerID, code string) (*accountInfo, error) {
	var info accountInfo
	err := c.post(ctx, "signInWithIdp", map[string]any{
		"postBody":          fmt.Sprintf("code=%s&providerId=%s", url.QueryEscape(code), providerID),
		"requestUri":        "http://localhost",
		"returnSecureToken": true,
	}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// update changes the display name and/or photo URL of the account the given
// token belongs to.
func (c *identityClient) update(ctx context.Context, idToken, displayName, photoURL string) (*accountInfo, error) {
	var info accountInfo
	err := c.post(ctx, "update", map[string]any{
		"idToken":     idToken,
		"displayName": displayName,
		"photoUrl":    photoURL,
	}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// refresh exchanges a refresh token for a fresh ID token.
func (c *identityClient) refresh(ctx context.Context, refreshToken string) (*accountInfo, error) {
	body, err := json.Marshal(map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v1/token?key=%s", c.endpoint, c.apiKey)

	var raw struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
	}
	if err := c.postURL(ctx, url, body, &raw); err != nil {
		return nil, err
	}
	return &accountInfo{
		IDToken:      raw.IDToken,
		RefreshToken: raw.RefreshToken,
		ExpiresIn:    raw.ExpiresIn,
	}, nil
}
