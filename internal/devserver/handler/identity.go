package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/farmstand/internal/common"
	"github.com/dmitrijs2005/farmstand/internal/devserver/auth"
	"github.com/dmitrijs2005/farmstand/internal/devserver/models"
	"github.com/dmitrijs2005/farmstand/internal/devserver/repositories/users"
	"github.com/dmitrijs2005/farmstand/internal/logging"
)

// IdentityHandler implements the subset of the identity provider's REST
// protocol the client uses: password sign-up/sign-in, account lookup, profile
// update, and refresh-token exchange. Error codes mirror the provider's
// (EMAIL_EXISTS, INVALID_LOGIN_CREDENTIALS, ...) so client behavior matches
// production.
type IdentityHandler struct {
	repo     users.Repository
	secret   []byte
	tokenTTL time.Duration
	log      logging.Logger

	mu    sync.Mutex
	codes map[string]idpCode
}

func NewIdentityHandler(repo users.Repository, secret []byte, tokenTTL time.Duration, log logging.Logger) *IdentityHandler {
	return &IdentityHandler{repo: repo, secret: secret, tokenTTL: tokenTTL, log: log, codes: make(map[string]idpCode)}
}

// idpCode is a pending federated sign-in: a one-time code bound to the email
// the consent page was opened for.
type idpCode struct {
	email     string
	expiresAt time.Time
}

const idpCodeTTL = 5 * time.Minute

type identityAccount struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName,omitempty"`
	PhotoURL     string `json:"photoUrl,omitempty"`
	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    string `json:"expiresIn,omitempty"`
}

func (h *IdentityHandler) issueTokens(w http.ResponseWriter, r *http.Request, u *models.User) (identityAccount, bool) {
	idToken, err := auth.GenerateToken(u.ID, h.secret, h.tokenTTL)
	if err != nil {
		h.log.Error(r.Context(), "minting token failed", "err", err)
		writeIdentityError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return identityAccount{}, false
	}

	refresh := uuid.NewString()
	if err := h.repo.SetRefreshToken(r.Context(), u.ID, refresh); err != nil {
		h.log.Error(r.Context(), "storing refresh token failed", "err", err)
		writeIdentityError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return identityAccount{}, false
	}

	return identityAccount{
		LocalID:      u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PhotoURL:     u.PhotoURL,
		IDToken:      idToken,
		RefreshToken: refresh,
		ExpiresIn:    fmt.Sprintf("%d", int(h.tokenTTL.Seconds())),
	}, true
}

type credentialsPayload struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// SignUp creates an account.
// POST /identity/v1/accounts:signUp
func (h *IdentityHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_PAYLOAD")
		return
	}
	if payload.Email == "" || !strings.Contains(payload.Email, "@") {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_EMAIL")
		return
	}
	if len(payload.Password) < 6 {
		writeIdentityError(w, http.StatusBadRequest, "WEAK_PASSWORD : Password should be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		writeIdentityError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}

	u := models.User{
		ID:           uuid.NewString(),
		Email:        payload.Email,
		PasswordHash: hash,
	}
	if err := h.repo.Create(r.Context(), &u); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeIdentityError(w, http.StatusBadRequest, "EMAIL_EXISTS")
			return
		}
		h.log.Error(r.Context(), "creating account failed", "err", err)
		writeIdentityError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}

	account, ok := h.issueTokens(w, r, &u)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// SignIn verifies password credentials.
// POST /identity/v1/accounts:signInWithPassword
func (h *IdentityHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_PAYLOAD")
		return
	}

	u, err := h.repo.GetByEmail(r.Context(), payload.Email)
	if err != nil || !auth.CheckPassword(u.PasswordHash, payload.Password) {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_LOGIN_CREDENTIALS")
		return
	}

	account, ok := h.issueTokens(w, r, u)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Authorize stands in for the federated provider's consent page. There is no
// real Google behind the devserver, so the page takes the email as a query
// parameter and issues a one-time code for it.
// GET /identity/v1/authorize
func (h *IdentityHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" || !strings.Contains(email, "@") {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_EMAIL")
		return
	}

	code := uuid.NewString()
	h.mu.Lock()
	h.codes[code] = idpCode{email: email, expiresAt: time.Now().Add(idpCodeTTL)}
	h.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Sign-in code: %s\n", code)
}

// takeCode consumes a pending code. Codes are single-use.
func (h *IdentityHandler) takeCode(code string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.codes[code]
	if !ok {
		return "", false
	}
	delete(h.codes, code)
	if time.Now().After(c.expiresAt) {
		return "", false
	}
	return c.email, true
}

type idpPayload struct {
	PostBody          string `json:"postBody"`
	RequestURI        string `json:"requestUri"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// SignInWithIdp exchanges the one-time code from the authorize step for a
// session, creating the account on first sign-in. Federated accounts carry no
// usable password hash, so they cannot fall back to password sign-in.
// POST /identity/v1/accounts:signInWithIdp
func (h *IdentityHandler) SignInWithIdp(w http.ResponseWriter, r *http.Request) {
	var payload idpPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_PAYLOAD")
		return
	}
	values, err := url.ParseQuery(payload.PostBody)
	if err != nil || values.Get("code") == "" || values.Get("providerId") == "" {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_IDP_RESPONSE")
		return
	}

	email, ok := h.takeCode(values.Get("code"))
	if !ok {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_IDP_RESPONSE")
		return
	}

	u, err := h.repo.GetByEmail(r.Context(), email)
	if errors.Is(err, common.ErrorNotFound) {
		u = &models.User{ID: uuid.NewString(), Email: email, PasswordHash: "!"}
		if err := h.repo.Create(r.Context(), u); err != nil {
			h.log.Error(r.Context(), "creating federated account failed", "err", err)
			writeIdentityError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
			return
		}
	} else if err != nil {
		writeIdentityError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}

	account, ok := h.issueTokens(w, r, u)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, account)
}

type updatePayload struct {
	IDToken     string `json:"idToken"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

// Update changes display name and photo URL of the token's account.
// POST /identity/v1/accounts:update
func (h *IdentityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_PAYLOAD")
		return
	}

	uid, err := auth.GetUserIDFromToken(payload.IDToken, h.secret)
	if err != nil {
		writeIdentityError(w, http.StatusUnauthorized, "INVALID_ID_TOKEN")
		return
	}

	if err := h.repo.UpdateIdentity(r.Context(), uid, payload.DisplayName, payload.PhotoURL); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "USER_NOT_FOUND")
		return
	}

	u, err := h.repo.GetByID(r.Context(), uid)
	if err != nil {
		writeIdentityError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, identityAccount{
		LocalID:     u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	})
}

type lookupPayload struct {
	IDToken string `json:"idToken"`
}

// Lookup resolves a token to its account record.
// POST /identity/v1/accounts:lookup
func (h *IdentityHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var payload lookupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_PAYLOAD")
		return
	}

	uid, err := auth.GetUserIDFromToken(payload.IDToken, h.secret)
	if err != nil {
		writeIdentityError(w, http.StatusUnauthorized, "INVALID_ID_TOKEN")
		return
	}

	u, err := h.repo.GetByID(r.Context(), uid)
	if err != nil {
		writeIdentityError(w, http.StatusNotFound, "USER_NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": []identityAccount{{
			LocalID:     u.ID,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			PhotoURL:    u.PhotoURL,
		}},
	})
}

type refreshPayload struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
}

// Token exchanges a refresh token for a fresh ID token.
// POST /identity/v1/token
func (h *IdentityHandler) Token(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_PAYLOAD")
		return
	}
	if payload.GrantType != "refresh_token" || payload.RefreshToken == "" {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_GRANT_TYPE")
		return
	}

	u, err := h.repo.GetByRefreshToken(r.Context(), payload.RefreshToken)
	if err != nil {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_REFRESH_TOKEN")
		return
	}

	idToken, err := auth.GenerateToken(u.ID, h.secret, h.tokenTTL)
	if err != nil {
		writeIdentityError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"user_id":       u.ID,
		"id_token":      idToken,
		"refresh_token": payload.RefreshToken,
		"expires_in":    fmt.Sprintf("%d", int(h.tokenTTL.Seconds())),
	})
}
