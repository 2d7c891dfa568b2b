package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/farmstand/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Session is the currently authenticated identity. Supplementary attributes
// (phone, location, bio) are not part of the session; the profile view merges
// them in from local storage at observation time.
type Session struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// expirySlack is how close to expiry a cached token may be before it is
// refreshed instead of reused.
const expirySlack = 30 * time.Second

// Provider owns the session state. Views read it via Current and react to
// sign-in/sign-out through Subscribe; the API client pulls tokens through
// IDToken.
type Provider struct {
	idc *identityClient
	log logging.Logger

	mu           sync.Mutex
	current      *Session
	idToken      string
	tokenExpiry  time.Time
	refreshToken string
	subscribers  map[int]func(*Session)
	nextSub      int
}

// NewProvider builds a provider against the given identity endpoint.
func NewProvider(endpoint, apiKey string, timeout time.Duration, log logging.Logger) *Provider {
	return &Provider{
		idc:         newIdentityClient(endpoint, apiKey, timeout),
		log:         log,
		subscribers: make(map[int]func(*Session)),
	}
}

// Current returns a copy of the active session, or nil when signed out.
func (p *Provider) Current() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	s := *p.current
	return &s
}

// Subscribe registers fn to be called on every session change (sign-in,
// profile update, sign-out). The returned function unsubscribes. fn is also
// invoked immediately with the current state so subscribers do not need a
// separate initial read.
func (p *Provider) Subscribe(fn func(*Session)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subscribers[id] = fn
	cur := p.current
	p.mu.Unlock()

	fn(copySession(cur))

	return func() {
		p.mu.Lock()
		delete(p.subscribers, id)
		p.mu.Unlock()
	}
}

func copySession(s *Session) *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// snapshotLocked copies the subscriber list and current session so callbacks
// can run after the mutex is released. Subscribers may call back into the
// provider (Current, IDToken) without deadlocking.
func (p *Provider) snapshotLocked() ([]func(*Session), *Session) {
	subs := make([]func(*Session), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	return subs, p.current
}

func notify(subs []func(*Session), cur *Session) {
	for _, fn := range subs {
		fn(copySession(cur))
	}
}

func (p *Provider) adopt(info *accountInfo) {
	p.mu.Lock()
	p.current = &Session{
		UID:         info.LocalID,
		Email:       info.Email,
		DisplayName: info.DisplayName,
		PhotoURL:    info.PhotoURL,
	}
	p.storeTokenLocked(info)
	subs, cur := p.snapshotLocked()
	p.mu.Unlock()

	notify(subs, cur)
}

func (p *Provider) storeTokenLocked(info *accountInfo) {
	p.idToken = info.IDToken
	if info.RefreshToken != "" {
		p.refreshToken = info.RefreshToken
	}
	p.tokenExpiry = tokenExpiry(info.IDToken, info.ExpiresIn)
}

// tokenExpiry reads the exp claim from the token without verifying the
// signature (verification is the backend's job), falling back to the
// provider-reported expires_in seconds.
func tokenExpiry(idToken, expiresIn string) time.Time {
	if idToken != "" {
		var claims jwt.RegisteredClaims
		parser := jwt.NewParser()
		if _, _, err := parser.ParseUnverified(idToken, &claims); err == nil && claims.ExpiresAt != nil {
			return claims.ExpiresAt.Time
		}
	}
	if secs, err := strconv.Atoi(expiresIn); err == nil && secs > 0 {
		return time.Now().Add(time.Duration(secs) * time.Second)
	}
	return time.Time{}
}

// SignIn authenticates with email and password. On success the session
// becomes current and subscribers are notified.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	info, err := p.idc.signInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}
	p.adopt(info)
	return nil
}

// GoogleProviderID identifies Google in federated sign-in calls.
const GoogleProviderID = "google.com"

// AuthorizeURL returns the browser page that starts a federated sign-in with
// the given provider.
func (p *Provider) AuthorizeURL(providerID string) string {
	return p.idc.authorizeURL(providerID)
}

// SignInWithProvider completes a federated sign-in with the one-time code the
// provider's browser page displayed. The terminal stands in for the original
// popup: the consent page runs in the browser and the code travels back by
// hand.
func (p *Provider) SignInWithProvider(ctx context.Context, providerID, code string) error {
	info, err := p.idc.signInWithIdp(ctx, providerID, code)
	if err != nil {
		return err
	}
	p.adopt(info)
	return nil
}

// SignUp creates a new account and signs it in.
func (p *Provider) SignUp(ctx context.Context, email, password string) error {
	info, err := p.idc.signUp(ctx, email, password)
	if err != nil {
		return err
	}
	p.adopt(info)
	return nil
}

// SignOut resets the session to absent and notifies subscribers.
func (p *Provider) SignOut() {
	p.mu.Lock()
	p.current = nil
	p.idToken = ""
	p.refreshToken = ""
	p.tokenExpiry = time.Time{}
	subs, cur := p.snapshotLocked()
	p.mu.Unlock()

	notify(subs, cur)
}

// UpdateProfile changes the display name and photo URL on the provider and
// updates the local session state.
func (p *Provider) UpdateProfile(ctx context.Context, displayName, photoURL string) error {
	p.mu.Lock()
	token := p.idToken
	p.mu.Unlock()
	if token == "" {
		return &IdentityError{StatusCode: 401, Code: "NOT_SIGNED_IN"}
	}

	if _, err := p.idc.update(ctx, token, displayName, photoURL); err != nil {
		return err
	}

	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return nil
	}
	p.current.DisplayName = displayName
	p.current.PhotoURL = photoURL
	subs, cur := p.snapshotLocked()
	p.mu.Unlock()

	notify(subs, cur)
	return nil
}

// IDToken returns a token for the current session, refreshing when the
// cached one is within expirySlack of expiring. With no active session it
// returns "" and no error: the call proceeds unauthenticated and the backend
// decides.
func (p *Provider) IDToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return "", nil
	}
	token := p.idToken
	fresh := token != "" && (p.tokenExpiry.IsZero() || time.Until(p.tokenExpiry) > expirySlack)
	refresh := p.refreshToken
	p.mu.Unlock()

	if fresh {
		return token, nil
	}
	if refresh == "" {
		// No way to mint a new token; hand out what we have.
		return token, nil
	}

	info, err := p.idc.refresh(ctx, refresh)
	if err != nil {
		p.log.Warn(ctx, "token refresh failed", "err", err)
		return token, nil
	}

	p.mu.Lock()
	p.storeTokenLocked(info)
	token = p.idToken
	p.mu.Unlock()
	return token, nil
}
