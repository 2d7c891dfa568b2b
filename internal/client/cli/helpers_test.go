package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dmitrijs2005/farmstand/internal/client/api"
	"github.com/dmitrijs2005/farmstand/internal/client/catalog"
	"github.com/dmitrijs2005/farmstand/internal/client/models"
	"github.com/dmitrijs2005/farmstand/internal/client/session"
	"github.com/dmitrijs2005/farmstand/internal/logging"
)

// captureOutput swaps the output seam for the duration of the test and
// returns the collected lines.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		lines = append(lines, strings.TrimRight(fmt.Sprintln(args...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

// stubInputs scripts the text and password seams.
func stubInputs(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origText, origPass := getSimpleText, getPassword
	ti, pi := 0, 0
	getSimpleText = func(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
		if ti >= len(texts) {
			return "", io.EOF
		}
		s := texts[ti]
		ti++
		return s, nil
	}
	getPassword = func(prompt string, w io.Writer) (string, error) {
		if pi >= len(passwords) {
			return "", io.EOF
		}
		s := passwords[pi]
		pi++
		return s, nil
	}
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPass })
}

type fakeSession struct {
	current *session.Session

	signInErr       error
	signUpErr       error
	updateErr       error
	providerErr     error
	signIns         int
	signUps         int
	signOuts        int
	updates         int
	providerSignIns int
	lastName        string
	lastPhoto       string
	lastEmail       string
	lastProvider    string
	lastCode        string
	subscriber      func(*session.Session)
}

func (f *fakeSession) Current() *session.Session { return f.current }

func (f *fakeSession) SignIn(ctx context.Context, email, password string) error {
	f.signIns++
	f.lastEmail = email
	if f.signInErr != nil {
		return f.signInErr
	}
	f.current = &session.Session{UID: "u1", Email: email}
	return nil
}

func (f *fakeSession) SignUp(ctx context.Context, email, password string) error {
	f.signUps++
	f.lastEmail = email
	if f.signUpErr != nil {
		return f.signUpErr
	}
	f.current = &session.Session{UID: "u1", Email: email}
	return nil
}

func (f *fakeSession) SignInWithProvider(ctx context.Context, providerID, code string) error {
	f.providerSignIns++
	f.lastProvider, f.lastCode = providerID, code
	if f.providerErr != nil {
		return f.providerErr
	}
	f.current = &session.Session{UID: "u1", Email: "jane@x.com"}
	return nil
}

func (f *fakeSession) AuthorizeURL(providerID string) string {
	return "http://idp.test/v1/authorize?provider_id=" + providerID
}

func (f *fakeSession) SignOut() {
	f.signOuts++
	f.current = nil
	if f.subscriber != nil {
		f.subscriber(nil)
	}
}

func (f *fakeSession) UpdateProfile(ctx context.Context, displayName, photoURL string) error {
	f.updates++
	f.lastName, f.lastPhoto = displayName, photoURL
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.current != nil {
		f.current.DisplayName = displayName
		f.current.PhotoURL = photoURL
	}
	return nil
}

func (f *fakeSession) Subscribe(fn func(*session.Session)) func() {
	f.subscriber = fn
	fn(f.current)
	return func() { f.subscriber = nil }
}

// fakeStore is an in-memory localdata.Repository.
type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string]string{}} }

func (f *fakeStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeStore) Set(ctx context.Context, key, value string) error {
	f.data[key] = value
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeStore) Take(ctx context.Context, key string) (string, bool, error) {
	v, ok := f.data[key]
	delete(f.data, key)
	return v, ok, nil
}

func (f *fakeStore) Clear(ctx context.Context) error {
	f.data = map[string]string{}
	return nil
}

type fakeClient struct {
	api.Client

	products   []models.Product
	listErr    error
	created    *models.Product
	createErr  error
	deleteErr  error
	getErr     error
	product    *models.Product
	user       *models.User
	getUserErr error

	lookedUpIDs []string
}

func (f *fakeClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	return f.products, f.listErr
}

func (f *fakeClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.product, nil
}

func (f *fakeClient) CreateProduct(ctx context.Context, form api.ProductForm) (*models.Product, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeClient) DeleteProduct(ctx context.Context, id string) error {
	return f.deleteErr
}

func (f *fakeClient) GetUser(ctx context.Context, id string) (*models.User, error) {
	f.lookedUpIDs = append(f.lookedUpIDs, id)
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	return f.user, nil
}

func readerOf(input string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(input))
}

// newTestApp wires an App from fakes. input feeds a.reader for views that
// read lines directly.
func newTestApp(sess *fakeSession, client *fakeClient, store *fakeStore, input string) *App {
	return &App{
		log:         logging.NewDefault(slog.LevelError),
		session:     sess,
		api:         client,
		store:       store,
		catalog:     catalog.NewRepository(client),
		shopCatalog: catalog.NewRepository(client),
		reader:      readerOf(input),
	}
}
