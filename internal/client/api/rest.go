package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/farmstand/internal/client/models"
	"github.com/dmitrijs2005/farmstand/internal/common"
)

// RESTClient talks to the storefront backend over HTTP.
type RESTClient struct {
	baseURL string
	hc      *http.Client
	tokens  TokenSource
}

// NewRESTClient builds a client for the given base URL. tokens may be nil for
// a purely anonymous client. A zero timeout leaves the transport default in
// place.
func NewRESTClient(baseURL string, tokens TokenSource, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

var _ Client = (*RESTClient)(nil)

// do builds and performs one request. The token source is consulted
// immediately before the request; an absent session sends no Authorization
// header. Non-2xx responses become *StatusError with the raw body text,
// transport failures wrap ErrUnavailable.
func (c *RESTClient) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.tokens != nil {
		token, err := c.tokens.IDToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("minting id token: %w", err)
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

func (c *RESTClient) getJSON(ctx context.Context, endpoint string, out any) error {
	data, err := c.do(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// ListProducts fetches the full collection. The backend may return either a
// bare array or a pagination envelope with a "results" field; both shapes are
// unwrapped here so callers always see a slice.
func (c *RESTClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	data, err := c.do(ctx, http.MethodGet, "/products/", nil, "")
	if err != nil {
		return nil, err
	}
	return UnwrapProductList(data)
}

// UnwrapProductList decodes a product collection response, accepting both a
// bare JSON array and a {"results": [...]} pagination envelope.
func UnwrapProductList(data []byte) ([]models.Product, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var products []models.Product
		if err := json.Unmarshal(data, &products); err != nil {
			return nil, fmt.Errorf("decoding product list: %w", err)
		}
		return products, nil
	}
	var envelope struct {
		Results []models.Product `json:"results"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding product list envelope: %w", err)
	}
	return envelope.Results, nil
}

func (c *RESTClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := c.getJSON(ctx, "/products/"+id+"/", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct submits the form as multipart form data. It is never sent as
// JSON: the binary image has to travel alongside the text fields.
func (c *RESTClient) CreateProduct(ctx context.Context, form ProductForm) (*models.Product, error) {
	return c.submitProduct(ctx, http.MethodPost, "/products/", form)
}

// UpdateProduct uses the same encoding rule as CreateProduct.
func (c *RESTClient) UpdateProduct(ctx context.Context, id string, form ProductForm) (*models.Product, error) {
	return c.submitProduct(ctx, http.MethodPut, "/products/"+id+"/", form)
}

func (c *RESTClient) submitProduct(ctx context.Context, method, endpoint string, form ProductForm) (*models.Product, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":        form.Name,
		"price":       form.Price,
		"description": form.Description,
	}
	for _, name := range []string{"name", "price", "description"} {
		if err := mw.WriteField(name, fields[name]); err != nil {
			return nil, fmt.Errorf("writing %s field: %w", name, err)
		}
	}

	if form.Image != nil {
		r, filename, err := form.Image.Open()
		if err != nil {
			return nil, fmt.Errorf("opening image: %w", err)
		}
		part, err := mw.CreateFormFile("image", filename)
		if err != nil {
			r.Close()
			return nil, err
		}
		if _, err := io.Copy(part, r); err != nil {
			r.Close()
			return nil, fmt.Errorf("encoding image: %w", err)
		}
		r.Close()
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	data, err := c.do(ctx, method, endpoint, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding product: %w", err)
	}
	return &p, nil
}

// DeleteProduct succeeds on any 2xx status; no response body is expected.
func (c *RESTClient) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/products/"+id+"/", nil, "")
	return err
}

func (c *RESTClient) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := c.getJSON(ctx, "/users/"+id+"/", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *RESTClient) GetCurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.getJSON(ctx, "/users/me/", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *RESTClient) UpdateUserProfile(ctx context.Context, fields ProfileFields) (*models.User, error) {
	return c.submitProfile(ctx, http.MethodPut, "/users/me/", fields)
}

func (c *RESTClient) CreateUserProfile(ctx context.Context, fields ProfileFields) (*models.User, error) {
	return c.submitProfile(ctx, http.MethodPost, "/users/", fields)
}

func (c *RESTClient) submitProfile(ctx context.Context, method, endpoint string, fields ProfileFields) (*models.User, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, method, endpoint, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	return &u, nil
}
