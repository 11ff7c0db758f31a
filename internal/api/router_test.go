package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/storefront/microservices/internal/core/domain"
	"github.com/storefront/microservices/internal/core/ports"
	"github.com/storefront/microservices/internal/infrastructure/security"
)

type fakeProducts struct {
	created int
}

func (f *fakeProducts) Create(_ context.Context, input *ports.ProductInput, _ string) (*domain.Product, error) {
	if input == nil {
		return nil, domain.ErrProductRequired
	}
	f.created++
	return &domain.Product{ID: "p1", Name: input.Name, Price: *input.Price, Available: true}, nil
}

func (f *fakeProducts) Get(_ context.Context, id string) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (f *fakeProducts) Update(_ context.Context, id string, _ *ports.ProductInput) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (f *fakeProducts) Delete(_ context.Context, id string) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (f *fakeProducts) List(_ context.Context, _ ports.ListProductsInput) (*ports.ProductPage, error) {
	return &ports.ProductPage{Data: []*domain.Product{}, Count: 0}, nil
}

type fakeUsers struct{}

func (fakeUsers) CreateUser(_ context.Context, input *ports.CreateUserInput) (*domain.User, error) {
	if input == nil {
		return nil, domain.ErrUserRequired
	}
	return &domain.User{ID: "u1", Username: input.Username}, nil
}

func (fakeUsers) Authenticate(_ context.Context, creds ports.Credentials) (string, error) {
	if creds.Password != "good" {
		return "", domain.ErrAuthentication
	}
	return "token", nil
}

func newTokens(t *testing.T) *security.TokenService {
	t.Helper()
	tokens, err := security.NewTokenService("router-secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return tokens
}

func testDeps(tokens *security.TokenService) Deps {
	return Deps{
		Logger:         zerolog.Nop(),
		Verifier:       tokens,
		RequestTimeout: time.Second,
		Registry:       prometheus.NewRegistry(),
	}
}

func bearer(t *testing.T, tokens *security.TokenService, perms ...domain.Permission) string {
	t.Helper()
	token, err := tokens.Issue(domain.Claims{Username: "tester", Permissions: perms})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + token
}

func do(e *echo.Echo, method, path, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.Error {
	t.Helper()
	var body domain.Error
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected {code,message} body, got %q", rec.Body.String())
	}
	return body
}

func TestProductRouter_Authorization(t *testing.T) {
	tokens := newTokens(t)
	products := &fakeProducts{}
	e := NewProductRouter(products, testDeps(tokens))
	body := `{"name":"Chair","price":10}`

	rec := do(e, http.MethodPost, "/api/v1/product/", "", body)
	if rec.Code != http.StatusUnauthorized || rec.Body.Len() != 0 {
		t.Fatalf("no token: expected bare 401, got %d %q", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/api/v1/product/", bearer(t, tokens), body)
	if rec.Code != http.StatusForbidden || rec.Body.Len() != 0 {
		t.Fatalf("no permission: expected bare 403, got %d %q", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodDelete, "/api/v1/product/p1", bearer(t, tokens, domain.PermissionAdmin), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin without MANAGE_PRODUCTS: expected 403, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/api/v1/product/", bearer(t, tokens, domain.PermissionManageProducts), body)
	if rec.Code != http.StatusCreated || products.created != 1 {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/api/v1/product", bearer(t, tokens, domain.PermissionManageProducts), body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("no trailing slash: expected 201, got %d", rec.Code)
	}
}

func TestProductRouter_PublicReads(t *testing.T) {
	e := NewProductRouter(&fakeProducts{}, testDeps(newTokens(t)))

	rec := do(e, http.MethodGet, "/api/v1/product/?q=x&skip=0&limit=20", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/api/v1/product/abc", "Bearer garbage", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get: expected 404, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != 2003 || body.Message != "the product not found" {
		t.Fatalf("unexpected error body %+v", body)
	}
}

func TestProductRouter_ValidationErrors(t *testing.T) {
	tokens := newTokens(t)
	e := NewProductRouter(&fakeProducts{}, testDeps(tokens))
	auth := bearer(t, tokens, domain.PermissionManageProducts)

	rec := do(e, http.MethodPost, "/api/v1/product/", auth, "")
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != 2000 {
		t.Fatalf("missing body: got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/api/v1/product/", auth, `{"name":`)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != 0 {
		t.Fatalf("malformed body: got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPut, "/api/v1/product/missing", auth, `{"name":"x","price":1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update missing: expected 404, got %d", rec.Code)
	}
}

func TestUserRouter(t *testing.T) {
	tokens := newTokens(t)
	e := NewUserRouter(fakeUsers{}, testDeps(tokens))

	rec := do(e, http.MethodPost, "/api/v1/user/", "", `{"username":"a","password":"b"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("create without token: expected 401, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/api/v1/user/", bearer(t, tokens, domain.PermissionManageProducts), `{"username":"a","password":"b"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("create without ADMIN: expected 403, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/api/v1/user/", bearer(t, tokens, domain.PermissionAdmin), `{"username":"a","password":"b"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/api/v1/user/auth", "", `{"username":"a","password":"bad"}`)
	if rec.Code != http.StatusUnauthorized || decodeError(t, rec).Code != 1003 {
		t.Fatalf("auth failure: got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/api/v1/user/auth", "", `{"username":"a","password":"good"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"token":"token"`) {
		t.Fatalf("auth success: got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Tooling(t *testing.T) {
	e := NewUserRouter(fakeUsers{}, testDeps(newTokens(t)))

	if rec := do(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}

	_ = do(e, http.MethodGet, "/health", "", "")
	rec := do(e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "user_service_requests_total") {
		t.Fatalf("metrics: got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/nowhere", "", "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Code != 0 {
		t.Fatalf("unknown route: got %d %s", rec.Code, rec.Body.String())
	}
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/boom", func(c echo.Context) error { return errors.New("database exploded") })

	rec := do(e, http.MethodGet, "/boom", "", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %+v", body)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[*domain.Error]int{
		domain.ErrUserRequired:      http.StatusBadRequest,
		domain.ErrUsernameEmpty:     http.StatusBadRequest,
		domain.ErrPasswordEmpty:     http.StatusBadRequest,
		domain.ErrAuthentication:    http.StatusUnauthorized,
		domain.ErrDuplicateUsername: http.StatusConflict,
		domain.ErrProductRequired:   http.StatusBadRequest,
		domain.ErrNameRequired:      http.StatusBadRequest,
		domain.ErrPriceRequired:     http.StatusBadRequest,
		domain.ErrProductNotFound:   http.StatusNotFound,
		domain.ErrCreateInProgress:  http.StatusConflict,
	}
	for err, want := range cases {
		if got := StatusFor(err); got != want {
			t.Errorf("%s: expected %d, got %d", err.Message, want, got)
		}
	}
}
