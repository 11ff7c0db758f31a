package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storefront/microservices/internal/core/domain"
	"github.com/storefront/microservices/internal/core/ports"
)

type stubProductService struct {
	createFn func(ctx context.Context, input *ports.ProductInput, key string) (*domain.Product, error)
	getFn    func(ctx context.Context, id string) (*domain.Product, error)
	updateFn func(ctx context.Context, id string, input *ports.ProductInput) (*domain.Product, error)
	deleteFn func(ctx context.Context, id string) (*domain.Product, error)
	listFn   func(ctx context.Context, input ports.ListProductsInput) (*ports.ProductPage, error)
}

func (s *stubProductService) Create(ctx context.Context, input *ports.ProductInput, key string) (*domain.Product, error) {
	return s.createFn(ctx, input, key)
}

func (s *stubProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubProductService) Update(ctx context.Context, id string, input *ports.ProductInput) (*domain.Product, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubProductService) Delete(ctx context.Context, id string) (*domain.Product, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubProductService) List(ctx context.Context, input ports.ListProductsInput) (*ports.ProductPage, error) {
	return s.listFn(ctx, input)
}

var sampleProduct = &domain.Product{
	ID:        "665f1c2a9b1e8a0012345678",
	Name:      "Chair",
	Price:     49.9,
	Available: true,
	Created:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

func TestProductHandler_Create(t *testing.T) {
	var gotKey string
	var gotInput *ports.ProductInput
	stub := &stubProductService{
		createFn: func(ctx context.Context, input *ports.ProductInput, key string) (*domain.Product, error) {
			gotInput, gotKey = input, key
			return sampleProduct, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/api/v1/product/", `{"name":"Chair","price":"49.9","available":false}`)
	c.Request().Header.Set("Idempotency-Key", "abc")

	if err := NewProductHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if gotKey != "abc" {
		t.Fatalf("idempotency key not forwarded: %q", gotKey)
	}
	if gotInput.Price == nil || *gotInput.Price != 49.9 {
		t.Fatalf("numeric string price not parsed: %v", gotInput.Price)
	}
	if gotInput.Available == nil || *gotInput.Available {
		t.Fatalf("available not forwarded: %v", gotInput.Available)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["_id"] != sampleProduct.ID || resp["created"] != "2024-01-01T00:00:00Z" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestProductHandler_Create_InvalidPrice(t *testing.T) {
	for _, body := range []string{
		`{"name":"x"}`, `{"name":"x","price":"cheap"}`, `{"name":"x","price":true}`, `{"name":"x","price":null}`,
		`{"name":"x","price":"Infinity"}`, `{"name":"x","price":"+Inf"}`, `{"name":"x","price":"NaN"}`,
	} {
		var got *ports.ProductInput
		stub := &stubProductService{
			createFn: func(ctx context.Context, input *ports.ProductInput, key string) (*domain.Product, error) {
				got = input
				return nil, domain.ErrPriceRequired
			},
		}
		c, _ := newJSONContext(http.MethodPost, "/api/v1/product/", body)

		if err := NewProductHandler(stub).Create(c); err != domain.ErrPriceRequired {
			t.Fatalf("%s: expected ErrPriceRequired, got %v", body, err)
		}
		if got == nil || got.Price != nil {
			t.Fatalf("%s: expected nil price, got %+v", body, got)
		}
	}
}

func TestProductHandler_Create_MissingBody(t *testing.T) {
	stub := &stubProductService{
		createFn: func(ctx context.Context, input *ports.ProductInput, key string) (*domain.Product, error) {
			if input != nil {
				t.Fatalf("expected nil input")
			}
			return nil, domain.ErrProductRequired
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/api/v1/product/", "")

	if err := NewProductHandler(stub).Create(c); err != domain.ErrProductRequired {
		t.Fatalf("expected ErrProductRequired, got %v", err)
	}
}

func TestProductHandler_GetUpdateDelete(t *testing.T) {
	stub := &stubProductService{
		getFn: func(ctx context.Context, id string) (*domain.Product, error) {
			if id != sampleProduct.ID {
				return nil, domain.ErrProductNotFound
			}
			return sampleProduct, nil
		},
		updateFn: func(ctx context.Context, id string, input *ports.ProductInput) (*domain.Product, error) {
			if input.Name != "Desk" || *input.Price != 120 {
				t.Fatalf("unexpected input %+v", input)
			}
			return &domain.Product{ID: id, Name: "Desk", Price: 120}, nil
		},
		deleteFn: func(ctx context.Context, id string) (*domain.Product, error) {
			return nil, domain.ErrProductNotFound
		},
	}
	h := NewProductHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(sampleProduct.ID)
	if err := h.Get(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("get: %d %v", rec.Code, err)
	}

	c, _ = newJSONContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.Get(c); err != domain.ErrProductNotFound {
		t.Fatalf("get missing: expected ErrProductNotFound, got %v", err)
	}

	c, rec = newJSONContext(http.MethodPut, "/", `{"name":"Desk","price":120}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Update(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("update: %d %v", rec.Code, err)
	}

	c, _ = newJSONContext(http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Delete(c); err != domain.ErrProductNotFound {
		t.Fatalf("delete: expected ErrProductNotFound, got %v", err)
	}
}

func TestProductHandler_List(t *testing.T) {
	var got ports.ListProductsInput
	stub := &stubProductService{
		listFn: func(ctx context.Context, input ports.ListProductsInput) (*ports.ProductPage, error) {
			got = input
			return &ports.ProductPage{Data: []*domain.Product{sampleProduct}, Count: 100}, nil
		},
	}
	c, rec := newJSONContext(http.MethodGet, "/api/v1/product/?q=ch&skip=5&limit=30", "")

	if err := NewProductHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Query != "ch" || got.Skip == nil || *got.Skip != 5 || got.Limit == nil || *got.Limit != 30 {
		t.Fatalf("unexpected list input %+v", got)
	}

	var resp struct {
		Data  []map[string]any `json:"data"`
		Count int              `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 100 || len(resp.Data) != 1 {
		t.Fatalf("unexpected page %s", rec.Body.String())
	}
}

func TestProductHandler_List_DefaultsAndBadParams(t *testing.T) {
	var got ports.ListProductsInput
	stub := &stubProductService{
		listFn: func(ctx context.Context, input ports.ListProductsInput) (*ports.ProductPage, error) {
			got = input
			return &ports.ProductPage{Data: []*domain.Product{}}, nil
		},
	}
	h := NewProductHandler(stub)

	c, _ := newJSONContext(http.MethodGet, "/api/v1/product/", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Skip != nil || got.Limit != nil || got.Query != "" {
		t.Fatalf("expected unset params, got %+v", got)
	}

	c, _ = newJSONContext(http.MethodGet, "/api/v1/product/?skip=abc&limit=ten", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Skip != nil || got.Limit != nil {
		t.Fatalf("non-numeric params should fall back to defaults, got %+v", got)
	}

	c, _ = newJSONContext(http.MethodGet, "/api/v1/product/?q="+strings.Repeat("x", 300), "")
	err := h.List(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an oversized query, got %v", err)
	}
}
