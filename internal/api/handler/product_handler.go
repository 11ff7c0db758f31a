package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/microservices/internal/api/metrics"
	"github.com/storefront/microservices/internal/core/ports"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) bindInput(c echo.Context) (*ports.ProductInput, error) {
	var req productRequest
	present, err := bindBody(c, &req)
	if err != nil || !present {
		return nil, err
	}
	return req.toInput(), nil
}

// Create handles POST /api/v1/product/.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string          false  "Replays the original product when reused"
// @Param        body             body      productRequest  true   "Product"
// @Success      201              {object}  domain.Product
// @Failure      400              {object}  domain.Error
// @Failure      401
// @Failure      403
// @Failure      409              {object}  domain.Error
// @Router       /api/v1/product/ [post]
func (h *ProductHandler) Create(c echo.Context) error {
	input, err := h.bindInput(c)
	if err != nil {
		return err
	}

	key := c.Request().Header.Get("Idempotency-Key")
	product, err := h.service.Create(c.Request().Context(), input, key)
	if err != nil {
		return err
	}

	metrics.ProductsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, product)
}

// Get handles GET /api/v1/product/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  domain.Error
// @Router       /api/v1/product/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Update handles PUT /api/v1/product/:id.
//
// @Summary      Replace a product's mutable fields
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      productRequest  true  "Product"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  domain.Error
// @Failure      401
// @Failure      403
// @Failure      404   {object}  domain.Error
// @Router       /api/v1/product/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	input, err := h.bindInput(c)
	if err != nil {
		return err
	}

	product, err := h.service.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /api/v1/product/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      401
// @Failure      403
// @Failure      404  {object}  domain.Error
// @Router       /api/v1/product/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	product, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, product)
}

// List handles GET /api/v1/product/.
//
// @Summary      List products
// @Description  Substring search on name or description. limit defaults to 20; zero or negative disables it.
// @Description  Non-numeric skip or limit values fall back to their defaults.
// @Tags         products
// @Produce      json
// @Param        q      query     string  false  "Search text"
// @Param        skip   query     int     false  "Documents to skip"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  ports.ProductPage
// @Failure      400    {object}  domain.Error
// @Router       /api/v1/product/ [get]
func (h *ProductHandler) List(c echo.Context) error {
	q := listProductsQuery{
		Q:     c.QueryParam("q"),
		Skip:  optionalInt(c.QueryParam("skip")),
		Limit: optionalInt(c.QueryParam("limit")),
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page, err := h.service.List(c.Request().Context(), ports.ListProductsInput{
		Query: q.Q,
		Skip:  q.Skip,
		Limit: q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
