package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"eshop-catalog/internal/domain"
	"eshop-catalog/internal/middleware"
	"eshop-catalog/internal/repository"
	"eshop-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxCartBodyBytes bounds the cart identifier list body
const maxCartBodyBytes = 1 << 20

// ProductCountResponse represents the catalog size response
type ProductCountResponse struct {
	ProductCount int64 `json:"productCount"`
}

// ProductHandler handles HTTP requests for catalog reads
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/products-count", h.CountProducts)
	r.Get("/product-brand-names", h.BrandNames)
	r.Get("/product-category-names", h.CategoryNames)
	r.Post("/cart-items", h.CartItems)
}

// ListProducts handles the filtered, sorted and paginated product listing
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, err := ParseListParams(r.URL.Query())
	if err != nil {
		h.logger.Debug("List parameters rejected", zap.Error(err))

		var paramErr *ParamError
		if errors.As(err, &paramErr) {
			middleware.RespondWithValidationErrors(w, []middleware.ValidationError{{
				Field:   paramErr.Name,
				Message: "Value must be " + paramErr.Want,
			}})
			return
		}

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	products, err := h.productService.List(r.Context(), params)
	if err != nil {
		h.respondWithServiceError(w, "Failed to list products", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct handles fetching a single product by its identifier
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithServiceError(w, "Failed to get product", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// CountProducts handles the estimated catalog size
func (h *ProductHandler) CountProducts(w http.ResponseWriter, r *http.Request) {
	count, err := h.productService.EstimatedCount(r.Context())
	if err != nil {
		h.respondWithServiceError(w, "Failed to count products", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductCountResponse{ProductCount: count})
}

// BrandNames handles the distinct brand listing
func (h *ProductHandler) BrandNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.productService.BrandNames(r.Context())
	if err != nil {
		h.respondWithServiceError(w, "Failed to get brand names", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, names)
}

// CategoryNames handles the distinct category listing
func (h *ProductHandler) CategoryNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.productService.CategoryNames(r.Context())
	if err != nil {
		h.respondWithServiceError(w, "Failed to get category names", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, names)
}

// CartItems handles the batch lookup of cart products. A body that is not a
// JSON array of strings is treated as an empty cart.
func (h *ProductHandler) CartItems(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCartBodyBytes)).Decode(&ids); err != nil {
		h.logger.Debug("Cart identifier list ignored", zap.Error(err))
		ids = nil
	}

	products, err := h.productService.CartItems(r.Context(), ids)
	if err != nil {
		h.respondWithServiceError(w, "Failed to get cart items", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// respondWithServiceError maps the service error variants to HTTP statuses
func (h *ProductHandler) respondWithServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidProductID):
		h.logger.Debug(msg, zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "a valid product id is required")
	case errors.Is(err, repository.ErrProductNotFound):
		h.logger.Debug(msg, zap.Error(err))
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	default:
		h.logger.Error(msg, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, strings.ToLower(msg))
	}
}

// ParamError reports a query parameter that could not be parsed
type ParamError struct {
	Name  string
	Value string
	Want  string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("query parameter %s=%q must be %s", e.Name, e.Value, e.Want)
}

// ParseListParams parses and validates the listing query string. Omitted
// page parameters take their defaults; sortOrderPrice wins over the older
// sortOrder alias.
func ParseListParams(q url.Values) (domain.ListParams, error) {
	params := domain.DefaultListParams()

	var err error
	if params.PerPageView, err = intParam(q, "perPageView", params.PerPageView); err != nil {
		return params, err
	}
	if params.CurrentPage, err = intParam(q, "currentPage", params.CurrentPage); err != nil {
		return params, err
	}
	if params.MinPrice, err = floatParam(q, "minPrice"); err != nil {
		return params, err
	}
	if params.MaxPrice, err = floatParam(q, "maxPrice"); err != nil {
		return params, err
	}

	params.Search = q.Get("search")
	params.Brand = q.Get("brand")
	params.Category = q.Get("category")

	params.PriceSort = q.Get("sortOrderPrice")
	if params.PriceSort == "" {
		params.PriceSort = q.Get("sortOrder")
	}
	params.DateSort = q.Get("sortOrderDate")

	if err := middleware.ValidateRequest(params); err != nil {
		return params, err
	}

	return params, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParamError{Name: name, Value: raw, Want: "an integer"}
	}
	return v, nil
}

func floatParam(q url.Values, name string) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParamError{Name: name, Value: raw, Want: "a number"}
	}
	return v, nil
}
