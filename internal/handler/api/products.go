package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/snuggle-shop/snuggle/internal/currency"
	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/telemetry"
)

// ProductHandler serves the catalog endpoints.
type ProductHandler struct {
	products domain.ProductService
	business *telemetry.BusinessMetrics
	logger   *slog.Logger
}

func NewProductHandler(products domain.ProductService, business *telemetry.BusinessMetrics, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{products: products, business: business, logger: logger}
}

type productResponse struct {
	ID            int32   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PricePaise    int64   `json:"price_paise"`
	Stock         int32   `json:"stock"`
	ImageURL      string  `json:"image_url"`
	IsActive      bool    `json:"is_active"`
	CategoryID    *int32  `json:"category_id,omitempty"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int32   `json:"review_count"`
	CreatedAt     string  `json:"created_at"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		PricePaise:    int64(p.Price),
		Stock:         p.Stock,
		ImageURL:      p.ImageURL,
		IsActive:      p.IsActive,
		CategoryID:    p.CategoryID,
		AverageRating: p.AverageRating,
		ReviewCount:   p.ReviewCount,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	products, err := h.products.ListProducts(r.Context(), filter)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"products": out})
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toProductResponse(product))
}

type createProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	PricePaise  int64  `json:"price_paise" validate:"required,gt=0"`
	Stock       int32  `json:"stock" validate:"gte=0"`
	ImageURL    string `json:"image_url"`
	IsActive    *bool  `json:"is_active"`
	CategoryID  *int32 `json:"category_id"`
}

// Create handles POST /api/products (admin)
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	product, err := h.products.CreateProduct(r.Context(), domain.CreateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       currency.Paise(req.PricePaise),
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    active,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, toProductResponse(product))
}

type updateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PricePaise  *int64  `json:"price_paise"`
	Stock       *int32  `json:"stock"`
	ImageURL    *string `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
	CategoryID  *int32  `json:"category_id"`
}

// Update handles PATCH /api/products/{id} (admin)
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	patch := domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
		CategoryID:  req.CategoryID,
	}
	if req.PricePaise != nil {
		price := currency.Paise(*req.PricePaise)
		patch.Price = &price
	}

	product, err := h.products.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toProductResponse(product))
}

func parseProductFilter(r *http.Request) (domain.ProductFilter, error) {
	q := r.URL.Query()
	var filter domain.ProductFilter

	if s := q.Get("search"); s != "" {
		filter.Search = &s
	}
	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return filter, domain.Invalid("", "Invalid category_id")
		}
		v := int32(id)
		filter.CategoryID = &v
	}
	if raw := q.Get("min_price"); raw != "" {
		p, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || p < 0 {
			return filter, domain.Invalid("", "Invalid min_price")
		}
		v := currency.Paise(p)
		filter.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		p, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || p < 0 {
			return filter, domain.Invalid("", "Invalid max_price")
		}
		v := currency.Paise(p)
		filter.MaxPrice = &v
	}
	if raw := q.Get("min_rating"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 || f > 5 {
			return filter, domain.Invalid("", "Invalid min_rating")
		}
		filter.MinRating = &f
	}
	filter.InStock = q.Get("in_stock") == "true"
	filter.Sort = domain.ProductSort(q.Get("sort"))

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 0 {
			return filter, domain.Invalid("", "Invalid limit")
		}
		filter.Limit = int32(n)
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 0 {
			return filter, domain.Invalid("", "Invalid offset")
		}
		filter.Offset = int32(n)
	}

	return filter, nil
}
