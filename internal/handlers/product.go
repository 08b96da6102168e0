package handlers

import (
	"net/http"

	"github.com/atakandgn/company-management-system/internal/metrics"
	"github.com/atakandgn/company-management-system/internal/services"
	"github.com/atakandgn/company-management-system/types"
	"github.com/go-chi/chi/v5"
)

// ProductHandler provides HTTP handlers for products and the reference
// lists used to add them.
type ProductHandler struct {
	productService   *services.ProductService
	referenceService *services.ReferenceService
}

func NewProductHandler(productService *services.ProductService, referenceService *services.ReferenceService) *ProductHandler {
	return &ProductHandler{
		productService:   productService,
		referenceService: referenceService,
	}
}

// ProductRouter registers product routes on the given router.
func ProductRouter(
	r chi.Router,
	productService *services.ProductService,
	referenceService *services.ReferenceService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewProductHandler(productService, referenceService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListProducts)
	r.Post("/add", handler.AddProduct)
	r.Put("/update/{id}", handler.UpdateProduct)
	r.Delete("/delete/{id}", handler.DeleteProduct)
	r.Get("/last-added", handler.LastAdded)
	r.Get("/chart-data", handler.ChartData)
	r.Get("/statics", handler.Statics)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := types.ProductFilter{
		Name:      query.Get("name"),
		CompanyID: query.Get("companyId"),
	}

	page, err := h.productService.List(r.Context(), filter, parsePagination(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductListResponse{
		Page:          page.Page,
		Limit:         page.Limit,
		TotalPages:    page.TotalPages,
		TotalProducts: page.Total,
		Products:      page.Items,
	})
}

// AddProduct stores new stock. Adding a product the company already holds
// merges the amount into the existing row and answers 200 instead of 201.
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if !decodeJSON(w, r, &req) {
		metrics.RecordProductAdd(metrics.AddRejected)
		return
	}

	result, err := h.productService.Add(r.Context(), services.AddProductInput{
		Name:      req.Name,
		Category:  req.Category,
		Amount:    req.Amount,
		Unit:      req.Unit,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		metrics.RecordProductAdd(metrics.AddRejected)
		writeServiceError(w, err)
		return
	}

	if !result.Created {
		metrics.RecordProductAdd(metrics.AddMerged)
		writeJSON(w, http.StatusOK, ProductMutationResponse{Message: "Product updated successfully", Product: result.Product})
		return
	}
	metrics.RecordProductAdd(metrics.AddCreated)
	writeJSON(w, http.StatusCreated, ProductMutationResponse{Message: "Product added successfully", Product: result.Product})
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.productService.Update(r.Context(), chi.URLParam(r, "id"), services.ProductUpdate{
		Name:     req.Name,
		Category: req.Category,
		Amount:   req.Amount,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductMutationResponse{Message: "Product updated successfully", Product: product})
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductMutationResponse{Message: "Product deleted successfully", Product: product})
}

func (h *ProductHandler) LastAdded(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.RecentlyAdded(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if products == nil {
		products = []types.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// ChartData returns the summed amount per category.
func (h *ProductHandler) ChartData(w http.ResponseWriter, r *http.Request) {
	totals, err := h.productService.CategoryTotals(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if totals == nil {
		totals = []types.CategoryAmount{}
	}
	writeJSON(w, http.StatusOK, totals)
}

// Statics returns the unit and category lists.
func (h *ProductHandler) Statics(w http.ResponseWriter, r *http.Request) {
	statics, err := h.referenceService.Statics(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statics)
}

type AddProductRequest struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Amount    *float64 `json:"amount"`
	Unit      string   `json:"unit"`
	CompanyID string   `json:"companyId"`
}

type UpdateProductRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type ProductListResponse struct {
	Page          int             `json:"page"`
	Limit         int             `json:"limit"`
	TotalPages    int             `json:"totalPages"`
	TotalProducts int             `json:"totalProducts"`
	Products      []types.Product `json:"products"`
}

type ProductMutationResponse struct {
	Message string        `json:"message"`
	Product types.Product `json:"product"`
}
