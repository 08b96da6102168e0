package handlers

import (
	"net/http"

	"github.com/atakandgn/company-management-system/internal/services"
	"github.com/atakandgn/company-management-system/types"
	"github.com/go-chi/chi/v5"
)

// CompanyHandler provides HTTP handlers for companies.
type CompanyHandler struct {
	companyService *services.CompanyService
}

func NewCompanyHandler(companyService *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// CompanyRouter registers company routes on the given router.
func CompanyRouter(r chi.Router, companyService *services.CompanyService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewCompanyHandler(companyService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListCompanies)
	r.Post("/add", handler.AddCompany)
	r.Put("/update/{id}", handler.UpdateCompany)
	r.Delete("/delete/{id}", handler.DeleteCompany)
	r.Get("/last-added", handler.LastAdded)
	r.Get("/chart-data", handler.ChartData)
}

// ListCompanies returns one page of companies, or a single company when the
// id query parameter is set.
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := types.CompanyFilter{
		ID:      query.Get("id"),
		Name:    query.Get("name"),
		Country: query.Get("country"),
	}

	result, err := h.companyService.List(r.Context(), filter, parsePagination(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if result.Company != nil {
		writeJSON(w, http.StatusOK, result.Company)
		return
	}

	writeJSON(w, http.StatusOK, CompanyListResponse{
		Page:           result.Page.Page,
		Limit:          result.Page.Limit,
		TotalPages:     result.Page.TotalPages,
		TotalCompanies: result.Page.Total,
		Companies:      result.Page.Items,
	})
}

func (h *CompanyHandler) AddCompany(w http.ResponseWriter, r *http.Request) {
	var req CompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	company, err := h.companyService.Add(r.Context(), services.AddCompanyInput{
		Name:        req.Name,
		LegalNumber: req.LegalNumber,
		Country:     req.Country,
		Website:     req.Website,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CompanyMutationResponse{Message: "Company added successfully", Company: company})
}

func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var req CompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	company, err := h.companyService.Update(r.Context(), chi.URLParam(r, "id"), services.CompanyUpdate{
		Name:        req.Name,
		LegalNumber: req.LegalNumber,
		Country:     req.Country,
		Website:     req.Website,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CompanyMutationResponse{Message: "Company updated successfully", Company: company})
}

func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.companyService.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CompanyMutationResponse{Message: "Company deleted successfully", Company: company})
}

// LastAdded returns the three newest companies.
func (h *CompanyHandler) LastAdded(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companyService.RecentlyAdded(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if companies == nil {
		companies = []types.Company{}
	}
	writeJSON(w, http.StatusOK, companies)
}

// ChartData returns the company count of the five largest countries.
func (h *CompanyHandler) ChartData(w http.ResponseWriter, r *http.Request) {
	counts, err := h.companyService.CountryDistribution(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if counts == nil {
		counts = []types.CountryCount{}
	}
	writeJSON(w, http.StatusOK, counts)
}

type CompanyRequest struct {
	Name        string `json:"name"`
	LegalNumber string `json:"legalNumber"`
	Country     string `json:"country"`
	Website     string `json:"website"`
}

type CompanyListResponse struct {
	Page           int             `json:"page"`
	Limit          int             `json:"limit"`
	TotalPages     int             `json:"totalPages"`
	TotalCompanies int             `json:"totalCompanies"`
	Companies      []types.Company `json:"companies"`
}

type CompanyMutationResponse struct {
	Message string        `json:"message"`
	Company types.Company `json:"company"`
}
