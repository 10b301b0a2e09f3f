package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/workledger/workledger-backend-go/internal/domain/billing"
	"github.com/workledger/workledger-backend-go/internal/handler/http/response"
)

type BillingHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type billingHandlerImpl struct {
	packageService billing.PackageService
}

func NewBillingHandler(packageService billing.PackageService) BillingHandler {
	return &billingHandlerImpl{
		packageService: packageService,
	}
}

// Create implements BillingHandler.
func (h *billingHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req billing.CreatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.packageService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Billing package created", result)
}

// Get implements BillingHandler.
func (h *billingHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.packageService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements BillingHandler.
func (h *billingHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter billing.PackageFilter
	q := r.URL.Query()

	if v := q.Get("client_id"); v != "" {
		filter.ClientID = &v
	}
	if v := q.Get("package_type"); v != "" {
		filter.Type = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			filter.Page = page
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}

	result, err := h.packageService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Packages, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Update implements BillingHandler.
func (h *billingHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req billing.UpdatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.packageService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Billing package updated", result)
}

// Delete implements BillingHandler.
func (h *billingHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.packageService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Billing package deleted", nil)
}
