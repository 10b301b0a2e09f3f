package http

import (
	"net/http"
	"strconv"

	"github.com/workledger/workledger-backend-go/internal/domain/analytics"
	"github.com/workledger/workledger-backend-go/internal/handler/http/response"
)

type AnalyticsHandler interface {
	Packages(w http.ResponseWriter, r *http.Request)
	Clients(w http.ResponseWriter, r *http.Request)
	Employees(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{
		analyticsService: analyticsService,
	}
}

// Packages implements AnalyticsHandler.
func (h *analyticsHandlerImpl) Packages(w http.ResponseWriter, r *http.Request) {
	query := parseAnalyticsQuery(r)

	result, err := h.analyticsService.PackageProfitability(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Clients implements AnalyticsHandler.
func (h *analyticsHandlerImpl) Clients(w http.ResponseWriter, r *http.Request) {
	query := parseAnalyticsQuery(r)

	result, err := h.analyticsService.ClientProfitability(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Employees implements AnalyticsHandler.
func (h *analyticsHandlerImpl) Employees(w http.ResponseWriter, r *http.Request) {
	query := parseAnalyticsQuery(r)

	result, err := h.analyticsService.EmployeeUtilization(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseAnalyticsQuery(r *http.Request) analytics.Query {
	var query analytics.Query
	q := r.URL.Query()

	if v := q.Get("start_date"); v != "" {
		query.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		query.EndDate = &v
	}
	if v := q.Get("months"); v != "" {
		if months, err := strconv.Atoi(v); err == nil {
			query.Months = months
		}
	}
	if v := q.Get("client_id"); v != "" {
		query.ClientID = &v
	}
	if v := q.Get("package_id"); v != "" {
		query.PackageID = &v
	}
	if v := q.Get("employee_id"); v != "" {
		query.EmployeeID = &v
	}

	return query
}
