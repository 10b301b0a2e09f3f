package http

import (
	"net/http"

	"github.com/workledger/workledger-backend-go/internal/domain/task"
	"github.com/workledger/workledger-backend-go/internal/handler/http/response"
)

type CalendarHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendarService task.CalendarService
}

func NewCalendarHandler(calendarService task.CalendarService) CalendarHandler {
	return &calendarHandlerImpl{
		calendarService: calendarService,
	}
}

// Get implements CalendarHandler.
func (h *calendarHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	query := task.CalendarQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	result, err := h.calendarService.Calendar(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
