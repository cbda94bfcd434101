package get_venue_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtRentalService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtRentalService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	"github.com/m04kA/SMC-CourtRentalService/internal/service/reservations"
	"github.com/m04kA/SMC-CourtRentalService/internal/service/reservations/models"
)

const (
	msgInvalidVenueID = "Некорректный ID корта"
	msgInvalidDate    = "Некорректная дата (ожидается YYYY-MM-DD)"
	msgInvalidStatus  = "Некорректный статус брони"
	msgVenueNotFound  = "Корт не найден"
	msgAccessDenied   = "Доступ запрещён"
	msgUnauthorized   = "Требуется аутентификация"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/venues/{venueId}/reservations - брони корта для владельца.
// Опциональные query-параметры: date=YYYY-MM-DD, statuses=pending,confirmed.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	venueID, err := strconv.ParseInt(vars["venueId"], 10, 64)
	if err != nil || venueID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidVenueID)
		return
	}

	req := &models.GetVenueReservationsRequest{
		UserID:  userID,
		VenueID: venueID,
	}

	if rawDate := r.URL.Query().Get("date"); rawDate != "" {
		date, err := time.Parse(domain.DateFormat, rawDate)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = &date
	}

	if rawStatuses := r.URL.Query().Get("statuses"); rawStatuses != "" {
		req.Statuses = strings.Split(rawStatuses, ",")
	}

	resp, err := h.service.GetVenueReservations(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrVenueNotFound):
			handlers.RespondNotFound(w, msgVenueNotFound)
		case errors.Is(err, reservations.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, reservations.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStatus)
		default:
			h.logger.Error("GetVenueReservations: внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
