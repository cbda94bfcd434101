package get_venue

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtRentalService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtRentalService/internal/service/venues"
)

const (
	msgInvalidVenueID = "Некорректный ID корта"
	msgVenueNotFound  = "Корт не найден"
)

type Handler struct {
	service VenueService
	logger  Logger
}

func NewHandler(service VenueService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/venues/{venueId} - карточка корта
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vars := mux.Vars(r)
	venueID, err := strconv.ParseInt(vars["venueId"], 10, 64)
	if err != nil || venueID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidVenueID)
		return
	}

	resp, err := h.service.GetByID(ctx, venueID)
	if err != nil {
		switch {
		case errors.Is(err, venues.ErrVenueNotFound):
			handlers.RespondNotFound(w, msgVenueNotFound)
		default:
			h.logger.Error("GetVenue: внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
