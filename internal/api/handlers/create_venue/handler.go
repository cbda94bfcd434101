package create_venue

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtRentalService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtRentalService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtRentalService/internal/service/venues"
)

const (
	msgInvalidRequestBody = "Некорректное тело запроса"
	msgUnauthorized       = "Требуется аутентификация"
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

// Handle POST /api/v1/venues - создание корта (только admin)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	adminID, ok := middleware.GetUserID(ctx)
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateVenueRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("CreateVenue: некорректное тело запроса: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Create(ctx, req.ToServiceRequest(adminID))
	if err != nil {
		switch {
		case errors.Is(err, venues.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("CreateVenue: внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, resp)
}
