package delete_venue

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtRentalService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtRentalService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtRentalService/internal/service/venues"
)

const (
	msgInvalidVenueID        = "Некорректный ID корта"
	msgVenueNotFound         = "Корт не найден"
	msgAccessDenied          = "Доступ запрещён"
	msgHasActiveReservations = "У корта есть подтверждённые брони на будущие даты"
	msgUnauthorized          = "Требуется аутентификация"
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

// Handle DELETE /api/v1/venues/{venueId} - деактивация корта (только владелец).
// Логическое удаление: корт скрывается из каталога, история броней сохраняется.
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

	if err := h.service.Deactivate(ctx, venueID, userID); err != nil {
		switch {
		case errors.Is(err, venues.ErrVenueNotFound):
			handlers.RespondNotFound(w, msgVenueNotFound)
		case errors.Is(err, venues.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, venues.ErrHasActiveReservations):
			handlers.RespondError(w, http.StatusConflict, msgHasActiveReservations)
		default:
			h.logger.Error("DeleteVenue: внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
