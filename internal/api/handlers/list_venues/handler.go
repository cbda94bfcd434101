package list_venues

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtRentalService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtRentalService/internal/api/middleware"
)

const (
	msgInvalidUserID = "Некорректный ID пользователя"
	msgAccessDenied  = "Доступ запрещён"
	msgUnauthorized  = "Требуется аутентификация"
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

// Handle GET /api/v1/venues - каталог активных кортов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.List(ctx)
	if err != nil {
		h.logger.Error("ListVenues: внутренняя ошибка: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleAdmin GET /api/v1/users/{userId}/venues - корты администратора,
// включая деактивированные. Смотреть можно только свои.
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	authUserID, ok := middleware.GetUserID(ctx)
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	adminID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil || adminID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	if adminID != authUserID {
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	resp, err := h.service.ListByAdmin(ctx, adminID)
	if err != nil {
		h.logger.Error("ListVenues: внутренняя ошибка: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
