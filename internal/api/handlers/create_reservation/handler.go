package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtRentalService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtRentalService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-CourtRentalService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "Некорректное тело запроса"
	msgInvalidDate        = "Некорректная дата бронирования"
	msgInvalidTime        = "Некорректный формат времени (ожидается HH:MM)"
	msgVenueNotFound      = "Корт не найден"
	msgSlotTaken          = "Слот уже занят"
	msgPaymentInit        = "Не удалось инициализировать оплату"
	msgUnauthorized       = "Требуется аутентификация"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations - создание брони слота с инициализацией оплаты
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("CreateReservation: некорректное тело запроса: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("CreateReservation: ошибка парсинга запроса: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(ctx, ucReq)
	if err != nil {
		h.handleError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, createReservation.ErrVenueNotFound):
		handlers.RespondNotFound(w, msgVenueNotFound)
	case errors.Is(err, createReservation.ErrSlotTaken):
		handlers.RespondError(w, http.StatusConflict, msgSlotTaken)
	case errors.Is(err, createReservation.ErrInvalidDate):
		handlers.RespondBadRequest(w, msgInvalidDate)
	case errors.Is(err, createReservation.ErrInvalidTimeFormat):
		handlers.RespondBadRequest(w, msgInvalidTime)
	case errors.Is(err, createReservation.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
	case errors.Is(err, createReservation.ErrPaymentInit):
		h.logger.Error("CreateReservation: ошибка инициализации оплаты: %v", err)
		handlers.RespondError(w, http.StatusBadGateway, msgPaymentInit)
	default:
		h.logger.Error("CreateReservation: внутренняя ошибка: %v", err)
		handlers.RespondInternalError(w)
	}
}
