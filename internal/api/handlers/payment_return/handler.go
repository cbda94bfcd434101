package payment_return

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtRentalService/internal/api/handlers"
	confirmPayment "github.com/m04kA/SMC-CourtRentalService/internal/usecase/confirm_payment"
)

type Handler struct {
	useCase            ConfirmPaymentUseCase
	failureRedirectURL string
	logger             Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, failureRedirectURL string, logger Logger) *Handler {
	return &Handler{
		useCase:            useCase,
		failureRedirectURL: failureRedirectURL,
		logger:             logger,
	}
}

// Handle GET /api/v1/payments/webpay/return?token_ws=... - возврат пользователя
// из формы оплаты Webpay. Всегда отвечает редиректом на страницу результата,
// даже при отсутствии token_ws: ответ смотрит браузер плательщика, ему
// некуда отдавать тело с ошибкой.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token_ws")

	resp, err := h.useCase.Execute(ctx, &confirmPayment.Request{Token: token})
	if err != nil {
		switch {
		case errors.Is(err, confirmPayment.ErrInvalidToken):
			h.logger.Warn("PaymentReturn: отсутствует параметр token_ws")
		case errors.Is(err, confirmPayment.ErrUnknownToken):
			h.logger.Warn("PaymentReturn: неизвестный токен оплаты")
		case errors.Is(err, confirmPayment.ErrCommitFailed):
			h.logger.Error("PaymentReturn: шлюз не подтвердил транзакцию: %v", err)
		default:
			h.logger.Error("PaymentReturn: внутренняя ошибка: %v", err)
		}

		redirectURL := h.failureRedirectURL
		if resp != nil && resp.RedirectURL != "" {
			redirectURL = resp.RedirectURL
		}
		handlers.Redirect(w, r, redirectURL)
		return
	}

	handlers.Redirect(w, r, resp.RedirectURL)
}
