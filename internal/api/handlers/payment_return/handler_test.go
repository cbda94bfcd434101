package payment_return

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	confirmPayment "github.com/m04kA/SMC-CourtRentalService/internal/usecase/confirm_payment"
)

type MockConfirmPaymentUseCase struct {
	mock.Mock
}

func (m *MockConfirmPaymentUseCase) Execute(ctx context.Context, req *confirmPayment.Request) (*confirmPayment.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*confirmPayment.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

const failureURL = "https://app.example.com/payments/failure"

func TestHandle_MissingTokenRedirectsToFailurePage(t *testing.T) {
	useCase := &MockConfirmPaymentUseCase{}
	useCase.On("Execute", mock.Anything, &confirmPayment.Request{Token: ""}).
		Return(nil, confirmPayment.ErrInvalidToken).Once()

	h := NewHandler(useCase, failureURL, nopLogger{})

	// Шлюз может вернуть плательщика вообще без token_ws - браузеру
	// все равно нужен редирект, а не тело с ошибкой
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/webpay/return", nil)
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, failureURL, rec.Header().Get("Location"))

	useCase.AssertExpectations(t)
}

func TestHandle_SuccessRedirect(t *testing.T) {
	useCase := &MockConfirmPaymentUseCase{}
	useCase.On("Execute", mock.Anything, &confirmPayment.Request{Token: "tok-123"}).
		Return(&confirmPayment.Response{
			ReservationID: 7,
			Confirmed:     true,
			RedirectURL:   "https://app.example.com/payments/success",
		}, nil).Once()

	h := NewHandler(useCase, failureURL, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/webpay/return?token_ws=tok-123", nil)
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://app.example.com/payments/success", rec.Header().Get("Location"))
}

func TestHandle_UnknownTokenRedirectsToFailurePage(t *testing.T) {
	useCase := &MockConfirmPaymentUseCase{}
	useCase.On("Execute", mock.Anything, &confirmPayment.Request{Token: "tok-stale"}).
		Return(&confirmPayment.Response{RedirectURL: failureURL}, confirmPayment.ErrUnknownToken).Once()

	h := NewHandler(useCase, failureURL, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/webpay/return?token_ws=tok-stale", nil)
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, failureURL, rec.Header().Get("Location"))
}

func TestHandle_InternalErrorStillRedirects(t *testing.T) {
	useCase := &MockConfirmPaymentUseCase{}
	useCase.On("Execute", mock.Anything, mock.Anything).
		Return(nil, confirmPayment.ErrInternal).Once()

	h := NewHandler(useCase, failureURL, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/webpay/return?token_ws=tok-123", nil)
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, failureURL, rec.Header().Get("Location"))
}
