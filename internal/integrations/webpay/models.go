package webpay

// Статус транзакции Webpay Plus в ответе commit
const (
	StatusAuthorized = "AUTHORIZED"
	StatusFailed     = "FAILED"
)

// ResponseCodeApproved код ответа эмитента для одобренной транзакции
const ResponseCodeApproved = 0

// CreateRequest запрос на создание транзакции Webpay Plus
type CreateRequest struct {
	BuyOrder  string  `json:"buy_order"`
	SessionID string  `json:"session_id"`
	Amount    float64 `json:"amount"`
	ReturnURL string  `json:"return_url"`
}

// CreateResponse ответ на создание транзакции: токен и URL формы оплаты
type CreateResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// CardDetail данные карты из ответа commit
type CardDetail struct {
	CardNumber string `json:"card_number"`
}

// CommitResponse результат подтверждения транзакции.
// Транзакция оплачена только при Status == AUTHORIZED и ResponseCode == 0.
type CommitResponse struct {
	VCI                string     `json:"vci"`
	Amount             float64    `json:"amount"`
	Status             string     `json:"status"`
	BuyOrder           string     `json:"buy_order"`
	SessionID          string     `json:"session_id"`
	CardDetail         CardDetail `json:"card_detail"`
	AccountingDate     string     `json:"accounting_date"`
	TransactionDate    string     `json:"transaction_date"`
	AuthorizationCode  string     `json:"authorization_code"`
	PaymentTypeCode    string     `json:"payment_type_code"`
	ResponseCode       int        `json:"response_code"`
	InstallmentsNumber int        `json:"installments_number"`
}

// IsApproved возвращает true, если эмитент одобрил платеж
func (r *CommitResponse) IsApproved() bool {
	return r.Status == StatusAuthorized && r.ResponseCode == ResponseCodeApproved
}

// ErrorResponse модель ошибки от Webpay API
type ErrorResponse struct {
	ErrorMessage string `json:"error_message"`
}
