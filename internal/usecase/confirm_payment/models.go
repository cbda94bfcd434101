package confirm_payment

// Результаты обработки коллбэка для метрик
const (
	ResultAuthorized   = "authorized"
	ResultRejected     = "rejected"
	ResultUnknownToken = "unknown_token"
	ResultCommitFailed = "commit_failed"
	ResultReplay       = "replay"
)

// Request модель запроса на подтверждение оплаты
type Request struct {
	// Token значение token_ws из коллбэка Webpay
	Token string
}

// Response результат обработки коллбэка.
// RedirectURL заполняется всегда: плательщика нужно увести со страницы
// шлюза независимо от исхода.
type Response struct {
	ReservationID int64
	Confirmed     bool
	RedirectURL   string
}

// approvedRecord сериализуемая запись об успешном платеже
type approvedRecord struct {
	AuthorizationCode string  `json:"authorization_code"`
	TransactionDate   string  `json:"transaction_date"`
	CardLast4         string  `json:"card_last4"`
	Amount            float64 `json:"amount"`
}

// rejectedRecord сериализуемая запись об отклоненном платеже
type rejectedRecord struct {
	Status       string `json:"status"`
	ResponseCode int    `json:"response_code"`
}
