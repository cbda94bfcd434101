package webpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const transactionsPath = "/rswebpaytransaction/api/webpay/v1.2/transactions"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с Webpay Plus REST API
type Client struct {
	baseURL      string
	commerceCode string
	apiKey       string
	httpClient   *http.Client
	log          Logger
}

// NewClient создает новый экземпляр клиента Webpay Plus
func NewClient(baseURL, commerceCode, apiKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:      baseURL,
		commerceCode: commerceCode,
		apiKey:       apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Create создает транзакцию Webpay Plus и возвращает токен с URL формы оплаты
func (c *Client) Create(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	c.log.Info("Creating Webpay transaction: buy_order=%s, amount=%.2f", req.BuyOrder, req.Amount)

	var result CreateResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+transactionsPath, req, &result); err != nil {
		return nil, err
	}

	if result.Token == "" || result.URL == "" {
		return nil, fmt.Errorf("%w: create returned empty token or url", ErrInvalidResponse)
	}

	return &result, nil
}

// Commit подтверждает транзакцию по токену после возврата плательщика
func (c *Client) Commit(ctx context.Context, token string) (*CommitResponse, error) {
	c.log.Info("Committing Webpay transaction: token=%s", token)

	var result CommitResponse
	url := fmt.Sprintf("%s%s/%s", c.baseURL, transactionsPath, token)
	if err := c.do(ctx, http.MethodPut, url, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload interface{}, result interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Tbk-Api-Key-Id", c.commerceCode)
	req.Header.Set("Tbk-Api-Key-Secret", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var errResp ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.ErrorMessage != "" {
			return fmt.Errorf("%w: status %d: %s", ErrTransactionRejected, resp.StatusCode, errResp.ErrorMessage)
		}
		return fmt.Errorf("%w: status %d", ErrTransactionRejected, resp.StatusCode)
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
