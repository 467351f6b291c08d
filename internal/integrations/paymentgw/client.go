package paymentgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// MinorUnits переводит сумму в минорные единицы валюты (центы)
// Единственная точка округления денег во всем сервисе: внутри цены
// считаются в float64 без промежуточных округлений
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Client клиент платежного шлюза
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного шлюза
func NewClient(baseURL, secretKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// idempotencyKey детерминированно выводится из ID резервации: повтор
// запроса для той же резервации уходит с тем же ключом
func idempotencyKey(reservationID int64) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("reservation-%d", reservationID))).String()
}

// CreateIntent создает платежное намерение для резервации
// Idempotency-Key стабилен для резервации: повтор запроса после
// сетевой ошибки не создаст второго списания
func (c *Client) CreateIntent(ctx context.Context, reqBody CreateIntentRequest) (*Intent, error) {
	url := fmt.Sprintf("%s/v1/intents", c.baseURL)

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Idempotency-Key", idempotencyKey(reqBody.ReservationID))

	c.log.Info("Creating payment intent for reservation_id=%d, amount_minor=%d %s",
		reqBody.ReservationID, reqBody.AmountMinor, reqBody.Currency)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusUnprocessableEntity, http.StatusPaymentRequired:
		body, _ := io.ReadAll(resp.Body)
		c.log.Error("Payment rejected for reservation_id=%d: %s", reqBody.ReservationID, string(body))
		return nil, fmt.Errorf("%w: %s", ErrPaymentRejected, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if intent.TransactionID == "" {
		return nil, fmt.Errorf("%w: empty transaction_id", ErrInvalidResponse)
	}

	c.log.Info("Payment intent created: reservation_id=%d, transaction_id=%s",
		reqBody.ReservationID, intent.TransactionID)

	return &intent, nil
}
