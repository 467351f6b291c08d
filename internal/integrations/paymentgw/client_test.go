package paymentgw

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(21600), MinorUnits(216.0))
	assert.Equal(t, int64(24000), MinorUnits(240.0))
	// 180*1.2 в float64 дает 215.99999999999997, округление обязано выправить
	assert.Equal(t, int64(21600), MinorUnits(180.0*1.2))
	assert.Equal(t, int64(1), MinorUnits(0.005))
	assert.Equal(t, int64(0), MinorUnits(0))
}

func TestCreateIntent_Success(t *testing.T) {
	var gotIdempotencyKey string
	var gotAuth string
	var gotReq CreateIntentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/intents", r.URL.Path)

		gotIdempotencyKey = r.Header.Get("Idempotency-Key")
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Intent{
			TransactionID: "txn_123",
			ClientSecret:  "secret_abc",
			Status:        "requires_payment_method",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test", 2*time.Second, nopLogger{})

	intent, err := client.CreateIntent(context.Background(), CreateIntentRequest{
		ReservationID: 42,
		AmountMinor:   21600,
		Currency:      "usd",
	})
	require.NoError(t, err)

	assert.Equal(t, "txn_123", intent.TransactionID)
	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.NotEmpty(t, gotIdempotencyKey)
	assert.Equal(t, int64(42), gotReq.ReservationID)
	assert.Equal(t, int64(21600), gotReq.AmountMinor)
}

func TestCreateIntent_IdempotencyKeyStable(t *testing.T) {
	var keys []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		json.NewEncoder(w).Encode(Intent{TransactionID: "txn_123", ClientSecret: "secret_abc"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test", 2*time.Second, nopLogger{})
	req := CreateIntentRequest{ReservationID: 42, AmountMinor: 21600, Currency: "usd"}

	_, err := client.CreateIntent(context.Background(), req)
	require.NoError(t, err)
	_, err = client.CreateIntent(context.Background(), req)
	require.NoError(t, err)

	// Повтор запроса для той же резервации уходит с тем же ключом,
	// другая резервация получает другой ключ
	require.Len(t, keys, 2)
	assert.Equal(t, keys[0], keys[1])
	assert.NotEqual(t, keys[0], idempotencyKey(43))
}

func TestCreateIntent_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"card_declined"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test", 2*time.Second, nopLogger{})

	_, err := client.CreateIntent(context.Background(), CreateIntentRequest{ReservationID: 1, AmountMinor: 100, Currency: "usd"})
	assert.ErrorIs(t, err, ErrPaymentRejected)
}

func TestCreateIntent_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test", 2*time.Second, nopLogger{})

	_, err := client.CreateIntent(context.Background(), CreateIntentRequest{ReservationID: 1, AmountMinor: 100, Currency: "usd"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestCreateIntent_EmptyTransactionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Intent{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test", 2*time.Second, nopLogger{})

	_, err := client.CreateIntent(context.Background(), CreateIntentRequest{ReservationID: 1, AmountMinor: 100, Currency: "usd"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
