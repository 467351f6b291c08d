package create_reservation

import (
	"time"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/PC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/PC-ReservationService/pkg/types"
)

// ItemRequest позиция резервации в HTTP запросе
type ItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
	Slots     int   `json:"slots"`
	Helmets   int   `json:"helmets"`
	Vests     int   `json:"vests"`
}

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	CustomerName   string        `json:"customerName"`
	CustomerEmail  string        `json:"customerEmail"`
	CustomerPhone  string        `json:"customerPhone"`
	Date           string        `json:"date"`      // "2026-07-14"
	StartTime      string        `json:"startTime"` // "10:00"
	Items          []ItemRequest `json:"items"`
	PaymentMethod  string        `json:"paymentMethod"`
	Currency       string        `json:"currency"`
	StormInsurance bool          `json:"stormInsurance"`
}

// ItemResponse позиция резервации в HTTP ответе
type ItemResponse struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Slots       int     `json:"slots"`
	Helmets     int     `json:"helmets"`
	Vests       int     `json:"vests"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID             int64          `json:"id"`
	CustomerName   string         `json:"customerName"`
	CustomerEmail  string         `json:"customerEmail"`
	CustomerPhone  string         `json:"customerPhone"`
	Date           string         `json:"date"`
	StartTime      string         `json:"startTime"`
	Items          []ItemResponse `json:"items"`
	TotalPrice     float64        `json:"totalPrice"`
	PaymentMethod  string         `json:"paymentMethod"`
	Currency       string         `json:"currency"`
	StormInsurance bool           `json:"stormInsurance"`
	Status         string         `json:"status"`
	PaymentDue     *string        `json:"paymentDue,omitempty"`
	CreatedAt      string         `json:"createdAt"`
	UpdatedAt      string         `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest() (*createReservation.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	items := make([]createReservation.ItemRequest, len(r.Items))
	for i, item := range r.Items {
		items[i] = createReservation.ItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Slots:     item.Slots,
			Helmets:   item.Helmets,
			Vests:     item.Vests,
		}
	}

	return &createReservation.Request{
		Customer: domain.Customer{
			FullName: r.CustomerName,
			Email:    r.CustomerEmail,
			Phone:    r.CustomerPhone,
		},
		Date:           date,
		StartTime:      startTime,
		Items:          items,
		PaymentMethod:  domain.PaymentMethod(r.PaymentMethod),
		Currency:       domain.Currency(r.Currency),
		StormInsurance: r.StormInsurance,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	items := make([]ItemResponse, len(resp.Items))
	for i, item := range resp.Items {
		items[i] = ItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Slots:       item.Slots,
			Helmets:     item.Helmets,
			Vests:       item.Vests,
		}
	}

	result := &ReservationResponse{
		ID:             resp.ID,
		CustomerName:   resp.Customer.FullName,
		CustomerEmail:  resp.Customer.Email,
		CustomerPhone:  resp.Customer.Phone,
		Date:           resp.Date.Format(domain.DateFormat),
		StartTime:      resp.StartTime.String(),
		Items:          items,
		TotalPrice:     resp.TotalPrice,
		PaymentMethod:  resp.PaymentMethod,
		Currency:       resp.Currency,
		StormInsurance: resp.StormInsurance,
		Status:         resp.Status,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.PaymentDue != nil {
		dueStr := resp.PaymentDue.UTC().Format(time.RFC3339)
		result.PaymentDue = &dueStr
	}

	return result
}
