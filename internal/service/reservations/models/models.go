package models

import (
	"time"

	"github.com/m04kA/PC-ReservationService/internal/domain"
)

// Response модели

// ItemResponse позиция резервации
type ItemResponse struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Slots       int     `json:"slots"`
	Helmets     int     `json:"helmets"`
	Vests       int     `json:"vests"`
}

// PaymentResponse платежные метаданные резервации
type PaymentResponse struct {
	TransactionID *string  `json:"transactionId,omitempty"`
	AmountPaid    *float64 `json:"amountPaid,omitempty"`
	Status        string   `json:"status"`
}

// ReservationResponse ответ с данными резервации
type ReservationResponse struct {
	ID             int64          `json:"id"`
	CustomerName   string         `json:"customerName"`
	CustomerEmail  string         `json:"customerEmail"`
	CustomerPhone  string         `json:"customerPhone"`
	Date           string         `json:"date"`      // "2026-07-14"
	StartTime      string         `json:"startTime"` // "10:00"
	Items          []ItemResponse `json:"items"`
	TotalPrice     float64        `json:"totalPrice"`
	PaymentMethod  string         `json:"paymentMethod"`
	Currency       string         `json:"currency"`
	StormInsurance bool           `json:"stormInsurance"`
	Status         string         `json:"status"`

	PaymentDue  *string         `json:"paymentDue,omitempty"`  // ISO 8601 format
	Payment     PaymentResponse `json:"payment"`
	CancelledAt *string         `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком резерваций
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// PaymentIntentResponse ответ с созданным платежным намерением
type PaymentIntentResponse struct {
	ReservationID int64  `json:"reservationId"`
	TransactionID string `json:"transactionId"`
	ClientSecret  string `json:"clientSecret"`
	AmountMinor   int64  `json:"amountMinor"`
	Currency      string `json:"currency"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	items := make([]ItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = ItemResponse{
			ProductID:   item.ProductID,
			ProductName: string(item.ProductName),
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Slots:       item.Slots,
			Helmets:     item.Helmets,
			Vests:       item.Vests,
		}
	}

	resp := &ReservationResponse{
		ID:             r.ID,
		CustomerName:   r.Customer.FullName,
		CustomerEmail:  r.Customer.Email,
		CustomerPhone:  r.Customer.Phone,
		Date:           r.Date.Format(domain.DateFormat),
		StartTime:      r.StartTime.String(),
		Items:          items,
		TotalPrice:     r.TotalPrice,
		PaymentMethod:  string(r.PaymentMethod),
		Currency:       string(r.Currency),
		StormInsurance: r.StormInsurance,
		Status:         string(r.Status),
		Payment: PaymentResponse{
			TransactionID: r.Payment.TransactionID,
			AmountPaid:    r.Payment.AmountPaid,
			Status:        string(r.Payment.Status),
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	// Конвертируем временные метки в строки ISO 8601
	if r.PaymentDue != nil {
		dueStr := r.PaymentDue.UTC().Format(time.RFC3339)
		resp.PaymentDue = &dueStr
	}
	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.UTC().Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	if reservations == nil {
		return &ReservationListResponse{
			Reservations: []ReservationResponse{},
		}
	}

	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, len(reservations)),
	}

	for i, reservation := range reservations {
		if r := FromDomainReservation(reservation); r != nil {
			resp.Reservations[i] = *r
		}
	}

	return resp
}
