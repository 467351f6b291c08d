package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/PC-ReservationService/internal/api/handlers"
	createReservation "github.com/m04kA/PC-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidDate            = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgSlotUnavailable        = "выбранный временной слот недоступен"
	msgProductNotFound        = "продукт не найден"
	msgInvalidReservationDate = "некорректная дата резервации"
	msgWindowExceeded         = "резервация возможна не более чем за 48 часов до начала"
	msgCapacityExceeded       = "превышена вместимость продукта"
	msgTooManySlots           = "превышено допустимое число последовательных слотов"
	msgEquipmentMissing       = "не хватает обязательного защитного снаряжения"
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

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createReservation.ErrSlotUnavailable):
			h.logger.Warn("POST /reservations - Slot unavailable: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotUnavailable)

		case errors.Is(err, createReservation.ErrProductNotFound):
			h.logger.Warn("POST /reservations - Product not found: email=%s", req.CustomerEmail)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, createReservation.ErrInvalidDate):
			h.logger.Warn("POST /reservations - Invalid date: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidReservationDate)

		case errors.Is(err, createReservation.ErrBookingWindowExceeded):
			h.logger.Warn("POST /reservations - Booking window exceeded: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgWindowExceeded)

		case errors.Is(err, createReservation.ErrCapacityExceeded):
			h.logger.Warn("POST /reservations - Capacity exceeded: email=%s", req.CustomerEmail)
			handlers.RespondBadRequest(w, msgCapacityExceeded)

		case errors.Is(err, createReservation.ErrTooManySlots):
			h.logger.Warn("POST /reservations - Too many slots: email=%s", req.CustomerEmail)
			handlers.RespondBadRequest(w, msgTooManySlots)

		case errors.Is(err, createReservation.ErrSafetyEquipmentMissing):
			h.logger.Warn("POST /reservations - Safety equipment missing: email=%s", req.CustomerEmail)
			handlers.RespondBadRequest(w, msgEquipmentMissing)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: email=%s, error=%v",
				req.CustomerEmail, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, email=%s",
		result.ID, req.CustomerEmail)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
