package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	timeslotRepo "github.com/m04kA/PC-ReservationService/internal/infra/storage/timeslot"
	"github.com/m04kA/PC-ReservationService/internal/pricing"
)

// UseCase use case для создания резервации
type UseCase struct {
	reservationRepo ReservationRepository
	productRepo     ProductRepository
	slotLedger      SlotLedger
	slotCache       SlotCache
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	productRepo ProductRepository,
	slotLedger SlotLedger,
	slotCache SlotCache,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		productRepo:     productRepo,
		slotLedger:      slotLedger,
		slotCache:       slotCache,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания резервации
// Запись агрегата и резерв места в слоте выполняются в одной сериализуемой
// транзакции: если условный инкремент слота не прошёл, резервация откатывается
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: email=%s, date=%s, time=%s, items=%d",
		req.Customer.Email, req.Date.Format(domain.DateFormat), req.StartTime, len(req.Items))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now().UTC()

	// 3. Составляем момент начала в UTC и проверяем окно бронирования
	startAt, err := req.StartTime.AtDate(req.Date)
	if err != nil {
		uc.logger.Warn("CreateReservation: failed to compose start moment: %v", err)
		return nil, fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}

	if err := validateBookingWindow(startAt, now); err != nil {
		uc.logger.Warn("CreateReservation: booking window check failed: %v", err)
		return nil, err
	}

	// 4. Резолвим продукты каталога и проверяем ограничения позиций
	items, err := uc.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	// 5. Считаем итоговую цену детерминированно: сумма, скидка за набор, страховка
	totalPrice := pricing.ComputeTotal(items, req.StormInsurance)

	// 6. Начальный статус и срок оплаты наличными
	status := domain.InitialStatus(req.PaymentMethod)

	var paymentDue *time.Time
	if req.PaymentMethod == domain.PaymentCash {
		due := startAt.Add(-time.Duration(domain.CashPaymentDueHours) * time.Hour)
		paymentDue = &due
	}

	// Переменная для хранения результата
	var result *domain.Reservation

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Находим слот по дате и времени
		slot, err := uc.slotLedger.FindByDateTime(txCtx, req.Date, req.StartTime)
		if err != nil {
			if errors.Is(err, timeslotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateReservation: no slot for %s %s",
					req.Date.Format(domain.DateFormat), req.StartTime)
				return ErrSlotUnavailable
			}
			uc.logger.Error("CreateReservation: failed to find slot: %v", err)
			return fmt.Errorf("%w: failed to find slot: %v", ErrInternal, err)
		}

		// 7.2. Сохраняем резервацию
		reservation := &domain.Reservation{
			SlotID:         slot.ID,
			Customer:       req.Customer,
			Date:           domain.NormalizeDate(req.Date),
			StartTime:      req.StartTime,
			Items:          items,
			TotalPrice:     totalPrice,
			PaymentMethod:  req.PaymentMethod,
			Currency:       req.Currency,
			StormInsurance: req.StormInsurance,
			Status:         status,
			PaymentDue:     paymentDue,
			Payment: domain.PaymentDetails{
				Status: domain.PaymentStatusPending,
			},
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		// 7.3. Атомарно занимаем место в слоте
		// Условный UPDATE либо увеличивает счётчик, либо не трогает строку:
		// при исчерпанной вместимости транзакция откатывается вместе с резервацией
		if err := uc.slotLedger.TryReserve(txCtx, slot.ID); err != nil {
			if errors.Is(err, timeslotRepo.ErrSlotUnavailable) {
				uc.logger.Warn("CreateReservation: slot id=%d is full", slot.ID)
				return ErrSlotUnavailable
			}
			uc.logger.Error("CreateReservation: failed to reserve slot id=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 8. Сбрасываем кэш доступных времён на эту дату (best-effort)
	if uc.slotCache != nil {
		if err := uc.slotCache.Invalidate(ctx, req.Date); err != nil {
			uc.logger.Warn("CreateReservation: failed to invalidate slot cache for %s: %v",
				req.Date.Format(domain.DateFormat), err)
		}
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d, status=%s, total=%.2f",
		result.ID, result.Status, result.TotalPrice)

	return toResponse(result), nil
}

// resolveItems резолвит продукты по позициям запроса и применяет ограничения продуктов
func (uc *UseCase) resolveItems(ctx context.Context, reqItems []ItemRequest) ([]domain.ReservationItem, error) {
	ids := make([]int64, 0, len(reqItems))
	for _, item := range reqItems {
		ids = append(ids, item.ProductID)
	}

	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get products: %v", err)
		return nil, fmt.Errorf("%w: failed to get products: %v", ErrInternal, err)
	}

	byID := make(map[int64]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]domain.ReservationItem, 0, len(reqItems))
	for _, reqItem := range reqItems {
		product, ok := byID[reqItem.ProductID]
		if !ok {
			uc.logger.Warn("CreateReservation: product id=%d not found", reqItem.ProductID)
			return nil, fmt.Errorf("%w: id=%d", ErrProductNotFound, reqItem.ProductID)
		}

		if err := validateItemAgainstProduct(reqItem, product); err != nil {
			uc.logger.Warn("CreateReservation: item validation failed: %v", err)
			return nil, err
		}

		items = append(items, domain.ReservationItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    reqItem.Quantity,
			Slots:       reqItem.Slots,
			Helmets:     reqItem.Helmets,
			Vests:       reqItem.Vests,
		})
	}

	return items, nil
}

func toResponse(r *domain.Reservation) *Response {
	items := make([]ItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ItemResponse{
			ProductID:   item.ProductID,
			ProductName: string(item.ProductName),
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Slots:       item.Slots,
			Helmets:     item.Helmets,
			Vests:       item.Vests,
		})
	}

	return &Response{
		ID:             r.ID,
		Customer:       r.Customer,
		Date:           r.Date,
		StartTime:      r.StartTime,
		Items:          items,
		TotalPrice:     r.TotalPrice,
		PaymentMethod:  string(r.PaymentMethod),
		Currency:       string(r.Currency),
		StormInsurance: r.StormInsurance,
		Status:         string(r.Status),
		PaymentDue:     r.PaymentDue,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
