package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/PC-ReservationService/internal/infra/storage/reservation"
	timeslotRepo "github.com/m04kA/PC-ReservationService/internal/infra/storage/timeslot"
	"github.com/m04kA/PC-ReservationService/internal/integrations/paymentgw"
	"github.com/m04kA/PC-ReservationService/internal/service/reservations/models"
)

// Service сервис для работы с резервациями
type Service struct {
	reservationRepo ReservationRepository
	slotLedger      SlotLedger
	paymentGateway  PaymentGateway
	slotCache       SlotCache
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса резерваций
// paymentGateway и slotCache могут быть nil, соответствующие операции деградируют
func NewService(
	reservationRepo ReservationRepository,
	slotLedger SlotLedger,
	paymentGateway PaymentGateway,
	slotCache SlotCache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		slotLedger:      slotLedger,
		paymentGateway:  paymentGateway,
		slotCache:       slotCache,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает резервацию по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d", id)

	reservation, err := s.getReservation(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainReservation(reservation), nil
}

// GetByEmail получает историю резерваций клиента по email
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.ReservationListResponse, error) {
	s.logger.Info("GetByEmail: fetching reservations for email=%s", email)

	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("GetByEmail: repository error for email=%s: %v", email, err)
		return nil, fmt.Errorf("%w: GetByEmail - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByEmail: successfully fetched %d reservations for email=%s", len(reservations), email)
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет резервацию, освобождает место в слоте и возвращает
// отмененную резервацию
// Политика отмены: строго больше 2 часов до начала; момент начала
// составляется из даты и времени слота в UTC
func (s *Service) Cancel(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d", id)

	reservation, err := s.getReservation(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	if reservation.IsCancelled() {
		s.logger.Warn("Cancel: reservation id=%d is already cancelled", id)
		return nil, ErrAlreadyCancelled
	}

	startAt, err := reservation.StartAtUTC()
	if err != nil {
		s.logger.Error("Cancel: failed to compose start moment for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - failed to compose start moment: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now().UTC()
	deadline := startAt.Add(-time.Duration(domain.CancellationNoticeHours) * time.Hour)
	if !now.Before(deadline) {
		s.logger.Warn("Cancel: reservation id=%d is within the cancellation window, start=%s",
			id, startAt.Format(time.RFC3339))
		return nil, ErrCancellationWindow
	}

	// Переход статуса и возврат места выполняются в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.reservationRepo.Cancel(txCtx, id, now); err != nil {
			// Условный UPDATE проиграл гонку с параллельной отменой:
			// перехода не было, место не освобождаем
			if errors.Is(err, reservationRepo.ErrAlreadyCancelled) {
				return ErrAlreadyCancelled
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if err := s.slotLedger.Release(txCtx, reservation.SlotID); err != nil {
			// Пустой слот при отмене означает рассинхронизацию счётчика;
			// отмену не блокируем, но след в логах обязателен
			if errors.Is(err, timeslotRepo.ErrSlotNotOccupied) {
				s.logger.Error("Cancel: slot id=%d was not occupied while cancelling reservation id=%d",
					reservation.SlotID, id)
				return nil
			}
			return fmt.Errorf("%w: Cancel - failed to release slot: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Cancel: transaction failed for reservation id=%d: %v", id, err)
		return nil, err
	}

	s.invalidateCache(ctx, "Cancel", reservation.Date)

	reservation.Status = domain.StatusCancelled
	reservation.CancelledAt = &now

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", id)
	return models.FromDomainReservation(reservation), nil
}

// CreatePaymentIntent создает платежное намерение для резервации
// Сумма переводится в минорные единицы один раз, на границе со шлюзом
func (s *Service) CreatePaymentIntent(ctx context.Context, id int64) (*models.PaymentIntentResponse, error) {
	s.logger.Info("CreatePaymentIntent: reservation id=%d", id)

	reservation, err := s.getReservation(ctx, "CreatePaymentIntent", id)
	if err != nil {
		return nil, err
	}

	if reservation.IsCancelled() {
		s.logger.Warn("CreatePaymentIntent: reservation id=%d is cancelled", id)
		return nil, ErrAlreadyCancelled
	}

	if reservation.PaymentMethod == domain.PaymentCash {
		s.logger.Warn("CreatePaymentIntent: reservation id=%d is paid in cash", id)
		return nil, ErrPaymentNotApplicable
	}

	amountMinor := paymentgw.MinorUnits(reservation.TotalPrice)

	intent, err := s.paymentGateway.CreateIntent(ctx, paymentgw.CreateIntentRequest{
		ReservationID: reservation.ID,
		AmountMinor:   amountMinor,
		Currency:      string(reservation.Currency),
		Description:   fmt.Sprintf("Reservation #%d, %s %s", reservation.ID, reservation.Date.Format(domain.DateFormat), reservation.StartTime),
	})
	if err != nil {
		if errors.Is(err, paymentgw.ErrPaymentRejected) {
			s.logger.Warn("CreatePaymentIntent: gateway rejected reservation id=%d: %v", id, err)
			return nil, ErrPaymentRejected
		}
		s.logger.Error("CreatePaymentIntent: gateway error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: CreatePaymentIntent - gateway error: %v", ErrInternal, err)
	}

	if err := s.reservationRepo.SetPaymentIntent(ctx, id, intent.TransactionID); err != nil {
		s.logger.Error("CreatePaymentIntent: failed to store transaction id for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: CreatePaymentIntent - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreatePaymentIntent: created intent transaction_id=%s for reservation id=%d",
		intent.TransactionID, id)

	return &models.PaymentIntentResponse{
		ReservationID: reservation.ID,
		TransactionID: intent.TransactionID,
		ClientSecret:  intent.ClientSecret,
		AmountMinor:   amountMinor,
		Currency:      string(reservation.Currency),
	}, nil
}

// ConfirmPayment фиксирует успешный платеж и подтверждает резервацию
// Вызывается обработчиком webhook платежного шлюза
func (s *Service) ConfirmPayment(ctx context.Context, id int64, transactionID string, amountMinor *int64) error {
	s.logger.Info("ConfirmPayment: reservation id=%d, transaction_id=%s", id, transactionID)

	var amountPaid *float64
	if amountMinor != nil {
		amount := float64(*amountMinor) / 100
		amountPaid = &amount
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.reservationRepo.SetPaymentResult(txCtx, id, transactionID, amountPaid, domain.PaymentStatusSucceeded); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
		}

		if err := s.reservationRepo.ConfirmPending(txCtx, id); err != nil {
			// Cancelled — терминальный статус: событие об оплате отмененной
			// (или уже подтвержденной) резервации статус не трогает
			if errors.Is(err, reservationRepo.ErrNotPending) {
				s.logger.Warn("ConfirmPayment: reservation id=%d is not pending, status left intact", id)
				return nil
			}
			return fmt.Errorf("%w: ConfirmPayment - failed to confirm: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("ConfirmPayment: failed for reservation id=%d: %v", id, err)
		return err
	}

	s.logger.Info("ConfirmPayment: reservation id=%d confirmed", id)
	return nil
}

// MarkPaymentFailed фиксирует неуспешный платеж
// Резервация остается pending; её судьбу решает sweep после grace-периода
func (s *Service) MarkPaymentFailed(ctx context.Context, id int64, transactionID string) error {
	s.logger.Info("MarkPaymentFailed: reservation id=%d, transaction_id=%s", id, transactionID)

	if err := s.reservationRepo.SetPaymentResult(ctx, id, transactionID, nil, domain.PaymentStatusFailed); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("MarkPaymentFailed: reservation id=%d not found", id)
			return ErrReservationNotFound
		}
		s.logger.Error("MarkPaymentFailed: repository error for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: MarkPaymentFailed - repository error: %v", ErrInternal, err)
	}

	return nil
}

// SweepExpiredPending удаляет pending-резервации с проваленным платежом,
// не оплаченные за grace-период, и возвращает их места в слоты
// Возвращает количество удаленных резерваций
func (s *Service) SweepExpiredPending(ctx context.Context, grace time.Duration) (int, error) {
	now := s.timeProvider.Now().UTC()
	cutoff := now.Add(-grace)

	expired, err := s.reservationRepo.ListExpiredPending(ctx, cutoff)
	if err != nil {
		s.logger.Error("SweepExpiredPending: failed to list expired reservations: %v", err)
		return 0, fmt.Errorf("%w: SweepExpiredPending - repository error: %v", ErrInternal, err)
	}

	if len(expired) == 0 {
		return 0, nil
	}

	s.logger.Info("SweepExpiredPending: found %d expired pending reservations", len(expired))

	swept := 0
	for _, reservation := range expired {
		// Каждая резервация убирается в отдельной транзакции:
		// сбой на одной не блокирует остальные
		err := s.txManager.Do(ctx, func(txCtx context.Context) error {
			if err := s.reservationRepo.Delete(txCtx, reservation.ID); err != nil {
				return fmt.Errorf("failed to delete reservation id=%d: %v", reservation.ID, err)
			}

			if err := s.slotLedger.Release(txCtx, reservation.SlotID); err != nil {
				if errors.Is(err, timeslotRepo.ErrSlotNotOccupied) {
					s.logger.Error("SweepExpiredPending: slot id=%d was not occupied for reservation id=%d",
						reservation.SlotID, reservation.ID)
					return nil
				}
				return fmt.Errorf("failed to release slot id=%d: %v", reservation.SlotID, err)
			}

			return nil
		})
		if err != nil {
			s.logger.Error("SweepExpiredPending: %v", err)
			continue
		}

		s.invalidateCache(ctx, "SweepExpiredPending", reservation.Date)
		swept++

		s.logger.Info("SweepExpiredPending: removed reservation id=%d, released slot id=%d",
			reservation.ID, reservation.SlotID)
	}

	return swept, nil
}

// Вспомогательные методы

func (s *Service) getReservation(ctx context.Context, op string, id int64) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%d not found", op, id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return reservation, nil
}

// invalidateCache сбрасывает кэш доступных времён на дату (best-effort)
func (s *Service) invalidateCache(ctx context.Context, op string, date time.Time) {
	if s.slotCache == nil {
		return
	}
	if err := s.slotCache.Invalidate(ctx, date); err != nil {
		s.logger.Warn("%s: failed to invalidate slot cache for %s: %v",
			op, date.Format(domain.DateFormat), err)
	}
}
