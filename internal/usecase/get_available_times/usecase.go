package get_available_times

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	"github.com/m04kA/PC-ReservationService/internal/infra/cache/slotcache"
	"github.com/m04kA/PC-ReservationService/pkg/types"
)

// UseCase use case для получения доступных времён начала на дату
type UseCase struct {
	slotLedger   SlotLedger
	slotCache    SlotCache
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// slotCache может быть nil, тогда чтение всегда идет в реестр
func NewUseCase(slotLedger SlotLedger, slotCache SlotCache, logger Logger) *UseCase {
	return &UseCase{
		slotLedger:   slotLedger,
		slotCache:    slotCache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных времён
// Ответ — список времён начала слотов со свободной вместимостью,
// отфильтрованный от уже прошедших моментов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableTimes: date=%s", req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// 2. Проверяем дату против окна бронирования
	now := uc.timeProvider.Now().UTC()
	date := domain.NormalizeDate(req.Date)

	if err := validateDate(date, now); err != nil {
		uc.logger.Warn("GetAvailableTimes: date validation failed: %v", err)
		return nil, err
	}

	// 3. Пробуем кэш; промах и любая ошибка кэша ведут в реестр
	times, err := uc.cachedTimes(ctx, date)
	if err != nil {
		times, err = uc.slotLedger.ListStartTimesByDate(ctx, date)
		if err != nil {
			uc.logger.Error("GetAvailableTimes: failed to list start times: %v", err)
			return nil, fmt.Errorf("%w: failed to list start times: %v", ErrInternal, err)
		}

		if uc.slotCache != nil {
			if err := uc.slotCache.SetTimes(ctx, date, times); err != nil {
				uc.logger.Warn("GetAvailableTimes: failed to cache times for %s: %v",
					date.Format(domain.DateFormat), err)
			}
		}
	}

	// 4. Отфильтровываем времена, которые уже наступили
	filtered, err := filterFutureTimes(times, date, now)
	if err != nil {
		uc.logger.Error("GetAvailableTimes: failed to filter times: %v", err)
		return nil, fmt.Errorf("%w: failed to filter times: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableTimes: %d available times for %s",
		len(filtered), date.Format(domain.DateFormat))

	return &Response{
		Date:  date,
		Times: filtered,
	}, nil
}

func (uc *UseCase) cachedTimes(ctx context.Context, date time.Time) ([]types.TimeString, error) {
	if uc.slotCache == nil {
		return nil, slotcache.ErrCacheMiss
	}

	times, err := uc.slotCache.GetTimes(ctx, date)
	if err != nil {
		if !errors.Is(err, slotcache.ErrCacheMiss) {
			uc.logger.Warn("GetAvailableTimes: cache read failed for %s: %v",
				date.Format(domain.DateFormat), err)
		}
		return nil, err
	}

	return times, nil
}

// validateDate проверяет, что дата не в прошлом и попадает в окно бронирования
func validateDate(date, now time.Time) error {
	today := domain.NormalizeDate(now)

	if date.Before(today) {
		return ErrInvalidDate
	}

	maxDate := domain.NormalizeDate(now.Add(time.Duration(domain.MaxAdvanceBookingHours) * time.Hour))
	if date.After(maxDate) {
		return fmt.Errorf("%w: can only view up to %d hours in advance", ErrDateOutOfWindow, domain.MaxAdvanceBookingHours)
	}

	return nil
}

// filterFutureTimes отбрасывает времена начала, момент которых уже прошел
func filterFutureTimes(times []types.TimeString, date, now time.Time) ([]types.TimeString, error) {
	filtered := make([]types.TimeString, 0, len(times))

	for _, t := range times {
		startAt, err := t.AtDate(date)
		if err != nil {
			return nil, err
		}
		if startAt.After(now) {
			filtered = append(filtered, t)
		}
	}

	return filtered, nil
}
