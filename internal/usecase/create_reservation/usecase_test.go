package create_reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	timeslotRepo "github.com/m04kA/PC-ReservationService/internal/infra/storage/timeslot"
	"github.com/m04kA/PC-ReservationService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

// fakeLedger реестр слотов в памяти с той же CAS-семантикой,
// что у условного UPDATE в Postgres
type fakeLedger struct {
	mu   sync.Mutex
	slot *domain.TimeSlot
}

func (l *fakeLedger) FindByDateTime(ctx context.Context, date time.Time, startTime types.TimeString) (*domain.TimeSlot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.slot == nil ||
		!domain.NormalizeDate(date).Equal(l.slot.Date) ||
		startTime != l.slot.StartTime {
		return nil, timeslotRepo.ErrSlotNotFound
	}

	copied := *l.slot
	return &copied, nil
}

func (l *fakeLedger) TryReserve(ctx context.Context, slotID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.slot == nil || l.slot.ID != slotID {
		return timeslotRepo.ErrSlotNotFound
	}
	if l.slot.CurrentReservations >= l.slot.MaxCapacity {
		return timeslotRepo.ErrSlotUnavailable
	}

	l.slot.CurrentReservations++
	l.slot.IsAvailable = l.slot.CurrentReservations < l.slot.MaxCapacity
	return nil
}

type fakeReservationRepo struct {
	mu      sync.Mutex
	nextID  int64
	created []*domain.Reservation
}

func (r *fakeReservationRepo) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	copied := *reservation
	copied.ID = r.nextID
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	r.created = append(r.created, &copied)
	return &copied, nil
}

type fakeProductRepo struct {
	products map[int64]*domain.Product
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	result := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated []time.Time
}

func (c *fakeCache) Invalidate(ctx context.Context, date time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, date)
	return nil
}

// fakeTxManager выполняет функцию без реальной транзакции; откат эмулируется
// тем, что провалившийся резерв возвращает ошибку до записи в created
type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	testNow  = time.Date(2026, 7, 13, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
)

func newTestSlot(capacity int) *domain.TimeSlot {
	return &domain.TimeSlot{
		ID:                  1,
		Date:                testDate,
		StartTime:           "10:00",
		DurationMinutes:     domain.DefaultSlotDurationMinutes,
		MaxCapacity:         capacity,
		CurrentReservations: 0,
		IsAvailable:         true,
	}
}

func testCatalog() map[int64]*domain.Product {
	return map[int64]*domain.Product{
		1: {
			ID:                  1,
			Name:                domain.ProductJetSky,
			Price:               100,
			RequiresHelmet:      true,
			RequiresVest:        true,
			MaxPeople:           2,
			MaxConsecutiveSlots: 3,
		},
		2: {
			ID:                  2,
			Name:                domain.ProductSurfboard,
			Price:               60,
			MaxPeople:           1,
			MaxConsecutiveSlots: 3,
		},
	}
}

func newTestUseCase(ledger *fakeLedger, repo *fakeReservationRepo, cache *fakeCache) *UseCase {
	uc := NewUseCase(
		repo,
		&fakeProductRepo{products: testCatalog()},
		ledger,
		cache,
		&fakeTxManager{},
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func validRequest() *Request {
	return &Request{
		Customer: domain.Customer{
			FullName: "Ana Morales",
			Email:    "ana@example.com",
			Phone:    "+54911223344",
		},
		Date:          testDate,
		StartTime:     "10:00",
		PaymentMethod: domain.PaymentCard,
		Currency:      domain.CurrencyUSD,
		Items: []ItemRequest{
			{ProductID: 1, Quantity: 2, Slots: 1, Helmets: 2, Vests: 2},
		},
	}
}

func TestExecute_Success_CardConfirmed(t *testing.T) {
	ledger := &fakeLedger{slot: newTestSlot(10)}
	repo := &fakeReservationRepo{}
	cache := &fakeCache{}
	uc := newTestUseCase(ledger, repo, cache)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Nil(t, resp.PaymentDue)
	assert.Equal(t, 200.0, resp.TotalPrice)
	assert.Equal(t, 1, ledger.slot.CurrentReservations)
	assert.Len(t, cache.invalidated, 1)
}

func TestExecute_CashPendingWithPaymentDue(t *testing.T) {
	ledger := &fakeLedger{slot: newTestSlot(10)}
	uc := newTestUseCase(ledger, &fakeReservationRepo{}, &fakeCache{})

	req := validRequest()
	req.PaymentMethod = domain.PaymentCash

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	require.NotNil(t, resp.PaymentDue)
	// Срок оплаты — за 2 часа до начала: 14-го в 10:00 UTC минус 2 часа
	assert.Equal(t, time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC), resp.PaymentDue.UTC())
}

func TestExecute_BundleDiscountAndInsurance(t *testing.T) {
	ledger := &fakeLedger{slot: newTestSlot(10)}
	uc := newTestUseCase(ledger, &fakeReservationRepo{}, &fakeCache{})

	req := validRequest()
	req.StormInsurance = true
	req.Items = []ItemRequest{
		{ProductID: 1, Quantity: 2, Slots: 1, Helmets: 2, Vests: 2}, // 200
		{ProductID: 2, Quantity: 1, Slots: 1},                       // 60
	}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// (200 + 60) * 0.9 * 1.2
	assert.InDelta(t, 280.8, resp.TotalPrice, 1e-9)
}

func TestExecute_PastStartRejected(t *testing.T) {
	ledger := &fakeLedger{slot: newTestSlot(10)}
	uc := newTestUseCase(ledger, &fakeReservationRepo{}, &fakeCache{})

	req := validRequest()
	req.Date = time.Date(2026, 7, 13, 0, 0, 0, 0, time.UTC)
	req.StartTime = "09:00" // now = 13-го 12:00 UTC

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_BookingWindowExceeded(t *testing.T) {
	ledger := &fakeLedger{slot: newTestSlot(10)}
	uc := newTestUseCase(ledger, &fakeReservationRepo{}, &fakeCache{})

	req := validRequest()
	req.Date = time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	req.StartTime = "12:30" // 48 часов и 30 минут от now

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingWindowExceeded)
}

func TestExecute_ExactlyAtWindowBoundaryAllowed(t *testing.T) {
	slot := newTestSlot(10)
	slot.Date = time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	slot.StartTime = "12:00"
	ledger := &fakeLedger{slot: slot}
	uc := newTestUseCase(ledger, &fakeReservationRepo{}, &fakeCache{})

	req := validRequest()
	req.Date = slot.Date
	req.StartTime = "12:00" // ровно 48 часов от now

	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_ProductNotFound(t *testing.T) {
	ledger := &fakeLedger{slot: newTestSlot(10)}
	uc := newTestUseCase(ledger, &fakeReservationRepo{}, &fakeCache{})

	req := validRequest()
	req.Items = []ItemRequest{{ProductID: 999, Quantity: 1, Slots: 1}}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestExecute_CapacityExceeded(t *testing.T) {
	ledger := &fakeLedger{slot: newTestSlot(10)}
	uc := newTestUseCase(ledger, &fakeReservationRepo{}, &fakeCache{})

	req := validRequest()
	req.Items = []ItemRequest{{ProductID: 1, Quantity: 3, Slots: 1, Helmets: 3, Vests: 3}}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestExecute_TooManySlots(t *testing.T) {
	ledger := &fakeLedger{slot: newTestSlot(10)}
	uc := newTestUseCase(ledger, &fakeReservationRepo{}, &fakeCache{})

	req := validRequest()
	req.Items = []ItemRequest{{ProductID: 1, Quantity: 1, Slots: 4, Helmets: 1, Vests: 1}}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooManySlots)
}

func TestExecute_SafetyEquipmentMissing(t *testing.T) {
	ledger := &fakeLedger{slot: newTestSlot(10)}
	uc := newTestUseCase(ledger, &fakeReservationRepo{}, &fakeCache{})

	req := validRequest()
	req.Items = []ItemRequest{{ProductID: 1, Quantity: 2, Slots: 1, Helmets: 1, Vests: 2}}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSafetyEquipmentMissing)
}

func TestExecute_UnknownSlotUnavailable(t *testing.T) {
	ledger := &fakeLedger{slot: newTestSlot(10)}
	uc := newTestUseCase(ledger, &fakeReservationRepo{}, &fakeCache{})

	req := validRequest()
	req.StartTime = "10:30" // слота на это время нет

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_FullSlotUnavailable(t *testing.T) {
	slot := newTestSlot(1)
	slot.CurrentReservations = 1
	slot.IsAvailable = false
	ledger := &fakeLedger{slot: slot}
	cache := &fakeCache{}
	uc := newTestUseCase(ledger, &fakeReservationRepo{}, cache)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Empty(t, cache.invalidated)
}

// При конкурентных запросах на слот вместимости C успешными должны стать
// ровно min(N, C) резерваций
func TestExecute_ConcurrentReservationsBoundedByCapacity(t *testing.T) {
	const capacity = 4
	const attempts = 16

	ledger := &fakeLedger{slot: newTestSlot(capacity)}
	repo := &fakeReservationRepo{}
	uc := newTestUseCase(ledger, repo, &fakeCache{})

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validRequest())
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	succeeded, unavailable := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotUnavailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, attempts-capacity, unavailable)
	assert.Equal(t, capacity, ledger.slot.CurrentReservations)
}
