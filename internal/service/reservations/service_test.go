package reservations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/PC-ReservationService/internal/infra/storage/reservation"
	timeslotRepo "github.com/m04kA/PC-ReservationService/internal/infra/storage/timeslot"
	"github.com/m04kA/PC-ReservationService/internal/integrations/paymentgw"
	"github.com/m04kA/PC-ReservationService/pkg/ptr"
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

type fakeRepo struct {
	mu           sync.Mutex
	reservations map[int64]*domain.Reservation
	expired      []*domain.Reservation
	deleted      []int64
}

func newFakeRepo(reservations ...*domain.Reservation) *fakeRepo {
	repo := &fakeRepo{reservations: make(map[int64]*domain.Reservation)}
	for _, r := range reservations {
		repo.reservations[r.ID] = r
	}
	return repo
}

func (r *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *reservation
	return &copied, nil
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, reservation := range r.reservations {
		if reservation.Customer.Email == email {
			copied := *reservation
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeRepo) Cancel(ctx context.Context, id int64, cancelledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok || reservation.Status == domain.StatusCancelled {
		return reservationRepo.ErrAlreadyCancelled
	}
	reservation.Status = domain.StatusCancelled
	reservation.CancelledAt = &cancelledAt
	return nil
}

func (r *fakeRepo) ConfirmPending(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok || reservation.Status != domain.StatusPending {
		return reservationRepo.ErrNotPending
	}
	reservation.Status = domain.StatusConfirmed
	return nil
}

func (r *fakeRepo) SetPaymentIntent(ctx context.Context, id int64, transactionID string) error {
	reservation, ok := r.reservations[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	reservation.Payment.TransactionID = &transactionID
	return nil
}

func (r *fakeRepo) SetPaymentResult(ctx context.Context, id int64, transactionID string, amountPaid *float64, status domain.PaymentStatus) error {
	reservation, ok := r.reservations[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	reservation.Payment.TransactionID = &transactionID
	reservation.Payment.AmountPaid = amountPaid
	reservation.Payment.Status = status
	return nil
}

func (r *fakeRepo) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*domain.Reservation, error) {
	return r.expired, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.reservations[id]; !ok {
		return reservationRepo.ErrReservationNotFound
	}
	delete(r.reservations, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeLedger struct {
	mu        sync.Mutex
	occupancy map[int64]int
	released  []int64
}

func newFakeLedger(occupancy map[int64]int) *fakeLedger {
	return &fakeLedger{occupancy: occupancy}
}

func (l *fakeLedger) Release(ctx context.Context, slotID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.occupancy[slotID] <= 0 {
		return timeslotRepo.ErrSlotNotOccupied
	}
	l.occupancy[slotID]--
	l.released = append(l.released, slotID)
	return nil
}

type fakeGateway struct {
	intent *paymentgw.Intent
	err    error
	gotReq paymentgw.CreateIntentRequest
}

func (g *fakeGateway) CreateIntent(ctx context.Context, req paymentgw.CreateIntentRequest) (*paymentgw.Intent, error) {
	g.gotReq = req
	if g.err != nil {
		return nil, g.err
	}
	return g.intent, nil
}

type fakeCache struct {
	invalidated []time.Time
}

func (c *fakeCache) Invalidate(ctx context.Context, date time.Time) error {
	c.invalidated = append(c.invalidated, date)
	return nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	testNow  = time.Date(2026, 7, 14, 7, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
)

// Начало в 10:00 UTC 14-го; now = 07:00, до начала 3 часа
func testReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:     1,
		SlotID: 5,
		Customer: domain.Customer{
			FullName: "Ana Morales",
			Email:    "ana@example.com",
			Phone:    "+54911223344",
		},
		Date:          testDate,
		StartTime:     "10:00",
		TotalPrice:    216,
		PaymentMethod: domain.PaymentCard,
		Currency:      domain.CurrencyUSD,
		Status:        domain.StatusConfirmed,
		Payment:       domain.PaymentDetails{Status: domain.PaymentStatusPending},
	}
}

func newTestService(repo *fakeRepo, ledger *fakeLedger, gateway *fakeGateway, cache *fakeCache, now time.Time) *Service {
	svc := NewService(repo, ledger, gateway, cache, &fakeTxManager{}, nopLogger{})
	svc.timeProvider = &fixedTimeProvider{now: now}
	return svc
}

func TestCancel_MoreThanTwoHoursBefore(t *testing.T) {
	repo := newFakeRepo(testReservation())
	ledger := newFakeLedger(map[int64]int{5: 1})
	cache := &fakeCache{}
	svc := newTestService(repo, ledger, nil, cache, testNow)

	resp, err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, repo.reservations[1].Status)
	assert.NotNil(t, repo.reservations[1].CancelledAt)
	assert.Equal(t, []int64{5}, ledger.released)
	assert.Len(t, cache.invalidated, 1)

	// Ответ — отмененная резервация целиком
	require.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, testNow.Format(time.RFC3339), *resp.CancelledAt)
}

func TestCancel_JustOutsideWindowAllowed(t *testing.T) {
	// 07:59 при начале в 10:00 — до начала 2 часа 1 минута
	now := time.Date(2026, 7, 14, 7, 59, 0, 0, time.UTC)
	repo := newFakeRepo(testReservation())
	ledger := newFakeLedger(map[int64]int{5: 1})
	svc := newTestService(repo, ledger, nil, &fakeCache{}, now)

	_, err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, ledger.released, 1)
}

func TestCancel_ExactlyTwoHoursBlocked(t *testing.T) {
	now := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC)
	repo := newFakeRepo(testReservation())
	ledger := newFakeLedger(map[int64]int{5: 1})
	svc := newTestService(repo, ledger, nil, &fakeCache{}, now)

	_, err := svc.Cancel(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCancellationWindow)
	assert.Equal(t, domain.StatusConfirmed, repo.reservations[1].Status)
	assert.Empty(t, ledger.released)
}

func TestCancel_InsideWindowBlocked(t *testing.T) {
	// 08:01 — до начала 1 час 59 минут
	now := time.Date(2026, 7, 14, 8, 1, 0, 0, time.UTC)
	repo := newFakeRepo(testReservation())
	ledger := newFakeLedger(map[int64]int{5: 1})
	svc := newTestService(repo, ledger, nil, &fakeCache{}, now)

	_, err := svc.Cancel(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCancellationWindow)
	assert.Empty(t, ledger.released)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	reservation := testReservation()
	reservation.Status = domain.StatusCancelled
	repo := newFakeRepo(reservation)
	ledger := newFakeLedger(map[int64]int{5: 1})
	svc := newTestService(repo, ledger, nil, &fakeCache{}, testNow)

	_, err := svc.Cancel(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	// Повторная отмена не должна освобождать место второй раз
	assert.Empty(t, ledger.released)
}

func TestCancel_NotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeLedger(nil), nil, &fakeCache{}, testNow)

	_, err := svc.Cancel(context.Background(), 99)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

// barrierTimeProvider пропускает горутины через Now одновременно:
// обе успевают прочитать резервацию до того, как первая её отменит
type barrierTimeProvider struct {
	now     time.Time
	barrier *sync.WaitGroup
}

func newBarrierTimeProvider(now time.Time, parties int) *barrierTimeProvider {
	wg := &sync.WaitGroup{}
	wg.Add(parties)
	return &barrierTimeProvider{now: now, barrier: wg}
}

func (p *barrierTimeProvider) Now() time.Time {
	p.barrier.Done()
	p.barrier.Wait()
	return p.now
}

func TestCancel_ConcurrentReleasesOnce(t *testing.T) {
	repo := newFakeRepo(testReservation())
	ledger := newFakeLedger(map[int64]int{5: 1})
	svc := newTestService(repo, ledger, nil, &fakeCache{}, testNow)
	svc.timeProvider = newBarrierTimeProvider(testNow, 2)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.Cancel(context.Background(), 1)
			errs <- err
		}()
	}

	var cancelled, alreadyCancelled int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			cancelled++
		case errors.Is(err, ErrAlreadyCancelled):
			alreadyCancelled++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Переход выполняется один раз, место возвращается один раз
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, 1, alreadyCancelled)
	assert.Equal(t, []int64{5}, ledger.released)
}

func TestGetByEmail(t *testing.T) {
	other := testReservation()
	other.ID = 2
	other.Customer.Email = "otro@example.com"
	repo := newFakeRepo(testReservation(), other)
	svc := newTestService(repo, newFakeLedger(nil), nil, &fakeCache{}, testNow)

	resp, err := svc.GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, int64(1), resp.Reservations[0].ID)
}

func TestCreatePaymentIntent_Success(t *testing.T) {
	repo := newFakeRepo(testReservation())
	gateway := &fakeGateway{intent: &paymentgw.Intent{TransactionID: "txn_1", ClientSecret: "cs_1"}}
	svc := newTestService(repo, newFakeLedger(nil), gateway, &fakeCache{}, testNow)

	resp, err := svc.CreatePaymentIntent(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "txn_1", resp.TransactionID)
	assert.Equal(t, int64(21600), resp.AmountMinor)
	assert.Equal(t, int64(21600), gateway.gotReq.AmountMinor)
	require.NotNil(t, repo.reservations[1].Payment.TransactionID)
	assert.Equal(t, "txn_1", *repo.reservations[1].Payment.TransactionID)
}

func TestCreatePaymentIntent_CashNotApplicable(t *testing.T) {
	reservation := testReservation()
	reservation.PaymentMethod = domain.PaymentCash
	svc := newTestService(newFakeRepo(reservation), newFakeLedger(nil), &fakeGateway{}, &fakeCache{}, testNow)

	_, err := svc.CreatePaymentIntent(context.Background(), 1)
	assert.ErrorIs(t, err, ErrPaymentNotApplicable)
}

func TestCreatePaymentIntent_GatewayRejected(t *testing.T) {
	gateway := &fakeGateway{err: paymentgw.ErrPaymentRejected}
	svc := newTestService(newFakeRepo(testReservation()), newFakeLedger(nil), gateway, &fakeCache{}, testNow)

	_, err := svc.CreatePaymentIntent(context.Background(), 1)
	assert.ErrorIs(t, err, ErrPaymentRejected)
}

func TestConfirmPayment(t *testing.T) {
	reservation := testReservation()
	reservation.Status = domain.StatusPending
	repo := newFakeRepo(reservation)
	svc := newTestService(repo, newFakeLedger(nil), nil, &fakeCache{}, testNow)

	require.NoError(t, svc.ConfirmPayment(context.Background(), 1, "txn_1", ptr.Ptr(int64(21600))))

	assert.Equal(t, domain.StatusConfirmed, repo.reservations[1].Status)
	assert.Equal(t, domain.PaymentStatusSucceeded, repo.reservations[1].Payment.Status)
	require.NotNil(t, repo.reservations[1].Payment.AmountPaid)
	assert.Equal(t, 216.0, *repo.reservations[1].Payment.AmountPaid)
}

func TestConfirmPayment_CancelledStaysCancelled(t *testing.T) {
	reservation := testReservation()
	reservation.Status = domain.StatusCancelled
	repo := newFakeRepo(reservation)
	svc := newTestService(repo, newFakeLedger(nil), nil, &fakeCache{}, testNow)

	require.NoError(t, svc.ConfirmPayment(context.Background(), 1, "txn_1", ptr.Ptr(int64(21600))))

	// Отмена терминальна: запоздавший webhook не воскрешает резервацию,
	// место которой уже возвращено в слот
	assert.Equal(t, domain.StatusCancelled, repo.reservations[1].Status)
	// Сам факт оплаты при этом фиксируется
	assert.Equal(t, domain.PaymentStatusSucceeded, repo.reservations[1].Payment.Status)
}

func TestConfirmPayment_AlreadyConfirmedIdempotent(t *testing.T) {
	repo := newFakeRepo(testReservation())
	svc := newTestService(repo, newFakeLedger(nil), nil, &fakeCache{}, testNow)

	require.NoError(t, svc.ConfirmPayment(context.Background(), 1, "txn_1", ptr.Ptr(int64(21600))))
	assert.Equal(t, domain.StatusConfirmed, repo.reservations[1].Status)
}

func TestMarkPaymentFailed(t *testing.T) {
	reservation := testReservation()
	reservation.Status = domain.StatusPending
	repo := newFakeRepo(reservation)
	svc := newTestService(repo, newFakeLedger(nil), nil, &fakeCache{}, testNow)

	require.NoError(t, svc.MarkPaymentFailed(context.Background(), 1, "txn_1"))

	// Статус не меняется, резервацию убирает sweep после grace-периода
	assert.Equal(t, domain.StatusPending, repo.reservations[1].Status)
	assert.Equal(t, domain.PaymentStatusFailed, repo.reservations[1].Payment.Status)
}

func TestSweepExpiredPending(t *testing.T) {
	first := testReservation()
	first.Status = domain.StatusPending
	first.Payment.Status = domain.PaymentStatusFailed

	second := testReservation()
	second.ID = 2
	second.SlotID = 6
	second.Status = domain.StatusPending
	second.Payment.Status = domain.PaymentStatusFailed

	repo := newFakeRepo(first, second)
	repo.expired = []*domain.Reservation{first, second}
	ledger := newFakeLedger(map[int64]int{5: 1, 6: 1})
	cache := &fakeCache{}
	svc := newTestService(repo, ledger, nil, cache, testNow)

	swept, err := svc.SweepExpiredPending(context.Background(), 15*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 2, swept)
	assert.ElementsMatch(t, []int64{1, 2}, repo.deleted)
	assert.ElementsMatch(t, []int64{5, 6}, ledger.released)
	assert.Len(t, cache.invalidated, 2)
}

func TestSweepExpiredPending_Empty(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeLedger(nil), nil, &fakeCache{}, testNow)

	swept, err := svc.SweepExpiredPending(context.Background(), 15*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, swept)
}
