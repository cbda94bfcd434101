package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func pendingReservation() *domain.Reservation {
	return &domain.Reservation{
		UserID:    42,
		VenueID:   1,
		Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		Status:    domain.StatusPending,
		Amount:    15000,
		ExpiresAt: time.Date(2025, 6, 1, 9, 10, 0, 0, time.UTC),
	}
}

// reservationRow полная строка таблицы reservations для моков выборок.
// token - string или nil (колонка payment_token допускает NULL).
func reservationRow(id int64, status domain.ReservationStatus, token interface{}) *sqlmock.Rows {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(reservationColumns).
		AddRow(id, int64(42), int64(1), now, "10:00", string(status), 15000.0, token, nil, now.Add(10*time.Minute), now, now)
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(7), now, now))

	created, err := repo.Create(context.Background(), pendingReservation())

	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_SlotConflictMapsUniqueViolation(t *testing.T) {
	repo, mock := newTestRepository(t)

	// Конкурирующая вставка того же слота упирается в частичный
	// уникальный индекс по live-статусам
	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_reservations_live_slot"})

	created, err := repo.Create(context.Background(), pendingReservation())

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Nil(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_OtherErrorNotMappedToSlotTaken(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnError(errors.New("connection reset"))

	created, err := repo.Create(context.Background(), pendingReservation())

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotTaken)
	assert.Nil(t, created)
}

func TestCreate_NonUniquePqErrorNotMappedToSlotTaken(t *testing.T) {
	repo, mock := newTestRepository(t)

	// Нарушение NOT NULL - тоже pq.Error, но не конфликт слота
	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnError(&pq.Error{Code: "23502"})

	created, err := repo.Create(context.Background(), pendingReservation())

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotTaken)
	assert.Nil(t, created)
}

func TestApplyOutcome_LostRaceReturnsNotPending(t *testing.T) {
	repo, mock := newTestRepository(t)

	// CAS-условие status = 'pending' не совпало: бронь уже терминальна
	mock.ExpectExec("UPDATE reservations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM reservations").
		WillReturnRows(reservationRow(7, domain.StatusCancelled, nil))

	err := repo.ApplyOutcome(context.Background(), 7, domain.StatusConfirmed, `{"status":"AUTHORIZED"}`)

	assert.ErrorIs(t, err, ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyOutcome_MissingReservation(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec("UPDATE reservations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM reservations").
		WillReturnRows(sqlmock.NewRows(reservationColumns))

	err := repo.ApplyOutcome(context.Background(), 99, domain.StatusConfirmed, "{}")

	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestAttachPaymentToken_SecondAttachRejected(t *testing.T) {
	repo, mock := newTestRepository(t)

	// Условие payment_token IS NULL не совпало: токен уже записан
	mock.ExpectExec("UPDATE reservations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM reservations").
		WillReturnRows(reservationRow(7, domain.StatusPending, "tok-first"))

	err := repo.AttachPaymentToken(context.Background(), 7, "tok-second")

	assert.ErrorIs(t, err, ErrTokenAlreadyAttached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_LostRaceReturnsNotPending(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec("UPDATE reservations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM reservations").
		WillReturnRows(reservationRow(7, domain.StatusConfirmed, "tok-123"))

	err := repo.Cancel(context.Background(), 7)

	assert.ErrorIs(t, err, ErrNotPending)
}

func TestDelete_MissingReservation(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec("DELETE FROM reservations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, ErrReservationNotFound)
}
