package venue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
	"github.com/m04kA/SMC-CourtRentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtRentalService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с кортами и их расписанием.
// Корт и окна расписания лежат в двух таблицах; операции записи, меняющие
// обе, вызывающая сторона оборачивает в транзакцию через txmanager.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кортов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает корт вместе с окнами расписания
func (r *Repository) Create(ctx context.Context, v *domain.Venue) (*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("venues").
		Columns("admin_id", "name", "description", "image_url", "price", "active").
		Values(v.AdminID, v.Name, v.Description, v.ImageURL, v.Price, v.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&v.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time

	if err := r.insertWindows(ctx, executor, v.ID, v.Schedule); err != nil {
		return nil, err
	}

	return v, nil
}

// GetByID получает корт по ID вместе с расписанием
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "admin_id", "name", "description", "image_url", "price", "active", "created_at", "updated_at",
	).
		From("venues").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var v domain.Venue
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&v.ID,
		&v.AdminID,
		&v.Name,
		&v.Description,
		&v.ImageURL,
		&v.Price,
		&v.Active,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan venue: %v", ErrScanRow, err)
	}

	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time

	schedules, err := r.loadWindows(ctx, executor, []int64{v.ID})
	if err != nil {
		return nil, err
	}
	v.Schedule = schedules[v.ID]

	return &v, nil
}

// ListActive получает все активные корты с расписанием
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Venue, error) {
	return r.list(ctx, squirrel.Eq{"active": true})
}

// ListByAdmin получает корты указанного администратора,
// включая деактивированные
func (r *Repository) ListByAdmin(ctx context.Context, adminID int64) ([]*domain.Venue, error) {
	return r.list(ctx, squirrel.Eq{"admin_id": adminID})
}

func (r *Repository) list(ctx context.Context, where squirrel.Eq) ([]*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "admin_id", "name", "description", "image_url", "price", "active", "created_at", "updated_at",
	).
		From("venues").
		Where(where).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: list - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	venues := make([]*domain.Venue, 0)
	ids := make([]int64, 0)

	for rows.Next() {
		var v domain.Venue
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&v.ID,
			&v.AdminID,
			&v.Name,
			&v.Description,
			&v.ImageURL,
			&v.Price,
			&v.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: list - scan row: %v", ErrScanRow, err)
		}

		v.CreatedAt = createdAt.Time
		v.UpdatedAt = updatedAt.Time

		venues = append(venues, &v)
		ids = append(ids, v.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list - rows error: %v", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return venues, nil
	}

	schedules, err := r.loadWindows(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, v := range venues {
		v.Schedule = schedules[v.ID]
	}

	return venues, nil
}

// Update обновляет поля корта и полностью заменяет окна расписания.
// Вызывается внутри транзакции, чтобы корт не оставался без расписания
// между delete и insert.
func (r *Repository) Update(ctx context.Context, v *domain.Venue) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("venues").
		Set("name", v.Name).
		Set("description", v.Description).
		Set("image_url", v.ImageURL).
		Set("price", v.Price).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": v.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrVenueNotFound
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("venue_schedule_windows").
		Where(squirrel.Eq{"venue_id": v.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build delete windows query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: Update - delete windows: %v", ErrExecQuery, err)
	}

	return r.insertWindows(ctx, executor, v.ID, v.Schedule)
}

// Deactivate выполняет логическое удаление корта
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("venues").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrVenueNotFound
	}

	return nil
}

func (r *Repository) insertWindows(ctx context.Context, executor DBExecutor, venueID int64, schedule domain.WeeklySchedule) error {
	if len(schedule) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("venue_schedule_windows").
		Columns("venue_id", "weekday", "start_time", "end_time")

	for _, w := range schedule {
		insertBuilder = insertBuilder.Values(venueID, int(w.Weekday), w.StartTime, w.EndTime)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertWindows - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertWindows - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) loadWindows(ctx context.Context, executor DBExecutor, venueIDs []int64) (map[int64]domain.WeeklySchedule, error) {
	query, args, err := psqlbuilder.Select("venue_id", "weekday", "start_time", "end_time").
		From("venue_schedule_windows").
		Where(squirrel.Eq{"venue_id": venueIDs}).
		OrderBy("venue_id ASC, weekday ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make(map[int64]domain.WeeklySchedule)
	for rows.Next() {
		var venueID int64
		var weekday int
		var window domain.ScheduleWindow

		if err := rows.Scan(&venueID, &weekday, &window.StartTime, &window.EndTime); err != nil {
			return nil, fmt.Errorf("%w: loadWindows - scan row: %v", ErrScanRow, err)
		}
		window.Weekday = time.Weekday(weekday)

		schedules[venueID] = append(schedules[venueID], window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadWindows - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}
