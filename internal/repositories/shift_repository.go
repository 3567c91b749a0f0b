package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/evn/shiftpass_backend/internal/models"
)

type ShiftRepository struct {
	db DBTX
}

func NewShiftRepository(db DBTX) *ShiftRepository {
	return &ShiftRepository{db: db}
}

const shiftColumns = `
	s.id, s.start_time, s.end_time, s.value, s.location_id, l.name,
	s.user_id, s.has_pending_offer, s.version, s.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (*models.Shift, error) {
	var s models.Shift
	var locationName sql.NullString
	err := row.Scan(&s.ID, &s.StartTime, &s.EndTime, &s.Value, &s.LocationID, &locationName,
		&s.UserID, &s.HasPendingOffer, &s.Version, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.LocationName = locationName.String
	return &s, nil
}

// GetByID возвращает смену вместе с названием её локации.
func (r *ShiftRepository) GetByID(ctx context.Context, id int64) (*models.Shift, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT`+shiftColumns+`
		FROM shifts s
		LEFT JOIN locations l ON l.id = s.location_id
		WHERE s.id = $1`, id)

	shift, err := scanShift(row)
	if err != nil {
		return nil, classify(fmt.Errorf("shift %d: %w", id, err))
	}
	return shift, nil
}

// ListByUser - смены сотрудника по времени начала.
func (r *ShiftRepository) ListByUser(ctx context.Context, userID string) ([]models.Shift, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+shiftColumns+`
		FROM shifts s
		LEFT JOIN locations l ON l.id = s.location_id
		WHERE s.user_id = $1
		ORDER BY s.start_time, s.id`, userID)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query shifts: %w", err))
	}
	defer rows.Close()

	shifts := []models.Shift{}
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, *shift)
	}
	return shifts, rows.Err()
}

// Create сохраняет новую смену (без активной передачи) и проставляет ID.
func (r *ShiftRepository) Create(ctx context.Context, s *models.Shift) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO shifts (start_time, end_time, value, location_id, user_id, has_pending_offer, version)
		VALUES ($1, $2, $3, $4, $5, FALSE, 0)
		RETURNING id`,
		s.StartTime, s.EndTime, s.Value, s.LocationID, s.UserID,
	).Scan(&s.ID)
	if err != nil {
		return classify(fmt.Errorf("failed to create shift: %w", err))
	}
	s.HasPendingOffer = false
	s.Version = 0
	return nil
}

// Update меняет поля смены, если она не заблокирована передачей и не
// изменилась с момента чтения. Возвращает false, если ни одна строка не
// подошла под условие.
func (r *ShiftRepository) Update(ctx context.Context, s *models.Shift) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shifts
		SET start_time = $1, end_time = $2, value = $3, location_id = $4, version = version + 1
		WHERE id = $5 AND version = $6 AND has_pending_offer = FALSE`,
		s.StartTime, s.EndTime, s.Value, s.LocationID, s.ID, s.Version,
	)
	if err != nil {
		return false, classify(fmt.Errorf("failed to update shift %d: %w", s.ID, err))
	}
	ok, err := affectedOne(res)
	if ok {
		s.Version++
	}
	return ok, err
}

// DeleteUnlocked удаляет смену, только если у неё нет активной передачи.
func (r *ShiftRepository) DeleteUnlocked(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM shifts WHERE id = $1 AND has_pending_offer = FALSE`, id)
	if err != nil {
		return false, classify(fmt.Errorf("failed to delete shift %d: %w", id, err))
	}
	return affectedOne(res)
}

// MarkPending ставит флаг активной передачи, если он ещё не стоит.
// Это единственная точка входа для создания передачи: из двух параллельных
// попыток флаг получит только одна.
func (r *ShiftRepository) MarkPending(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shifts
		SET has_pending_offer = TRUE, version = version + 1
		WHERE id = $1 AND has_pending_offer = FALSE`, id)
	if err != nil {
		return false, classify(fmt.Errorf("failed to mark shift %d pending: %w", id, err))
	}
	return affectedOne(res)
}

// ClearPending снимает флаг активной передачи; остальные поля не трогаются.
func (r *ShiftRepository) ClearPending(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shifts
		SET has_pending_offer = FALSE, version = version + 1
		WHERE id = $1 AND has_pending_offer = TRUE`, id)
	if err != nil {
		return false, classify(fmt.Errorf("failed to clear pending flag of shift %d: %w", id, err))
	}
	return affectedOne(res)
}

// DeleteHandedOff удаляет исходную смену при принятии передачи.
func (r *ShiftRepository) DeleteHandedOff(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM shifts WHERE id = $1 AND has_pending_offer = TRUE`, id)
	if err != nil {
		return false, classify(fmt.Errorf("failed to delete handed-off shift %d: %w", id, err))
	}
	return affectedOne(res)
}

func affectedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}
