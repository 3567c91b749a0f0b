package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/evn/shiftpass_backend/internal/models"
)

// ShiftPassRepository хранит передачи смен и списки кандидатов.
type ShiftPassRepository struct {
	db DBTX
}

func NewShiftPassRepository(db DBTX) *ShiftPassRepository {
	return &ShiftPassRepository{db: db}
}

const shiftPassSelect = `
	SELECT sp.id, sp.active, sp.origin_shift_id, sp.start_time, sp.end_time, sp.value,
	       sp.location_name, sp.version, sp.created_at,
	       c.id, c.email, c.name,
	       f.id, f.email, f.name
	FROM shift_passes sp
	JOIN users c ON c.id = sp.created_by
	LEFT JOIN users f ON f.id = sp.final_user_id`

func scanShiftPass(row rowScanner) (*models.ShiftPass, error) {
	var (
		p                         models.ShiftPass
		finalID, finalEmail, name sql.NullString
	)
	err := row.Scan(&p.ID, &p.Active, &p.OriginalShiftID, &p.StartTime, &p.EndTime, &p.Value,
		&p.LocationName, &p.Version, &p.CreatedAt,
		&p.CreatedBy.ID, &p.CreatedBy.Email, &p.CreatedBy.Name,
		&finalID, &finalEmail, &name)
	if err != nil {
		return nil, err
	}
	if finalID.Valid {
		p.FinalUser = &models.UserSummary{ID: finalID.String, Email: finalEmail.String, Name: name.String}
	}
	p.OfferedUsers = []models.UserSummary{}
	return &p, nil
}

// Create сохраняет передачу вместе с кандидатами и проставляет ID.
// Нарушение уникальности активной передачи по смене даёт ErrDuplicateOffer.
func (r *ShiftPassRepository) Create(ctx context.Context, p *models.ShiftPass) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO shift_passes
			(created_by, active, final_user_id, origin_shift_id, start_time, end_time, value, location_name, version)
		VALUES ($1, $2, NULL, $3, $4, $5, $6, $7, 0)
		RETURNING id`,
		p.CreatedBy.ID, p.Active, p.OriginalShiftID, p.StartTime, p.EndTime, p.Value, p.LocationName,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: shift %d", models.ErrDuplicateOffer, p.OriginalShiftID)
		}
		return classify(fmt.Errorf("failed to create shift pass: %w", err))
	}

	for _, u := range p.OfferedUsers {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO shift_pass_offered_users (shift_pass_id, user_id) VALUES ($1, $2)`,
			p.ID, u.ID)
		if err != nil {
			return classify(fmt.Errorf("failed to add offered user %s: %w", u.ID, err))
		}
	}
	p.Version = 0
	return nil
}

// GetByID возвращает передачу с кандидатами.
func (r *ShiftPassRepository) GetByID(ctx context.Context, id int64) (*models.ShiftPass, error) {
	row := r.db.QueryRowContext(ctx, shiftPassSelect+` WHERE sp.id = $1`, id)
	pass, err := scanShiftPass(row)
	if err != nil {
		return nil, classify(fmt.Errorf("shift pass %d: %w", id, err))
	}
	if err := r.attachOfferedUsers(ctx, []*models.ShiftPass{pass}); err != nil {
		return nil, err
	}
	return pass, nil
}

// ListActiveOfferedTo - активные передачи, где сотрудник с этим email кандидат.
func (r *ShiftPassRepository) ListActiveOfferedTo(ctx context.Context, email string) ([]*models.ShiftPass, error) {
	return r.list(ctx, shiftPassSelect+`
		WHERE sp.active = TRUE AND sp.id IN (
			SELECT o.shift_pass_id
			FROM shift_pass_offered_users o
			JOIN users u ON u.id = o.user_id
			WHERE LOWER(u.email) = LOWER($1)
		)
		ORDER BY sp.start_time, sp.id`, email)
}

// ListCreatedBy - все сохранившиеся передачи автора (активные и принятые).
func (r *ShiftPassRepository) ListCreatedBy(ctx context.Context, userID string) ([]*models.ShiftPass, error) {
	return r.list(ctx, shiftPassSelect+`
		WHERE sp.created_by = $1
		ORDER BY sp.created_at DESC, sp.id DESC`, userID)
}

func (r *ShiftPassRepository) list(ctx context.Context, query string, args ...any) ([]*models.ShiftPass, error) {
	passes, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.attachOfferedUsers(ctx, passes); err != nil {
		return nil, err
	}
	return passes, nil
}

// query читает строки полностью и закрывает курсор до следующих запросов
// в той же транзакции.
func (r *ShiftPassRepository) query(ctx context.Context, query string, args ...any) ([]*models.ShiftPass, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query shift passes: %w", err))
	}
	defer rows.Close()

	passes := []*models.ShiftPass{}
	for rows.Next() {
		pass, err := scanShiftPass(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift pass: %w", err)
		}
		passes = append(passes, pass)
	}
	return passes, rows.Err()
}

func (r *ShiftPassRepository) attachOfferedUsers(ctx context.Context, passes []*models.ShiftPass) error {
	if len(passes) == 0 {
		return nil
	}

	byID := make(map[int64]*models.ShiftPass, len(passes))
	args := make([]any, 0, len(passes))
	for _, p := range passes {
		byID[p.ID] = p
		args = append(args, p.ID)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT o.shift_pass_id, u.id, u.email, u.name
		FROM shift_pass_offered_users o
		JOIN users u ON u.id = o.user_id
		WHERE o.shift_pass_id IN (%s)
		ORDER BY o.shift_pass_id, u.email`, placeholders(1, len(args))), args...)
	if err != nil {
		return classify(fmt.Errorf("failed to query offered users: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var passID int64
		var u models.UserSummary
		if err := rows.Scan(&passID, &u.ID, &u.Email, &u.Name); err != nil {
			return fmt.Errorf("failed to scan offered user: %w", err)
		}
		if p, ok := byID[passID]; ok {
			p.OfferedUsers = append(p.OfferedUsers, u)
		}
	}
	return rows.Err()
}

// MarkAccepted закрывает передачу в пользу finalUserID, только если она
// всё ещё активна и её версия не изменилась. false означает, что другая
// транзакция успела раньше.
func (r *ShiftPassRepository) MarkAccepted(ctx context.Context, id int64, version int, finalUserID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shift_passes
		SET active = FALSE, final_user_id = $1, version = version + 1
		WHERE id = $2 AND active = TRUE AND version = $3`,
		finalUserID, id, version)
	if err != nil {
		return false, classify(fmt.Errorf("failed to accept shift pass %d: %w", id, err))
	}
	return affectedOne(res)
}

// DeleteActive удаляет активную передачу той же версии вместе с кандидатами.
func (r *ShiftPassRepository) DeleteActive(ctx context.Context, id int64, version int) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM shift_pass_offered_users
		WHERE shift_pass_id IN (
			SELECT id FROM shift_passes WHERE id = $1 AND active = TRUE AND version = $2
		)`, id, version); err != nil {
		return false, classify(fmt.Errorf("failed to delete offered users of shift pass %d: %w", id, err))
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM shift_passes WHERE id = $1 AND active = TRUE AND version = $2`, id, version)
	if err != nil {
		return false, classify(fmt.Errorf("failed to delete shift pass %d: %w", id, err))
	}
	return affectedOne(res)
}
