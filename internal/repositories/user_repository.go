package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/evn/shiftpass_backend/internal/models"
	"github.com/google/uuid"
)

// UserRepository - справочник сотрудников (только чтение для передачи смен).
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail ищет сотрудника по email без учёта регистра.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, city, state, professional_type
		FROM users
		WHERE LOWER(email) = LOWER($1)`,
		strings.TrimSpace(email),
	).Scan(&u.ID, &u.Name, &u.Email, &u.City, &u.State, &u.ProfessionalType)
	if err != nil {
		return nil, classify(fmt.Errorf("user %q: %w", email, err))
	}
	return &u, nil
}

// FindByIDs возвращает найденных сотрудников. Некорректные и неизвестные
// идентификаторы молча пропускаются, дубликаты схлопываются.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	seen := make(map[string]bool, len(ids))
	args := make([]any, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		key := id.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		args = append(args, key)
	}
	if len(args) == 0 {
		return []models.User{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, city, state, professional_type
		FROM users
		WHERE id IN (%s)
		ORDER BY email`, placeholders(1, len(args)))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query users: %w", err))
	}
	defer rows.Close()

	users := make([]models.User, 0, len(args))
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.City, &u.State, &u.ProfessionalType); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create добавляет сотрудника; пустой ID заменяется новым UUID.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, city, state, professional_type)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, u.City, u.State, u.ProfessionalType,
	)
	if err != nil {
		return classify(fmt.Errorf("failed to create user: %w", err))
	}
	return nil
}

// List возвращает всех сотрудников (для выбора кандидатов).
func (r *UserRepository) List(ctx context.Context) ([]models.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, name FROM users ORDER BY email`)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query users: %w", err))
	}
	defer rows.Close()

	users := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Email, &u.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
