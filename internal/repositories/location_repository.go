package repositories

import (
	"context"
	"fmt"

	"github.com/evn/shiftpass_backend/internal/models"
)

type LocationRepository struct {
	db DBTX
}

func NewLocationRepository(db DBTX) *LocationRepository {
	return &LocationRepository{db: db}
}

// FindByID возвращает активную локацию. Деактивированная считается отсутствующей.
func (r *LocationRepository) FindByID(ctx context.Context, id int64) (*models.Location, error) {
	var loc models.Location
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, owner_id, active
		FROM locations
		WHERE id = $1 AND active = TRUE`,
		id,
	).Scan(&loc.ID, &loc.Name, &loc.OwnerID, &loc.Active)
	if err != nil {
		return nil, classify(fmt.Errorf("location %d: %w", id, err))
	}
	return &loc, nil
}

// ListActiveByOwner - активные локации сотрудника.
func (r *LocationRepository) ListActiveByOwner(ctx context.Context, ownerID string) ([]models.Location, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, owner_id, active
		FROM locations
		WHERE owner_id = $1 AND active = TRUE
		ORDER BY name, id`,
		ownerID,
	)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query locations: %w", err))
	}
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.OwnerID, &loc.Active); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// Create добавляет локацию и проставляет ей ID.
func (r *LocationRepository) Create(ctx context.Context, loc *models.Location) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO locations (name, owner_id, active)
		VALUES ($1, $2, $3)
		RETURNING id`,
		loc.Name, loc.OwnerID, loc.Active,
	).Scan(&loc.ID)
	if err != nil {
		return classify(fmt.Errorf("failed to create location: %w", err))
	}
	return nil
}
