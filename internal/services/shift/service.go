// Package shift управляет сменами сотрудника. Смена с активной передачей
// заблокирована: изменить или удалить её нельзя, пока передача не принята
// или не отменена.
package shift

import (
	"context"
	"fmt"
	"log"

	"github.com/evn/shiftpass_backend/internal/models"
	"github.com/evn/shiftpass_backend/internal/repositories"
	"github.com/evn/shiftpass_backend/internal/services/shiftpass"
)

type Service struct {
	store     *repositories.Store
	workers   shiftpass.WorkerDirectory
	locations shiftpass.LocationDirectory
}

func NewService(store *repositories.Store, workers shiftpass.WorkerDirectory, locations shiftpass.LocationDirectory) *Service {
	return &Service{store: store, workers: workers, locations: locations}
}

// List возвращает смены сотрудника.
func (s *Service) List(ctx context.Context, email string) ([]models.Shift, error) {
	worker, err := s.workers.FindByEmail(ctx, email)
	if err != nil {
		return nil, models.Wrap("resolve worker", err)
	}
	shifts, err := s.store.Shifts.ListByUser(ctx, worker.ID)
	if err != nil {
		return nil, models.Wrap("list shifts", err)
	}
	return shifts, nil
}

// Locations возвращает активные локации сотрудника.
func (s *Service) Locations(ctx context.Context, email string) ([]models.Location, error) {
	worker, err := s.workers.FindByEmail(ctx, email)
	if err != nil {
		return nil, models.Wrap("resolve worker", err)
	}
	locations, err := s.store.Locations.ListActiveByOwner(ctx, worker.ID)
	if err != nil {
		return nil, models.Wrap("list locations", err)
	}
	return locations, nil
}

func (s *Service) Create(ctx context.Context, email string, req models.ShiftRequest) (*models.Shift, error) {
	worker, err := s.workers.FindByEmail(ctx, email)
	if err != nil {
		return nil, models.Wrap("resolve worker", err)
	}
	location, err := s.checkRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	shift := &models.Shift{
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Value:        req.Value,
		LocationID:   location.ID,
		LocationName: location.Name,
		UserID:       worker.ID,
	}
	if err := s.store.Shifts.Create(ctx, shift); err != nil {
		log.Printf("[%s] Error creating shift: %v", email, err)
		return nil, models.Wrap("create shift", err)
	}

	log.Printf("[%d] Shift created for %s", shift.ID, email)
	return shift, nil
}

// Update меняет время, стоимость и локацию своей незаблокированной смены.
func (s *Service) Update(ctx context.Context, email string, id int64, req models.ShiftRequest) (*models.Shift, error) {
	shift, err := s.ownShift(ctx, email, id)
	if err != nil {
		return nil, err
	}
	if shift.HasPendingOffer {
		return nil, fmt.Errorf("%w: shift %d", models.ErrShiftLocked, id)
	}
	location, err := s.checkRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	shift.StartTime = req.StartTime
	shift.EndTime = req.EndTime
	shift.Value = req.Value
	shift.LocationID = location.ID
	shift.LocationName = location.Name

	ok, err := s.store.Shifts.Update(ctx, shift)
	if err != nil {
		return nil, models.Wrap("update shift", err)
	}
	if !ok {
		return nil, s.explainMiss(ctx, id)
	}

	log.Printf("[%d] Shift updated", id)
	return shift, nil
}

// Delete удаляет свою незаблокированную смену.
func (s *Service) Delete(ctx context.Context, email string, id int64) error {
	shift, err := s.ownShift(ctx, email, id)
	if err != nil {
		return err
	}
	if shift.HasPendingOffer {
		return fmt.Errorf("%w: shift %d", models.ErrShiftLocked, id)
	}

	ok, err := s.store.Shifts.DeleteUnlocked(ctx, id)
	if err != nil {
		return models.Wrap("delete shift", err)
	}
	if !ok {
		return s.explainMiss(ctx, id)
	}

	log.Printf("[%d] Shift deleted", id)
	return nil
}

func (s *Service) ownShift(ctx context.Context, email string, id int64) (*models.Shift, error) {
	worker, err := s.workers.FindByEmail(ctx, email)
	if err != nil {
		return nil, models.Wrap("resolve worker", err)
	}
	shift, err := s.store.Shifts.GetByID(ctx, id)
	if err != nil {
		return nil, models.Wrap("load shift", err)
	}
	if shift.UserID != worker.ID {
		return nil, fmt.Errorf("%w: shift %d belongs to another worker", models.ErrForbidden, id)
	}
	return shift, nil
}

func (s *Service) checkRequest(ctx context.Context, req models.ShiftRequest) (*models.Location, error) {
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, fmt.Errorf("%w: start_time and end_time are required", models.ErrValidation)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", models.ErrValidation)
	}
	if req.Value < 0 {
		return nil, fmt.Errorf("%w: value must not be negative", models.ErrValidation)
	}
	location, err := s.locations.FindByID(ctx, req.LocationID)
	if err != nil {
		return nil, models.Wrap("resolve location", err)
	}
	return location, nil
}

// explainMiss перечитывает смену после неудачного условного обновления.
func (s *Service) explainMiss(ctx context.Context, id int64) error {
	current, err := s.store.Shifts.GetByID(ctx, id)
	if err != nil {
		return models.Wrap("reload shift", err)
	}
	if current.HasPendingOffer {
		return fmt.Errorf("%w: shift %d", models.ErrShiftLocked, id)
	}
	return fmt.Errorf("%w: shift %d changed concurrently", models.ErrConflict, id)
}
