// Package shiftpass implements the shift hand-off workflow: a worker offers
// a shift to a set of candidates, exactly one candidate accepts it, or the
// creator cancels it. Every mutating operation runs as a single store
// transaction guarded by compare-and-swap updates.
package shiftpass

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/evn/shiftpass_backend/internal/models"
	"github.com/evn/shiftpass_backend/internal/repositories"
)

// WorkerDirectory resolves worker identities.
type WorkerDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

// LocationDirectory resolves work locations.
type LocationDirectory interface {
	FindByID(ctx context.Context, id int64) (*models.Location, error)
}

type Service struct {
	store     *repositories.Store
	workers   WorkerDirectory
	locations LocationDirectory
	txTimeout time.Duration
}

// NewService wires the workflow. A zero txTimeout leaves the caller's context as is.
func NewService(store *repositories.Store, workers WorkerDirectory, locations LocationDirectory, txTimeout time.Duration) *Service {
	return &Service{
		store:     store,
		workers:   workers,
		locations: locations,
		txTimeout: txTimeout,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.txTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.txTimeout)
}

// Create offers the shift to the resolved candidates. The shift must belong
// to the creator and must not already have a pending offer.
func (s *Service) Create(ctx context.Context, shiftID int64, creatorEmail string, candidateIDs []string) (*models.ShiftPass, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log.Printf("[%s] Creating shift pass for shift %d", creatorEmail, shiftID)

	shift, err := s.store.Shifts.GetByID(ctx, shiftID)
	if err != nil {
		return nil, models.Wrap("load shift", err)
	}
	if shift.HasPendingOffer {
		log.Printf("[%d] Shift already has a pass", shiftID)
		return nil, fmt.Errorf("%w: shift %d", models.ErrDuplicateOffer, shiftID)
	}

	creator, err := s.workers.FindByEmail(ctx, creatorEmail)
	if err != nil {
		return nil, models.Wrap("resolve creator", err)
	}
	if shift.UserID != creator.ID {
		log.Printf("[%d] %s does not own the shift", shiftID, creatorEmail)
		return nil, fmt.Errorf("%w: shift %d belongs to another worker", models.ErrForbidden, shiftID)
	}

	resolved, err := s.workers.FindByIDs(ctx, candidateIDs)
	if err != nil {
		return nil, models.Wrap("resolve candidates", err)
	}
	candidates := make([]models.UserSummary, 0, len(resolved))
	for _, u := range resolved {
		if u.ID == creator.ID {
			continue
		}
		candidates = append(candidates, u.Summary())
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no resolvable candidates in %d ids", models.ErrValidation, len(candidateIDs))
	}

	pass := &models.ShiftPass{
		CreatedBy:       creator.Summary(),
		Active:          true,
		OfferedUsers:    candidates,
		OriginalShiftID: shift.ID,
		StartTime:       shift.StartTime,
		EndTime:         shift.EndTime,
		Value:           shift.Value,
		LocationName:    shift.LocationName,
	}

	var created *models.ShiftPass
	err = s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		ok, err := tx.Shifts.MarkPending(ctx, shift.ID)
		if err != nil {
			return err
		}
		if !ok {
			if _, err := tx.Shifts.GetByID(ctx, shift.ID); err != nil {
				return err
			}
			return fmt.Errorf("%w: shift %d", models.ErrDuplicateOffer, shift.ID)
		}

		if err := tx.ShiftPasses.Create(ctx, pass); err != nil {
			return err
		}

		created, err = tx.ShiftPasses.GetByID(ctx, pass.ID)
		return err
	})
	if err != nil {
		log.Printf("[%d] Error creating shift pass: %v", shiftID, err)
		return nil, models.Wrap("create shift pass", err)
	}

	log.Printf("[%d] Shift pass created successfully", created.ID)
	return created, nil
}

// Accept hands the offered shift over to the acceptor at the chosen location.
// The first accept to commit wins; later attempts see an inactive pass.
func (s *Service) Accept(ctx context.Context, passID int64, acceptorEmail string, locationID int64) (*models.ShiftPass, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log.Printf("[%d] Accepting shift pass", passID)

	pass, err := s.store.ShiftPasses.GetByID(ctx, passID)
	if err != nil {
		return nil, models.Wrap("load shift pass", err)
	}
	if !pass.Active {
		log.Printf("[%d] Shift pass is not active", passID)
		return nil, fmt.Errorf("%w: shift pass %d", models.ErrInvalidState, passID)
	}

	acceptor, err := s.workers.FindByEmail(ctx, acceptorEmail)
	if err != nil {
		log.Printf("[%s] User not found", acceptorEmail)
		return nil, models.Wrap("resolve acceptor", err)
	}

	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		log.Printf("[%d] Location not found", locationID)
		return nil, models.Wrap("resolve location", err)
	}

	origin, err := s.store.Shifts.GetByID(ctx, pass.OriginalShiftID)
	if err != nil {
		log.Printf("[%d] Origin shift not found", pass.OriginalShiftID)
		if errors.Is(err, models.ErrNotFound) {
			// Другой кандидат мог принять передачу после первой проверки.
			if current, cerr := s.store.ShiftPasses.GetByID(ctx, pass.ID); cerr == nil && !current.Active {
				return nil, fmt.Errorf("%w: shift pass %d", models.ErrInvalidState, passID)
			}
		}
		return nil, models.Wrap("load origin shift", err)
	}

	if !pass.IsOffered(acceptor.ID) {
		log.Printf("[%d] User not found in offered users", passID)
		return nil, fmt.Errorf("%w: %s is not a candidate for shift pass %d", models.ErrForbidden, acceptorEmail, passID)
	}

	var accepted *models.ShiftPass
	err = s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		ok, err := tx.ShiftPasses.MarkAccepted(ctx, pass.ID, pass.Version, acceptor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return lostRace(ctx, tx, pass.ID)
		}

		newShift := &models.Shift{
			StartTime:  pass.StartTime,
			EndTime:    pass.EndTime,
			Value:      pass.Value,
			LocationID: location.ID,
			UserID:     acceptor.ID,
		}
		if err := tx.Shifts.Create(ctx, newShift); err != nil {
			return err
		}

		ok, err = tx.Shifts.DeleteHandedOff(ctx, origin.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: origin shift %d", models.ErrNotFound, origin.ID)
		}

		accepted, err = tx.ShiftPasses.GetByID(ctx, pass.ID)
		return err
	})
	if err != nil {
		log.Printf("[%d] Error accepting shift pass: %v", passID, err)
		return nil, models.Wrap("accept shift pass", err)
	}

	log.Printf("[%d] Shift pass accepted successfully by %s", passID, acceptorEmail)
	return accepted, nil
}

// Cancel deletes an active pass on behalf of its creator and unlocks the
// origin shift.
func (s *Service) Cancel(ctx context.Context, passID int64, requesterEmail string) (*models.CancelResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log.Printf("[%d] Deleting shift pass", passID)

	pass, err := s.store.ShiftPasses.GetByID(ctx, passID)
	if err != nil {
		return nil, models.Wrap("load shift pass", err)
	}
	if !strings.EqualFold(pass.CreatedBy.Email, strings.TrimSpace(requesterEmail)) {
		log.Printf("[%d] User is not the creator of the shift pass", passID)
		return nil, fmt.Errorf("%w: only the creator may cancel shift pass %d", models.ErrForbidden, passID)
	}
	if !pass.Active {
		log.Printf("[%d] Shift pass is not active", passID)
		return nil, fmt.Errorf("%w: shift pass %d", models.ErrInvalidState, passID)
	}

	err = s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		ok, err := tx.ShiftPasses.DeleteActive(ctx, pass.ID, pass.Version)
		if err != nil {
			return err
		}
		if !ok {
			return lostRace(ctx, tx, pass.ID)
		}

		ok, err = tx.Shifts.ClearPending(ctx, pass.OriginalShiftID)
		if err != nil {
			return err
		}
		if !ok {
			if _, err := tx.Shifts.GetByID(ctx, pass.OriginalShiftID); err != nil {
				return err
			}
			return fmt.Errorf("%w: origin shift %d is not pending", models.ErrConflict, pass.OriginalShiftID)
		}
		return nil
	})
	if err != nil {
		log.Printf("[%d] Error deleting shift pass: %v", passID, err)
		return nil, models.Wrap("cancel shift pass", err)
	}

	log.Printf("[%d] Shift pass deleted successfully", passID)
	return &models.CancelResult{ShiftPassID: pass.ID, OriginalShiftID: pass.OriginalShiftID}, nil
}

// Get returns a pass by id.
func (s *Service) Get(ctx context.Context, passID int64) (*models.ShiftPass, error) {
	pass, err := s.store.ShiftPasses.GetByID(ctx, passID)
	if err != nil {
		return nil, models.Wrap("load shift pass", err)
	}
	return pass, nil
}

// ListOffered returns active passes where the worker is a candidate.
func (s *Service) ListOffered(ctx context.Context, workerEmail string) ([]*models.ShiftPass, error) {
	passes, err := s.store.ShiftPasses.ListActiveOfferedTo(ctx, workerEmail)
	if err != nil {
		return nil, models.Wrap("list offered shift passes", err)
	}
	return passes, nil
}

// ListCreated returns the passes the worker created that still exist.
func (s *Service) ListCreated(ctx context.Context, workerEmail string) ([]*models.ShiftPass, error) {
	worker, err := s.workers.FindByEmail(ctx, workerEmail)
	if err != nil {
		return nil, models.Wrap("resolve worker", err)
	}
	passes, err := s.store.ShiftPasses.ListCreatedBy(ctx, worker.ID)
	if err != nil {
		return nil, models.Wrap("list created shift passes", err)
	}
	return passes, nil
}

// lostRace explains why a compare-and-swap on an active pass matched no row.
func lostRace(ctx context.Context, tx *repositories.Store, passID int64) error {
	current, err := tx.ShiftPasses.GetByID(ctx, passID)
	if err != nil {
		return err
	}
	if !current.Active {
		return fmt.Errorf("%w: shift pass %d", models.ErrInvalidState, passID)
	}
	return fmt.Errorf("%w: shift pass %d changed concurrently", models.ErrConflict, passID)
}
