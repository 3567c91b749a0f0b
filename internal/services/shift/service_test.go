package shift_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/evn/shiftpass_backend/internal/models"
	"github.com/evn/shiftpass_backend/internal/repositories"
	"github.com/evn/shiftpass_backend/internal/services/shift"
	"github.com/evn/shiftpass_backend/internal/services/shiftpass"
	"github.com/evn/shiftpass_backend/internal/testutil"
)

type env struct {
	db     *sql.DB
	store  *repositories.Store
	shifts *shift.Service
	passes *shiftpass.Service
	owner  models.User
	other  models.User
	loc    models.Location
}

func setup(t *testing.T) *env {
	t.Helper()
	database := testutil.NewDB(t)
	store := repositories.NewStore(database)
	e := &env{
		db:     database,
		store:  store,
		shifts: shift.NewService(store, store.Users, store.Locations),
		passes: shiftpass.NewService(store, store.Users, store.Locations, 0),
	}
	e.owner = testutil.SeedUser(t, database, "Owner", "owner@example.com")
	e.other = testutil.SeedUser(t, database, "Other", "other@example.com")
	e.loc = testutil.SeedLocation(t, database, "Clinic A", e.owner.ID)
	return e
}

func request(loc int64) models.ShiftRequest {
	return models.ShiftRequest{
		StartTime:  testutil.Day(9, 0),
		EndTime:    testutil.Day(17, 0),
		Value:      100,
		LocationID: loc,
	}
}

func TestShiftService_CreateAndList(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	created, err := e.shifts.Create(ctx, e.owner.Email, request(e.loc.ID))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 || created.UserID != e.owner.ID || created.LocationName != "Clinic A" {
		t.Errorf("unexpected shift %+v", created)
	}

	shifts, err := e.shifts.List(ctx, e.owner.Email)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(shifts) != 1 || shifts[0].ID != created.ID {
		t.Errorf("expected the created shift, got %+v", shifts)
	}

	others, _ := e.shifts.List(ctx, e.other.Email)
	if len(others) != 0 {
		t.Errorf("expected no shifts for another worker, got %d", len(others))
	}
}

func TestShiftService_CreateValidation(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	inactive := models.Location{Name: "Closed", OwnerID: e.owner.ID, Active: false}
	if err := e.store.Locations.Create(ctx, &inactive); err != nil {
		t.Fatalf("failed to seed inactive location: %v", err)
	}

	backwards := request(e.loc.ID)
	backwards.StartTime, backwards.EndTime = backwards.EndTime, backwards.StartTime
	negative := request(e.loc.ID)
	negative.Value = -1

	tests := []struct {
		name string
		req  models.ShiftRequest
		want error
	}{
		{"end before start", backwards, models.ErrValidation},
		{"missing times", models.ShiftRequest{LocationID: e.loc.ID}, models.ErrValidation},
		{"negative value", negative, models.ErrValidation},
		{"unknown location", request(9999), models.ErrNotFound},
		{"inactive location", request(inactive.ID), models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.shifts.Create(ctx, e.owner.Email, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestShiftService_UpdateAndDelete(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	s := testutil.SeedShift(t, e.db, e.owner.ID, e.loc.ID, testutil.Day(9, 0), testutil.Day(17, 0), 100)

	req := request(e.loc.ID)
	req.Value = 150
	updated, err := e.shifts.Update(ctx, e.owner.Email, s.ID, req)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Value != 150 {
		t.Errorf("expected value 150, got %v", updated.Value)
	}

	if _, err := e.shifts.Update(ctx, e.other.Email, s.ID, req); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("expected ErrForbidden for another worker, got %v", err)
	}
	if err := e.shifts.Delete(ctx, e.other.Email, s.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("expected ErrForbidden for another worker, got %v", err)
	}

	if err := e.shifts.Delete(ctx, e.owner.Email, s.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := e.shifts.Delete(ctx, e.owner.Email, s.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestShiftService_PendingOfferLocksShift(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	s := testutil.SeedShift(t, e.db, e.owner.ID, e.loc.ID, testutil.Day(9, 0), testutil.Day(17, 0), 100)

	pass, err := e.passes.Create(ctx, s.ID, e.owner.Email, []string{e.other.ID})
	if err != nil {
		t.Fatalf("Create pass failed: %v", err)
	}

	req := request(e.loc.ID)
	req.Value = 1
	if _, err := e.shifts.Update(ctx, e.owner.Email, s.ID, req); !errors.Is(err, models.ErrShiftLocked) {
		t.Errorf("expected ErrShiftLocked on update, got %v", err)
	}
	if err := e.shifts.Delete(ctx, e.owner.Email, s.ID); !errors.Is(err, models.ErrShiftLocked) {
		t.Errorf("expected ErrShiftLocked on delete, got %v", err)
	}

	current, err := e.store.Shifts.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if current.Value != 100 {
		t.Errorf("locked shift must keep its value, got %v", current.Value)
	}

	if _, err := e.passes.Cancel(ctx, pass.ID, e.owner.Email); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if _, err := e.shifts.Update(ctx, e.owner.Email, s.ID, req); err != nil {
		t.Errorf("expected update to succeed after cancel, got %v", err)
	}
}

func TestShiftService_Locations(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	testutil.SeedLocation(t, e.db, "Clinic B", e.owner.ID)
	testutil.SeedLocation(t, e.db, "Elsewhere", e.other.ID)

	locations, err := e.shifts.Locations(ctx, e.owner.Email)
	if err != nil {
		t.Fatalf("Locations failed: %v", err)
	}
	if len(locations) != 2 || locations[0].Name != "Clinic A" || locations[1].Name != "Clinic B" {
		t.Errorf("unexpected locations %+v", locations)
	}
}
