package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evn/shiftpass_backend/internal/models"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.Wrap("load", models.ErrNotFound), http.StatusNotFound},
		{models.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: shift 1", models.ErrDuplicateOffer), http.StatusConflict},
		{models.ErrShiftLocked, http.StatusConflict},
		{models.ErrConflict, http.StatusConflict},
		{models.ErrInvalidState, http.StatusUnprocessableEntity},
		{models.ErrValidation, http.StatusBadRequest},
		{models.Wrap("query", errors.New("disk full")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRespondWithDomainError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithDomainError(rec, models.Wrap("query", errors.New("password=hunter2")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["error"] != "Internal server error" {
		t.Errorf("unexpected error body %q", body["error"])
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
}
