package models

import "time"

// Shift - запланированная смена сотрудника.
// Пока HasPendingOffer == true, менять и удалять смену может только
// процесс передачи смены.
type Shift struct {
	ID              int64     `json:"id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Value           float64   `json:"value"`
	LocationID      int64     `json:"location_id"`
	LocationName    string    `json:"location_name,omitempty"`
	UserID          string    `json:"user_id"`
	HasPendingOffer bool      `json:"has_pending_offer"`
	Version         int       `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// ShiftRequest - тело запроса на создание или изменение смены.
type ShiftRequest struct {
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Value      float64   `json:"value"`
	LocationID int64     `json:"location_id"`
}
