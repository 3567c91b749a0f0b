package models

import "time"

// ShiftPass - предложение передать смену одному из кандидатов.
// Время, сумма и название локации копируются из смены при создании
// и дальше не меняются.
type ShiftPass struct {
	ID              int64         `json:"id"`
	CreatedBy       UserSummary   `json:"created_by"`
	Active          bool          `json:"active"`
	OfferedUsers    []UserSummary `json:"offered_users"`
	FinalUser       *UserSummary  `json:"final_user"`
	OriginalShiftID int64         `json:"original_shift_id"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Value           float64       `json:"value"`
	LocationName    string        `json:"location_name"`
	Version         int           `json:"version"`
	CreatedAt       time.Time     `json:"created_at"`
}

// IsOffered сообщает, входит ли сотрудник в число кандидатов.
func (p *ShiftPass) IsOffered(userID string) bool {
	for _, u := range p.OfferedUsers {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// ShiftPassRequest - тело запроса на создание передачи.
type ShiftPassRequest struct {
	ShiftID      int64    `json:"shift_id"`
	OfferedUsers []string `json:"offered_users"`
}

// ShiftPassActionResponse - подтверждение действия над передачей.
type ShiftPassActionResponse struct {
	UserEmail       string `json:"user_email"`
	OriginalShiftID int64  `json:"original_shift_id"`
	ShiftPassID     int64  `json:"shift_pass_id"`
	Message         string `json:"message"`
}

// CancelResult - результат отмены передачи.
type CancelResult struct {
	ShiftPassID     int64
	OriginalShiftID int64
}
