package models

// User - сотрудник из справочника. Идентификатор - UUID.
type User struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	City             string `json:"city,omitempty"`
	State            string `json:"state,omitempty"`
	ProfessionalType int    `json:"professional_type"`
}

// UserSummary - минимальные данные сотрудника внутри передачи смены.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}
