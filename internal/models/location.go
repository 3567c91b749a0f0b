// models/location.go

package models

// Location - рабочая локация (клиника, объект).
type Location struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"-"`
	Active  bool   `json:"-"`
}
