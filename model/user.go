package model

import "time"

// User owns artists. Only the fields the catalog needs are modeled.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name         string    `gorm:"size:255" json:"name,omitempty"`
	PasswordHash string    `gorm:"size:255" json:"-"` // Not exposed in API responses
	Artists      []Artist  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
