package model

import "time"

// Artist belongs to exactly one User and owns the track groups it releases.
type Artist struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"not null;index" json:"userId"`
	User        *User        `json:"-"`
	Name        string       `gorm:"size:255;not null" json:"name"`
	URLSlug     string       `gorm:"column:url_slug;size:255;not null;uniqueIndex" json:"urlSlug"`
	TrackGroups []TrackGroup `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
