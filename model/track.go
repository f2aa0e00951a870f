package model

import "time"

// Track is a single audio item inside a TrackGroup.
type Track struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TrackGroupID uint      `gorm:"not null;index" json:"trackGroupId"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Order        int       `gorm:"column:track_order" json:"order"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
