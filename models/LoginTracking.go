package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking records every successful sign-in
type LoginTracking struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Provider  string    `gorm:"type:varchar(20)" json:"provider"` // password, google
	IPAddress string    `json:"ip_address"`
	Device    string    `json:"device"`
	Timestamp time.Time `json:"timestamp"`
}
