package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a merchant who owns a customer book.
type User struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Name          string            `gorm:"default:''" json:"name"`
	Email         string            `gorm:"uniqueIndex;not null" json:"email"`
	PhotoURL      string            `gorm:"default:''" json:"photoUrl,omitempty"`
	Password      string            `json:"-"`
	GoogleSubject *string           `gorm:"uniqueIndex" json:"-"`
	ShopName      string            `gorm:"default:''" json:"shopName"`
	ShopAddress   string            `gorm:"default:''" json:"shopAddress"`
	ShopPhone     string            `gorm:"default:''" json:"shopPhone"`
	Preferences   datatypes.JSONMap `json:"preferences,omitempty"`
	LastLogin     *time.Time        `json:"lastLogin,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}
