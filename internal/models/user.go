package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RolePlanlama UserRole = "planlama"
	RoleTakipci  UserRole = "takipci"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	Phone        string   `gorm:"size:50"` // Opsiyonel telefon (mobil takipçiler için)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
