package models

import "time"

// Workshop: Fason iş yapan dış atölye
type Workshop struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:150;not null;unique"`
	ContactName    string `gorm:"size:100"`
	Phone          string `gorm:"size:50"`
	Address        string `gorm:"size:255"`
	Specialization string `gorm:"size:50"` // Örn: KESIM, DIKIM, BASKI_NAKIS, UTU
	IsActive       bool   `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
