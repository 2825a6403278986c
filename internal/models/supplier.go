package models

import "time"

type Supplier struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:150;not null;unique"`
	ContactName string `gorm:"size:100"`
	Phone       string `gorm:"size:50"`
	Email       string `gorm:"size:100"`
	Address     string `gorm:"size:255"`
	TaxNumber   string `gorm:"size:20"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
