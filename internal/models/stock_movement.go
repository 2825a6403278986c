package models

import "time"

type MovementDirection string

const (
	DirectionGiris MovementDirection = "GIRIS"
	DirectionCikis MovementDirection = "CIKIS"
)

// StockMovement: Kumaş giriş/çıkış hareketi
type StockMovement struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Direction MovementDirection `gorm:"size:10;not null"`
	Quantity  float64           `gorm:"not null"`      // Ürün birimi cinsinden miktar
	Weight    *float64                                 // Tartıdan okunan kg (opsiyonel)
	LotNo     string            `gorm:"size:50;index"` // Parti/lot numarası
	// Giriş hareketi genelde tedarikçiden, çıkış müşteriye olur; ikisi de opsiyonel
	CustomerID *uint
	Customer   *Customer
	SupplierID *uint
	Supplier   *Supplier
	Date       time.Time `gorm:"index;not null"`
	Note       string    `gorm:"size:255"`
	UserID     uint      `gorm:"not null"` // Kaydı giren kullanıcı
	User       User
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
