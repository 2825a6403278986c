package models

import "time"

// Product: Kumaş/ürün kartı
type Product struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:150;not null;unique"`
	FabricType string `gorm:"size:50"`          // Örn: Penye, Süprem, İnterlok
	Color      string `gorm:"size:50"`          // Renk
	Unit       string `gorm:"size:20;not null"` // kg, metre, adet
	StockCode  string `gorm:"size:50;index"`    // ERP stok kodu (opsiyonel)
	UnitWeight float64                          // Gramaj (g/m²), 0 ise bilinmiyor
	IsActive   bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
