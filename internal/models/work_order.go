package models

import "time"

// WorkOrderStatus: İş emrinin fason süreçteki aşaması.
// Sıralama sabittir: KESIM -> DIKIM -> BASKI_NAKIS -> UTU -> TESLIM_EDILDI
type WorkOrderStatus string

const (
	StatusKesim        WorkOrderStatus = "KESIM"
	StatusDikim        WorkOrderStatus = "DIKIM"
	StatusBaskiNakis   WorkOrderStatus = "BASKI_NAKIS"
	StatusUtu          WorkOrderStatus = "UTU"
	StatusTeslimEdildi WorkOrderStatus = "TESLIM_EDILDI"
)

// WorkOrder: Fason üretim iş emri
type WorkOrder struct {
	ID        uint   `gorm:"primaryKey"`
	OrderNo   string `gorm:"size:50;not null;uniqueIndex"`
	ProductID uint   `gorm:"index;not null"`
	Product   Product
	Quantity  float64 `gorm:"not null"` // Adet
	CustomerID *uint
	Customer   *Customer
	DeliveryDate   *time.Time
	Priority       int             `gorm:"default:0"` // 0=normal, 1=acil
	Status         WorkOrderStatus `gorm:"size:20;not null;default:KESIM"`
	IsMobile       bool            `gorm:"not null;default:false"` // Mobil takibe atandı mı?
	AssignedUserID *uint
	AssignedUser   *User
	ExternalID     string `gorm:"size:64;index"` // ERP tarafındaki kimlik
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Trackings []TrackingEvent `gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE"`
}
