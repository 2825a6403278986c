package models

import "time"

// ProcessType: Takip kaydının ait olduğu fason süreç
type ProcessType string

const (
	ProcessKesim      ProcessType = "KESIM"
	ProcessDikim      ProcessType = "DIKIM"
	ProcessBaskiNakis ProcessType = "BASKI_NAKIS"
	ProcessUtu        ProcessType = "UTU"
)

// TrackingStatusTeslimEdildi: Bir aşamanın "teslim edildi" durumu.
// Bu durumla kayıt açılması iş emrini bir sonraki aşamaya ilerletir.
const TrackingStatusTeslimEdildi = "TESLIM_EDILDI"

// TrackingEvent: Bir iş emrine karşı girilen aşama takip kaydı
type TrackingEvent struct {
	ID          uint `gorm:"primaryKey"`
	WorkOrderID uint `gorm:"index;not null"`
	WorkOrder   WorkOrder
	WorkshopID  *uint `gorm:"index"`
	Workshop    *Workshop
	UserID      uint `gorm:"index;not null"` // Kaydı giren takipçi
	User        User
	ProcessType ProcessType `gorm:"size:20;not null"`
	Status      string      `gorm:"size:30;not null"` // Aşama bazlı serbest durum metni
	StartDate    *time.Time
	EndDate      *time.Time
	PickupDate   *time.Time
	DeliveryDate *time.Time
	Notes        string `gorm:"type:text"`
	ProblemNotes string `gorm:"type:text"`
	// Mobil uygulamadan gelen konum (opsiyonel)
	Latitude  *float64
	Longitude *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
