package database

import (
	"log"

	"miraapp-backend/internal/config"
	"miraapp-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	// WorkOrder.is_mobile migration: Mobil takip özelliğinden önceki kurulumlarda
	// kolon yok; AutoMigrate eklese de eski kayıtlar NULL kalmasın diye elle güncelliyoruz
	if DB.Migrator().HasTable(&models.WorkOrder{}) {
		if !DB.Migrator().HasColumn(&models.WorkOrder{}, "is_mobile") {
			log.Println("WorkOrder.is_mobile kolonu ekleniyor...")
			if err := DB.Exec("ALTER TABLE work_orders ADD COLUMN is_mobile BOOLEAN NOT NULL DEFAULT FALSE").Error; err != nil {
				log.Printf("is_mobile kolonu eklenirken hata (zaten var olabilir): %v", err)
			}
		}
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Supplier{},
		&models.Product{},
		&models.StockMovement{},
		&models.Workshop{},
		&models.WorkOrder{},
		&models.TrackingEvent{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
