package erp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"miraapp-backend/internal/database"
	"miraapp-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.WorkOrder{},
		&models.TrackingEvent{},
	)
	if err != nil {
		t.Fatalf("AutoMigrate hatası: %v", err)
	}

	database.DB = db
}

func newUpsertApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen sunucu hatası"})
		},
	})
	app.Post("/api/erp/work-orders", UpsertWorkOrderHandler())
	return app
}

func postUpsert(t *testing.T, app *fiber.App, body fiber.Map) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("gövde marshal edilemedi: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/erp/work-orders", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("istek başarısız: %v", err)
	}
	return resp
}

func TestUpsertWorkOrderCreateThenUpdate(t *testing.T) {
	setupTestDB(t)
	app := newUpsertApp()

	product := models.Product{Name: "Penye Kumaş", Unit: "adet", IsActive: true}
	if err := database.DB.Create(&product).Error; err != nil {
		t.Fatalf("ürün oluşturulamadı: %v", err)
	}

	// İlk push: yeni iş emri KESIM aşamasıyla açılır
	resp := postUpsert(t, app, fiber.Map{
		"externalId": "ERP-1001",
		"orderNo":    "WO-2025-100",
		"productId":  product.ID,
		"quantity":   500.0,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var order models.WorkOrder
	if err := database.DB.First(&order, "external_id = ?", "ERP-1001").Error; err != nil {
		t.Fatalf("iş emri okunamadı: %v", err)
	}
	if order.Status != models.StatusKesim {
		t.Errorf("yeni iş emri durumu = %q, want %q", order.Status, models.StatusKesim)
	}

	// Üretim ilerledi; ERP'den gelen güncelleme durumu sıfırlamamalı
	if err := database.DB.Model(&order).Update("status", models.StatusDikim).Error; err != nil {
		t.Fatalf("durum güncellenemedi: %v", err)
	}

	resp = postUpsert(t, app, fiber.Map{
		"externalId": "ERP-1001",
		"quantity":   650.0,
		"priority":   1,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("güncelleme status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var reloaded models.WorkOrder
	database.DB.First(&reloaded, "external_id = ?", "ERP-1001")
	if reloaded.Quantity != 650.0 {
		t.Errorf("quantity = %v, want 650", reloaded.Quantity)
	}
	if reloaded.Priority != 1 {
		t.Errorf("priority = %d, want 1", reloaded.Priority)
	}
	if reloaded.Status != models.StatusDikim {
		t.Errorf("ERP güncellemesi durumu değiştirmemeli: %q", reloaded.Status)
	}

	var count int64
	database.DB.Model(&models.WorkOrder{}).Count(&count)
	if count != 1 {
		t.Errorf("aynı externalId ikinci kayıt açmamalı: %d kayıt", count)
	}
}

func TestUpsertWorkOrderValidation(t *testing.T) {
	setupTestDB(t)
	app := newUpsertApp()

	product := models.Product{Name: "Penye Kumaş", Unit: "adet", IsActive: true}
	if err := database.DB.Create(&product).Error; err != nil {
		t.Fatalf("ürün oluşturulamadı: %v", err)
	}

	tests := []struct {
		name string
		body fiber.Map
		want int
	}{
		{"externalId zorunlu", fiber.Map{"orderNo": "WO-1", "productId": product.ID, "quantity": 1.0}, http.StatusBadRequest},
		{"yeni kayıtta orderNo zorunlu", fiber.Map{"externalId": "ERP-X", "productId": product.ID, "quantity": 1.0}, http.StatusBadRequest},
		{"ürün yoksa 404", fiber.Map{"externalId": "ERP-X", "orderNo": "WO-1", "productId": 999, "quantity": 1.0}, http.StatusNotFound},
		{"müşteri yoksa 404", fiber.Map{"externalId": "ERP-X", "orderNo": "WO-1", "productId": product.ID, "quantity": 1.0, "customerId": 999}, http.StatusNotFound},
		{"geçersiz teslim tarihi", fiber.Map{"externalId": "ERP-X", "orderNo": "WO-1", "productId": product.ID, "quantity": 1.0, "deliveryDate": "31.01.2025"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postUpsert(t, app, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
