package master

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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
		&models.StockMovement{},
		&models.WorkOrder{},
	)
	if err != nil {
		t.Fatalf("AutoMigrate hatası: %v", err)
	}

	database.DB = db
}

func newCustomerApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen sunucu hatası"})
		},
	})
	app.Post("/api/customers", CreateCustomerHandler())
	app.Get("/api/customers", ListCustomersHandler())
	app.Get("/api/customers/:id", GetCustomerHandler())
	app.Put("/api/customers/:id", UpdateCustomerHandler())
	app.Delete("/api/admin/customers/:id", DeleteCustomerHandler())
	return app
}

func doCustomerJSON(t *testing.T, app *fiber.App, method, path string, body fiber.Map) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("gövde marshal edilemedi: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("istek başarısız: %v", err)
	}
	return resp
}

func TestCustomerCRUD(t *testing.T) {
	setupTestDB(t)
	app := newCustomerApp()

	resp := doCustomerJSON(t, app, http.MethodPost, "/api/customers", fiber.Map{
		"name":         "  Mira Tekstil A.Ş.  ",
		"contact_name": "Ayşe Demir",
		"email":        "Ayse@MiraTekstil.com",
		"tax_number":   "1234567890",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created CustomerResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("yanıt çözümlenemedi: %v", err)
	}
	if created.Name != "Mira Tekstil A.Ş." {
		t.Errorf("ad kırpılmamış: %q", created.Name)
	}
	if created.Email != "ayse@miratekstil.com" {
		t.Errorf("e-posta küçük harfe çevrilmemiş: %q", created.Email)
	}
	if !created.IsActive {
		t.Error("yeni müşteri aktif açılmalı")
	}

	resp = doCustomerJSON(t, app, http.MethodPut, fmt.Sprintf("/api/customers/%d", created.ID), fiber.Map{
		"phone":     "0212 555 00 00",
		"is_active": false,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("güncelleme status = %d", resp.StatusCode)
	}
	var updated CustomerResponse
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("yanıt çözümlenemedi: %v", err)
	}
	if updated.Phone != "0212 555 00 00" {
		t.Errorf("phone = %q", updated.Phone)
	}
	if updated.IsActive {
		t.Error("müşteri pasife alınmalıydı")
	}
	if updated.Name != "Mira Tekstil A.Ş." {
		t.Errorf("güncellenmeyen alan değişmemeli: %q", updated.Name)
	}

	// active=true filtresi pasif müşteriyi dışarıda bırakır
	resp = doCustomerJSON(t, app, http.MethodGet, "/api/customers?active=true", nil)
	var actives []CustomerResponse
	if err := json.NewDecoder(resp.Body).Decode(&actives); err != nil {
		t.Fatalf("yanıt çözümlenemedi: %v", err)
	}
	if len(actives) != 0 {
		t.Errorf("aktif filtre pasif müşteriyi döndürdü: %d kayıt", len(actives))
	}

	resp = doCustomerJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/admin/customers/%d", created.ID), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("silme status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	resp = doCustomerJSON(t, app, http.MethodGet, fmt.Sprintf("/api/customers/%d", created.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("silinen müşteri için status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestCreateCustomerNameRequired(t *testing.T) {
	setupTestDB(t)
	app := newCustomerApp()

	resp := doCustomerJSON(t, app, http.MethodPost, "/api/customers", fiber.Map{"name": "   "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestDeleteCustomerWithMovementsBlocked(t *testing.T) {
	setupTestDB(t)
	app := newCustomerApp()

	user := models.User{Name: "Planlamacı", Email: "planlama@miraapp.test", PasswordHash: "x", Role: models.RolePlanlama}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("kullanıcı oluşturulamadı: %v", err)
	}
	customer := models.Customer{Name: "Mira Tekstil", IsActive: true}
	if err := database.DB.Create(&customer).Error; err != nil {
		t.Fatalf("müşteri oluşturulamadı: %v", err)
	}
	product := models.Product{Name: "Penye", Unit: "kg", IsActive: true}
	if err := database.DB.Create(&product).Error; err != nil {
		t.Fatalf("ürün oluşturulamadı: %v", err)
	}
	movement := models.StockMovement{
		ProductID:  product.ID,
		Direction:  models.DirectionCikis,
		Quantity:   5,
		CustomerID: &customer.ID,
		Date:       time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC),
		UserID:     user.ID,
	}
	if err := database.DB.Create(&movement).Error; err != nil {
		t.Fatalf("hareket oluşturulamadı: %v", err)
	}

	resp := doCustomerJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/admin/customers/%d", customer.ID), nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var count int64
	database.DB.Model(&models.Customer{}).Count(&count)
	if count != 1 {
		t.Errorf("bağlı kaydı olan müşteri silinmemeli")
	}
}
