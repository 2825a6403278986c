package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"miraapp-backend/internal/auth"
	"miraapp-backend/internal/config"
	"miraapp-backend/internal/database"
	"miraapp-backend/internal/erp"
	"miraapp-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-test-secret-test-secret"

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
		&models.Supplier{},
		&models.Product{},
		&models.StockMovement{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("AutoMigrate hatası: %v", err)
	}

	database.DB = db
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{JWTSecret: testJWTSecret}
	erpClient := erp.NewClient(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen sunucu hatası"})
		},
	})

	api := app.Group("/api")
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))
	protected.Get("/stock-movements", ListMovementsHandler())
	protected.Get("/stock-movements/current", GetCurrentStockHandler())
	protected.Post("/stock-movements", CreateMovementHandler(erpClient))
	protected.Delete("/stock-movements/:id", DeleteMovementHandler())

	return app
}

func seedPlanlamaUser(t *testing.T) (*models.User, string) {
	t.Helper()
	user := models.User{
		Name:         "Planlamacı",
		Email:        "planlama@miraapp.test",
		PasswordHash: "x",
		Role:         models.RolePlanlama,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("kullanıcı oluşturulamadı: %v", err)
	}
	token, err := auth.GenerateToken(testJWTSecret, &user)
	if err != nil {
		t.Fatalf("token oluşturulamadı: %v", err)
	}
	return &user, token
}

func seedProduct(t *testing.T, name string) *models.Product {
	t.Helper()
	product := models.Product{
		Name:       name,
		FabricType: "Penye",
		Unit:       "kg",
		StockCode:  "STK-" + name,
		IsActive:   true,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		t.Fatalf("ürün oluşturulamadı: %v", err)
	}
	return &product
}

func postMovement(t *testing.T, app *fiber.App, token string, body fiber.Map) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("gövde marshal edilemedi: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/stock-movements", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("istek başarısız: %v", err)
	}
	return resp
}

func TestCreateMovementGiris(t *testing.T) {
	setupTestDB(t)
	app := newTestApp(t)
	user, token := seedPlanlamaUser(t)
	product := seedProduct(t, "Süprem Beyaz")

	weight := 125.40
	resp := postMovement(t, app, token, fiber.Map{
		"date":       "2025-12-09",
		"product_id": product.ID,
		"direction":  "GIRIS",
		"quantity":   125.40,
		"weight":     weight,
		"lot_no":     "LOT-2025-001",
		"note":       "Tartıdan okunan parti",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var got MovementResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("yanıt çözümlenemedi: %v", err)
	}
	if got.Direction != "GIRIS" {
		t.Errorf("direction = %q", got.Direction)
	}
	if got.Quantity != 125.40 {
		t.Errorf("quantity = %v", got.Quantity)
	}
	if got.Weight == nil || *got.Weight != weight {
		t.Errorf("weight korunmamış: %v", got.Weight)
	}
	if got.LotNo != "LOT-2025-001" {
		t.Errorf("lot_no = %q", got.LotNo)
	}
	if got.UserID != user.ID {
		t.Errorf("user_id = %d, want %d", got.UserID, user.ID)
	}
	if got.Date != "2025-12-09" {
		t.Errorf("date = %q", got.Date)
	}
}

func TestCreateMovementCikisInsufficientStock(t *testing.T) {
	setupTestDB(t)
	app := newTestApp(t)
	_, token := seedPlanlamaUser(t)
	product := seedProduct(t, "Süprem Beyaz")

	// 50 kg giriş, 80 kg çıkış denemesi reddedilmeli
	resp := postMovement(t, app, token, fiber.Map{
		"date":       "2025-12-09",
		"product_id": product.ID,
		"direction":  "GIRIS",
		"quantity":   50.0,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("giriş status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	resp = postMovement(t, app, token, fiber.Map{
		"date":       "2025-12-10",
		"product_id": product.ID,
		"direction":  "CIKIS",
		"quantity":   80.0,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("yanıt çözümlenemedi: %v", err)
	}
	if !strings.Contains(body.Error, "Yetersiz stok") {
		t.Errorf("hata mesajı = %q", body.Error)
	}

	var count int64
	database.DB.Model(&models.StockMovement{}).Where("direction = ?", models.DirectionCikis).Count(&count)
	if count != 0 {
		t.Errorf("reddedilen çıkış kaydedilmemeli: %d kayıt var", count)
	}
}

func TestCreateMovementCikisWithinStock(t *testing.T) {
	setupTestDB(t)
	app := newTestApp(t)
	_, token := seedPlanlamaUser(t)
	product := seedProduct(t, "Süprem Beyaz")

	resp := postMovement(t, app, token, fiber.Map{
		"date":       "2025-12-09",
		"product_id": product.ID,
		"direction":  "GIRIS",
		"quantity":   100.0,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("giriş status = %d", resp.StatusCode)
	}

	resp = postMovement(t, app, token, fiber.Map{
		"date":       "2025-12-10",
		"product_id": product.ID,
		"direction":  "CIKIS",
		"quantity":   100.0, // Tam stok kadar çıkış geçerli
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("çıkış status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
}

func TestCreateMovementValidation(t *testing.T) {
	setupTestDB(t)
	app := newTestApp(t)
	_, token := seedPlanlamaUser(t)
	product := seedProduct(t, "Süprem Beyaz")

	tests := []struct {
		name string
		body fiber.Map
		want int
	}{
		{"ürün yoksa 404", fiber.Map{"date": "2025-12-09", "product_id": 999, "direction": "GIRIS", "quantity": 1.0}, http.StatusNotFound},
		{"miktar sıfır olamaz", fiber.Map{"date": "2025-12-09", "product_id": product.ID, "direction": "GIRIS", "quantity": 0.0}, http.StatusBadRequest},
		{"geçersiz yön", fiber.Map{"date": "2025-12-09", "product_id": product.ID, "direction": "TRANSFER", "quantity": 1.0}, http.StatusBadRequest},
		{"geçersiz tarih", fiber.Map{"date": "09.12.2025", "product_id": product.ID, "direction": "GIRIS", "quantity": 1.0}, http.StatusBadRequest},
		{"müşteri yoksa 404", fiber.Map{"date": "2025-12-09", "product_id": product.ID, "direction": "GIRIS", "quantity": 1.0, "customer_id": 999}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postMovement(t, app, token, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestGetCurrentStock(t *testing.T) {
	setupTestDB(t)
	app := newTestApp(t)
	_, token := seedPlanlamaUser(t)
	penye := seedProduct(t, "Penye Siyah")
	suprem := seedProduct(t, "Süprem Beyaz")

	for _, m := range []fiber.Map{
		{"date": "2025-12-01", "product_id": penye.ID, "direction": "GIRIS", "quantity": 200.0},
		{"date": "2025-12-02", "product_id": penye.ID, "direction": "CIKIS", "quantity": 75.5},
		{"date": "2025-12-03", "product_id": suprem.ID, "direction": "GIRIS", "quantity": 40.0},
	} {
		resp := postMovement(t, app, token, m)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("hareket oluşturulamadı: status = %d", resp.StatusCode)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stock-movements/current", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("istek başarısız: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var stocks []CurrentStockResponse
	if err := json.NewDecoder(resp.Body).Decode(&stocks); err != nil {
		t.Fatalf("yanıt çözümlenemedi: %v", err)
	}
	if len(stocks) != 2 {
		t.Fatalf("ürün sayısı = %d, want 2", len(stocks))
	}

	byID := map[uint]float64{}
	for _, s := range stocks {
		byID[s.ProductID] = s.Quantity
	}
	if byID[penye.ID] != 124.5 {
		t.Errorf("penye stoğu = %v, want 124.5", byID[penye.ID])
	}
	if byID[suprem.ID] != 40.0 {
		t.Errorf("süprem stoğu = %v, want 40", byID[suprem.ID])
	}
}

func TestListMovementsFilters(t *testing.T) {
	setupTestDB(t)
	app := newTestApp(t)
	_, token := seedPlanlamaUser(t)
	product := seedProduct(t, "Penye Siyah")

	for _, m := range []fiber.Map{
		{"date": "2025-12-01", "product_id": product.ID, "direction": "GIRIS", "quantity": 10.0, "lot_no": "LOT-A"},
		{"date": "2025-12-05", "product_id": product.ID, "direction": "GIRIS", "quantity": 20.0, "lot_no": "LOT-B"},
		{"date": "2025-12-06", "product_id": product.ID, "direction": "CIKIS", "quantity": 5.0, "lot_no": "LOT-A"},
	} {
		resp := postMovement(t, app, token, m)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("hareket oluşturulamadı: status = %d", resp.StatusCode)
		}
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"tümü", "", 3},
		{"yön filtresi", "?direction=CIKIS", 1},
		{"lot filtresi", "?lot_no=LOT-A", 2},
		{"tarih aralığı", "?start=2025-12-05&end=2025-12-05", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/stock-movements"+tt.query, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("istek başarısız: %v", err)
			}
			var movements []MovementResponse
			if err := json.NewDecoder(resp.Body).Decode(&movements); err != nil {
				t.Fatalf("yanıt çözümlenemedi: %v", err)
			}
			if len(movements) != tt.want {
				t.Errorf("kayıt sayısı = %d, want %d", len(movements), tt.want)
			}
		})
	}
}

func TestDeleteMovement(t *testing.T) {
	setupTestDB(t)
	app := newTestApp(t)
	_, token := seedPlanlamaUser(t)
	product := seedProduct(t, "Penye Siyah")

	resp := postMovement(t, app, token, fiber.Map{
		"date": "2025-12-01", "product_id": product.ID, "direction": "GIRIS", "quantity": 10.0,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("hareket oluşturulamadı: status = %d", resp.StatusCode)
	}
	var created MovementResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("yanıt çözümlenemedi: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/stock-movements/%d", created.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	delResp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("istek başarısız: %v", err)
	}
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", delResp.StatusCode, http.StatusNoContent)
	}

	var count int64
	database.DB.Model(&models.StockMovement{}).Count(&count)
	if count != 0 {
		t.Errorf("hareket silinmemiş: %d kayıt var", count)
	}
}
