package inventory

import (
	"fmt"
	"time"

	"miraapp-backend/internal/audit"
	"miraapp-backend/internal/auth"
	"miraapp-backend/internal/database"
	"miraapp-backend/internal/erp"
	"miraapp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateMovementRequest struct {
	Date       string   `json:"date"` // "2025-12-09"
	ProductID  uint     `json:"product_id"`
	Direction  string   `json:"direction"` // GIRIS | CIKIS
	Quantity   float64  `json:"quantity"`
	Weight     *float64 `json:"weight"` // Tartıdan okunan kg (opsiyonel)
	LotNo      string   `json:"lot_no"`
	CustomerID *uint    `json:"customer_id"`
	SupplierID *uint    `json:"supplier_id"`
	Note       string   `json:"note"`
}

type MovementResponse struct {
	ID           uint     `json:"id"`
	ProductID    uint     `json:"product_id"`
	ProductName  string   `json:"product_name"`
	Direction    string   `json:"direction"`
	Quantity     float64  `json:"quantity"`
	Weight       *float64 `json:"weight"`
	LotNo        string   `json:"lot_no"`
	CustomerID   *uint    `json:"customer_id"`
	CustomerName string   `json:"customer_name"`
	SupplierID   *uint    `json:"supplier_id"`
	SupplierName string   `json:"supplier_name"`
	Date         string   `json:"date"`
	Note         string   `json:"note"`
	UserID       uint     `json:"user_id"`
	CreatedAt    string   `json:"created_at"`
}

type CurrentStockResponse struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Unit        string  `json:"unit"`
	StockCode   string  `json:"stock_code"`
	Quantity    float64 `json:"quantity"` // Net stok = toplam giriş - toplam çıkış
}

// Yardımcı: Audit için kullanıcı bilgilerini al
func currentUserInfo(c *fiber.Ctx) (uint, string, error) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return 0, "", err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}
	return userID, user.Name, nil
}

func movementResponse(m *models.StockMovement) MovementResponse {
	res := MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.Product.Name,
		Direction:   string(m.Direction),
		Quantity:    m.Quantity,
		Weight:      m.Weight,
		LotNo:       m.LotNo,
		CustomerID:  m.CustomerID,
		SupplierID:  m.SupplierID,
		Date:        m.Date.Format("2006-01-02"),
		Note:        m.Note,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if m.Customer != nil {
		res.CustomerName = m.Customer.Name
	}
	if m.Supplier != nil {
		res.SupplierName = m.Supplier.Name
	}
	return res
}

// netStock: Ürünün o anki net stoğu (toplam giriş - toplam çıkış)
func netStock(productID uint) (float64, error) {
	type sums struct {
		Total float64
	}
	var in, out sums

	err := database.DB.Model(&models.StockMovement{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("product_id = ? AND direction = ?", productID, models.DirectionGiris).
		Scan(&in).Error
	if err != nil {
		return 0, err
	}

	err = database.DB.Model(&models.StockMovement{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("product_id = ? AND direction = ?", productID, models.DirectionCikis).
		Scan(&out).Error
	if err != nil {
		return 0, err
	}

	return in.Total - out.Total, nil
}

// POST /api/stock-movements
func CreateMovementHandler(erpClient *erp.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		// Validasyonlar
		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunludur")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity 0'dan büyük olmalıdır")
		}
		direction := models.MovementDirection(body.Direction)
		if direction != models.DirectionGiris && direction != models.DirectionCikis {
			return fiber.NewError(fiber.StatusBadRequest, "direction GIRIS veya CIKIS olmalı")
		}
		if body.Weight != nil && *body.Weight <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "weight 0'dan büyük olmalıdır")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		// Ürün kontrolü
		var product models.Product
		if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		if body.CustomerID != nil {
			var customer models.Customer
			if err := database.DB.First(&customer, "id = ?", *body.CustomerID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
			}
		}
		if body.SupplierID != nil {
			var supplier models.Supplier
			if err := database.DB.First(&supplier, "id = ?", *body.SupplierID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Tedarikçi bulunamadı")
			}
		}

		// Çıkış hareketi stoku eksiye düşüremez
		if direction == models.DirectionCikis {
			current, err := netStock(body.ProductID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Stok hesaplanamadı")
			}
			if body.Quantity > current {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Yetersiz stok: mevcut %.2f %s", current, product.Unit))
			}
		}

		movement := models.StockMovement{
			ProductID:  body.ProductID,
			Direction:  direction,
			Quantity:   body.Quantity,
			Weight:     body.Weight,
			LotNo:      body.LotNo,
			CustomerID: body.CustomerID,
			SupplierID: body.SupplierID,
			Date:       d,
			Note:       body.Note,
			UserID:     userID,
		}

		if err := database.DB.Create(&movement).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketi oluşturulamadı")
		}

		if erpClient != nil {
			go erpClient.NotifyStockMovement(&movement, product.StockCode)
		}

		// Audit log
		if uid, userName, err := currentUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    userName,
				EntityType:  "stock_movement",
				EntityID:    movement.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Stok hareketi: %s %.2f %s %s", movement.Direction, movement.Quantity, product.Unit, product.Name),
				After:       movement,
			})
		}

		movement.Product = product
		return c.Status(fiber.StatusCreated).JSON(movementResponse(&movement))
	}
}

// GET /api/stock-movements?product_id=&direction=&lot_no=&start=&end=
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.StockMovement{}).
			Preload("Product").Preload("Customer").Preload("Supplier")

		if productID := c.Query("product_id"); productID != "" {
			dbq = dbq.Where("product_id = ?", productID)
		}
		if direction := c.Query("direction"); direction != "" {
			dbq = dbq.Where("direction = ?", direction)
		}
		if lotNo := c.Query("lot_no"); lotNo != "" {
			dbq = dbq.Where("lot_no = ?", lotNo)
		}
		if start := c.Query("start"); start != "" {
			d, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start formatı 'YYYY-MM-DD' olmalı")
			}
			dbq = dbq.Where("date >= ?", d)
		}
		if end := c.Query("end"); end != "" {
			d, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "end formatı 'YYYY-MM-DD' olmalı")
			}
			dbq = dbq.Where("date <= ?", d)
		}

		var movements []models.StockMovement
		if err := dbq.Order("date desc, created_at desc").Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketleri listelenemedi")
		}

		res := make([]MovementResponse, 0, len(movements))
		for i := range movements {
			res = append(res, movementResponse(&movements[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/stock-movements/current
// Ürün başına net stok özetini döndürür
func GetCurrentStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Where("is_active = ?", true).Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]CurrentStockResponse, 0, len(products))
		for _, p := range products {
			quantity, err := netStock(p.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Stok hesaplanamadı")
			}
			res = append(res, CurrentStockResponse{
				ProductID:   p.ID,
				ProductName: p.Name,
				Unit:        p.Unit,
				StockCode:   p.StockCode,
				Quantity:    quantity,
			})
		}

		return c.JSON(res)
	}
}

// DELETE /api/stock-movements/:id (admin + planlama)
func DeleteMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var movement models.StockMovement
		if err := database.DB.Preload("Product").First(&movement, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stok hareketi bulunamadı")
		}

		if err := database.DB.Delete(&movement).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketi silinemedi")
		}

		if uid, userName, err := currentUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    userName,
				EntityType:  "stock_movement",
				EntityID:    movement.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Stok hareketi silindi: %s %.2f %s", movement.Direction, movement.Quantity, movement.Product.Name),
				Before:      movement,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
