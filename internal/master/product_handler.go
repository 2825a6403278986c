package master

import (
	"strings"

	"miraapp-backend/internal/database"
	"miraapp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	FabricType string  `json:"fabric_type"`
	Color      string  `json:"color"`
	Unit       string  `json:"unit"`
	StockCode  string  `json:"stock_code"`
	UnitWeight float64 `json:"unit_weight"`
	IsActive   bool    `json:"is_active"`
}

type CreateProductRequest struct {
	Name       string  `json:"name"`
	FabricType string  `json:"fabric_type"`
	Color      string  `json:"color"`
	Unit       string  `json:"unit"`
	StockCode  string  `json:"stock_code"` // Opsiyonel
	UnitWeight float64 `json:"unit_weight"`
}

type UpdateProductRequest struct {
	Name       *string  `json:"name"`
	FabricType *string  `json:"fabric_type"`
	Color      *string  `json:"color"`
	Unit       *string  `json:"unit"`
	StockCode  *string  `json:"stock_code"`
	UnitWeight *float64 `json:"unit_weight"`
	IsActive   *bool    `json:"is_active"`
}

func productResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		FabricType: p.FabricType,
		Color:      p.Color,
		Unit:       p.Unit,
		StockCode:  p.StockCode,
		UnitWeight: p.UnitWeight,
		IsActive:   p.IsActive,
	}
}

// GET /api/products?active=true (tüm authenticated kullanıcılar görebilir)
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{})

		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}
		if fabricType := c.Query("fabric_type"); fabricType != "" {
			dbq = dbq.Where("fabric_type = ?", fabricType)
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, productResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/products (admin + planlama)
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)
		body.StockCode = strings.TrimSpace(body.StockCode)

		if body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name ve unit zorunlu")
		}
		if body.UnitWeight < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "unit_weight negatif olamaz")
		}

		// Stok kodu unique kontrolü (boş değilse)
		if body.StockCode != "" {
			var existingProduct models.Product
			if err := database.DB.Where("stock_code = ?", body.StockCode).First(&existingProduct).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bu stok kodu zaten kullanılıyor")
			}
		}

		p := models.Product{
			Name:       body.Name,
			FabricType: strings.TrimSpace(body.FabricType),
			Color:      strings.TrimSpace(body.Color),
			Unit:       body.Unit,
			StockCode:  body.StockCode,
			UnitWeight: body.UnitWeight,
			IsActive:   true,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(productResponse(&p))
	}
}

// PUT /api/products/:id (admin + planlama)
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			p.Name = name
		}
		if body.FabricType != nil {
			p.FabricType = strings.TrimSpace(*body.FabricType)
		}
		if body.Color != nil {
			p.Color = strings.TrimSpace(*body.Color)
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Unit boş olamaz")
			}
			p.Unit = unit
		}
		if body.StockCode != nil {
			stockCode := strings.TrimSpace(*body.StockCode)
			if stockCode != "" && stockCode != p.StockCode {
				var existingProduct models.Product
				if err := database.DB.Where("stock_code = ? AND id != ?", stockCode, p.ID).First(&existingProduct).Error; err == nil {
					return fiber.NewError(fiber.StatusBadRequest, "Bu stok kodu zaten kullanılıyor")
				}
			}
			p.StockCode = stockCode
		}
		if body.UnitWeight != nil {
			if *body.UnitWeight < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "unit_weight negatif olamaz")
			}
			p.UnitWeight = *body.UnitWeight
		}
		if body.IsActive != nil {
			p.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(productResponse(&p))
	}
}

// DELETE /api/admin/products/:id (sadece admin)
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var movementCount, orderCount int64
		database.DB.Model(&models.StockMovement{}).Where("product_id = ?", p.ID).Count(&movementCount)
		database.DB.Model(&models.WorkOrder{}).Where("product_id = ?", p.ID).Count(&orderCount)
		if movementCount > 0 || orderCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu ürüne bağlı kayıtlar var, silmek yerine pasife alın")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
