package erp

import (
	"strings"
	"time"

	"miraapp-backend/internal/database"
	"miraapp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UpsertWorkOrderRequest struct {
	ExternalID   string  `json:"externalId"`
	OrderNo      string  `json:"orderNo"`
	ProductID    uint    `json:"productId"`
	Quantity     float64 `json:"quantity"`
	CustomerID   *uint   `json:"customerId"`
	DeliveryDate string  `json:"deliveryDate"` // "2025-01-31" (opsiyonel)
	Priority     *int    `json:"priority"`
}

// POST /api/erp/work-orders
// ERP'den push edilen iş emrini externalId üzerinden oluşturur veya günceller.
// Güncellemede status'a dokunulmaz; aşama ilerletme sadece takip kayıtlarından olur.
func UpsertWorkOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpsertWorkOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.ExternalID = strings.TrimSpace(body.ExternalID)
		body.OrderNo = strings.TrimSpace(body.OrderNo)

		if body.ExternalID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "externalId zorunludur")
		}

		var deliveryDate *time.Time
		if body.DeliveryDate != "" {
			d, err := time.Parse("2006-01-02", body.DeliveryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "deliveryDate formatı 'YYYY-MM-DD' olmalı")
			}
			deliveryDate = &d
		}

		var order models.WorkOrder
		err := database.DB.Where("external_id = ?", body.ExternalID).First(&order).Error

		if err != nil {
			// Yeni kayıt: zorunlu alanları doğrula
			if body.OrderNo == "" || body.ProductID == 0 || body.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "orderNo, productId ve quantity zorunludur")
			}

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

			order = models.WorkOrder{
				OrderNo:      body.OrderNo,
				ProductID:    body.ProductID,
				Quantity:     body.Quantity,
				CustomerID:   body.CustomerID,
				DeliveryDate: deliveryDate,
				Status:       models.StatusKesim,
				ExternalID:   body.ExternalID,
			}
			if body.Priority != nil {
				order.Priority = *body.Priority
			}

			if err := database.DB.Create(&order).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "İş emri oluşturulamadı")
			}

			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"id":         order.ID,
				"orderNo":    order.OrderNo,
				"externalId": order.ExternalID,
				"status":     order.Status,
			})
		}

		// Mevcut kayıt: alanları güncelle, status'a dokunma
		if body.OrderNo != "" {
			order.OrderNo = body.OrderNo
		}
		if body.ProductID != 0 {
			var product models.Product
			if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
			}
			order.ProductID = body.ProductID
		}
		if body.Quantity > 0 {
			order.Quantity = body.Quantity
		}
		if body.CustomerID != nil {
			var customer models.Customer
			if err := database.DB.First(&customer, "id = ?", *body.CustomerID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
			}
			order.CustomerID = body.CustomerID
		}
		if deliveryDate != nil {
			order.DeliveryDate = deliveryDate
		}
		if body.Priority != nil {
			order.Priority = *body.Priority
		}

		if err := database.DB.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İş emri güncellenemedi")
		}

		return c.JSON(fiber.Map{
			"id":         order.ID,
			"orderNo":    order.OrderNo,
			"externalId": order.ExternalID,
			"status":     order.Status,
		})
	}
}
