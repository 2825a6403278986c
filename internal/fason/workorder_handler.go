package fason

import (
	"fmt"
	"strings"
	"time"

	"miraapp-backend/internal/audit"
	"miraapp-backend/internal/auth"
	"miraapp-backend/internal/database"
	"miraapp-backend/internal/erp"
	"miraapp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type WorkOrderResponse struct {
	ID             uint    `json:"id"`
	OrderNo        string  `json:"orderNo"`
	ProductID      uint    `json:"productId"`
	ProductName    string  `json:"productName"`
	Quantity       float64 `json:"quantity"`
	CustomerID     *uint   `json:"customerId"`
	CustomerName   string  `json:"customerName"`
	DeliveryDate   string  `json:"deliveryDate"`
	Priority       int     `json:"priority"`
	Status         string  `json:"status"`
	IsMobile       bool    `json:"isMobile"`
	AssignedUserID *uint   `json:"assignedUserId"`
	ExternalID     string  `json:"externalId"`
	CreatedAt      string  `json:"createdAt"`
}

type CreateWorkOrderRequest struct {
	OrderNo        string  `json:"orderNo"`
	ProductID      uint    `json:"productId"`
	Quantity       float64 `json:"quantity"`
	CustomerID     *uint   `json:"customerId"`
	DeliveryDate   string  `json:"deliveryDate"` // "2025-01-31" (opsiyonel)
	Priority       int     `json:"priority"`
	IsMobile       bool    `json:"isMobile"`
	AssignedUserID *uint   `json:"assignedUserId"`
}

type UpdateWorkOrderRequest struct {
	OrderNo        *string  `json:"orderNo"`
	ProductID      *uint    `json:"productId"`
	Quantity       *float64 `json:"quantity"`
	CustomerID     *uint    `json:"customerId"`
	DeliveryDate   *string  `json:"deliveryDate"`
	Priority       *int     `json:"priority"`
	Status         *string  `json:"status"` // Elle düzeltme için; normal akış takip kayıtlarından ilerler
	IsMobile       *bool    `json:"isMobile"`
	AssignedUserID *uint    `json:"assignedUserId"`
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

func workOrderResponse(o *models.WorkOrder) WorkOrderResponse {
	res := WorkOrderResponse{
		ID:             o.ID,
		OrderNo:        o.OrderNo,
		ProductID:      o.ProductID,
		ProductName:    o.Product.Name,
		Quantity:       o.Quantity,
		CustomerID:     o.CustomerID,
		Priority:       o.Priority,
		Status:         string(o.Status),
		IsMobile:       o.IsMobile,
		AssignedUserID: o.AssignedUserID,
		ExternalID:     o.ExternalID,
		CreatedAt:      o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if o.Customer != nil {
		res.CustomerName = o.Customer.Name
	}
	if o.DeliveryDate != nil {
		res.DeliveryDate = o.DeliveryDate.Format("2006-01-02")
	}
	return res
}

// POST /api/fason/work-orders (admin + planlama)
func CreateWorkOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWorkOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.OrderNo = strings.TrimSpace(body.OrderNo)
		if body.OrderNo == "" {
			return fiber.NewError(fiber.StatusBadRequest, "orderNo zorunludur")
		}
		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "productId zorunludur")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity 0'dan büyük olmalıdır")
		}

		// Sipariş no unique kontrolü
		var existing models.WorkOrder
		if err := database.DB.Where("order_no = ?", body.OrderNo).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Bu sipariş numarası zaten kayıtlı: %s", body.OrderNo))
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

		if body.AssignedUserID != nil {
			var assigned models.User
			if err := database.DB.First(&assigned, "id = ?", *body.AssignedUserID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Atanacak kullanıcı bulunamadı")
			}
		}

		var deliveryDate *time.Time
		if body.DeliveryDate != "" {
			d, err := time.Parse("2006-01-02", body.DeliveryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "deliveryDate formatı 'YYYY-MM-DD' olmalı")
			}
			deliveryDate = &d
		}

		order := models.WorkOrder{
			OrderNo:        body.OrderNo,
			ProductID:      body.ProductID,
			Quantity:       body.Quantity,
			CustomerID:     body.CustomerID,
			DeliveryDate:   deliveryDate,
			Priority:       body.Priority,
			Status:         models.StatusKesim, // Yeni iş emri her zaman kesimden başlar
			IsMobile:       body.IsMobile,
			AssignedUserID: body.AssignedUserID,
		}

		if err := database.DB.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İş emri oluşturulamadı")
		}

		// Audit log
		if userID, userName, err := currentUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "work_order",
				EntityID:    order.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("İş emri oluşturuldu: %s", order.OrderNo),
				After:       order,
			})
		}

		order.Product = product
		return c.Status(fiber.StatusCreated).JSON(workOrderResponse(&order))
	}
}

// GET /api/fason/work-orders?status=&customerId=&assignedUserId=&mobile=
func ListWorkOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.WorkOrder{}).Preload("Product").Preload("Customer")

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if customerID := c.Query("customerId"); customerID != "" {
			dbq = dbq.Where("customer_id = ?", customerID)
		}
		if assignedUserID := c.Query("assignedUserId"); assignedUserID != "" {
			dbq = dbq.Where("assigned_user_id = ?", assignedUserID)
		}
		if c.Query("mobile") == "true" {
			dbq = dbq.Where("is_mobile = ?", true)
		}

		var orders []models.WorkOrder
		if err := dbq.Order("created_at desc").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İş emirleri listelenemedi")
		}

		res := make([]WorkOrderResponse, 0, len(orders))
		for i := range orders {
			res = append(res, workOrderResponse(&orders[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/fason/work-orders/:id
func GetWorkOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.WorkOrder
		if err := database.DB.Preload("Product").Preload("Customer").First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İş emri bulunamadı")
		}

		return c.JSON(workOrderResponse(&order))
	}
}

// PUT /api/fason/work-orders/:id (admin + planlama)
func UpdateWorkOrderHandler(erpClient *erp.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.WorkOrder
		if err := database.DB.Preload("Product").Preload("Customer").First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İş emri bulunamadı")
		}

		before := order

		var body UpdateWorkOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.OrderNo != nil {
			orderNo := strings.TrimSpace(*body.OrderNo)
			if orderNo == "" {
				return fiber.NewError(fiber.StatusBadRequest, "orderNo boş olamaz")
			}
			order.OrderNo = orderNo
		}
		if body.ProductID != nil {
			var product models.Product
			if err := database.DB.First(&product, "id = ?", *body.ProductID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
			}
			order.ProductID = *body.ProductID
			order.Product = product
		}
		if body.Quantity != nil {
			if *body.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity 0'dan büyük olmalıdır")
			}
			order.Quantity = *body.Quantity
		}
		if body.CustomerID != nil {
			var customer models.Customer
			if err := database.DB.First(&customer, "id = ?", *body.CustomerID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
			}
			order.CustomerID = body.CustomerID
			order.Customer = &customer
		}
		if body.DeliveryDate != nil {
			if *body.DeliveryDate == "" {
				order.DeliveryDate = nil
			} else {
				d, err := time.Parse("2006-01-02", *body.DeliveryDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "deliveryDate formatı 'YYYY-MM-DD' olmalı")
				}
				order.DeliveryDate = &d
			}
		}
		if body.Priority != nil {
			order.Priority = *body.Priority
		}

		statusChanged := false
		if body.Status != nil {
			status := models.WorkOrderStatus(*body.Status)
			switch status {
			case models.StatusKesim, models.StatusDikim, models.StatusBaskiNakis, models.StatusUtu, models.StatusTeslimEdildi:
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz status")
			}
			statusChanged = status != order.Status
			order.Status = status
		}
		if body.IsMobile != nil {
			order.IsMobile = *body.IsMobile
		}
		if body.AssignedUserID != nil {
			var assigned models.User
			if err := database.DB.First(&assigned, "id = ?", *body.AssignedUserID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Atanacak kullanıcı bulunamadı")
			}
			order.AssignedUserID = body.AssignedUserID
		}

		if err := database.DB.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İş emri güncellenemedi")
		}

		if statusChanged && erpClient != nil {
			go erpClient.NotifyWorkOrderStatus(&order, order.Status)
		}

		if userID, userName, err := currentUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "work_order",
				EntityID:    order.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("İş emri güncellendi: %s", order.OrderNo),
				Before:      before,
				After:       order,
			})
		}

		return c.JSON(workOrderResponse(&order))
	}
}

// DELETE /api/fason/work-orders/:id (admin + planlama)
// Takip kayıtları iş emriyle birlikte silinir
func DeleteWorkOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.WorkOrder
		if err := database.DB.First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İş emri bulunamadı")
		}

		// Önce takip kayıtları (FK constraint'siz kurulumlarda da tutarlı kalsın)
		if err := database.DB.Where("work_order_id = ?", order.ID).Delete(&models.TrackingEvent{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Takip kayıtları silinemedi")
		}

		if err := database.DB.Delete(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İş emri silinemedi")
		}

		if userID, userName, err := currentUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "work_order",
				EntityID:    order.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("İş emri silindi: %s", order.OrderNo),
				Before:      order,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
