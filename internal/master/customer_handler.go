package master

import (
	"strings"

	"miraapp-backend/internal/database"
	"miraapp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CustomerResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	TaxNumber   string `json:"tax_number"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

type CreateCustomerRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	TaxNumber   string `json:"tax_number"`
}

type UpdateCustomerRequest struct {
	Name        *string `json:"name"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	TaxNumber   *string `json:"tax_number"`
	IsActive    *bool   `json:"is_active"`
}

func customerResponse(cu *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          cu.ID,
		Name:        cu.Name,
		ContactName: cu.ContactName,
		Phone:       cu.Phone,
		Email:       cu.Email,
		Address:     cu.Address,
		TaxNumber:   cu.TaxNumber,
		IsActive:    cu.IsActive,
		CreatedAt:   cu.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/customers (admin + planlama)
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Müşteri adı boş olamaz")
		}

		customer := models.Customer{
			Name:        body.Name,
			ContactName: strings.TrimSpace(body.ContactName),
			Phone:       strings.TrimSpace(body.Phone),
			Email:       strings.TrimSpace(strings.ToLower(body.Email)),
			Address:     body.Address,
			TaxNumber:   strings.TrimSpace(body.TaxNumber),
			IsActive:    true,
		}

		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(customerResponse(&customer))
	}
}

// GET /api/customers?active=true
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Customer{})

		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var customers []models.Customer
		if err := dbq.Order("name asc").Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}

		res := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			res = append(res, customerResponse(&customers[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/customers/:id
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		return c.JSON(customerResponse(&customer))
	}
}

// PUT /api/customers/:id (admin + planlama)
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Müşteri adı boş olamaz")
			}
			customer.Name = name
		}
		if body.ContactName != nil {
			customer.ContactName = strings.TrimSpace(*body.ContactName)
		}
		if body.Phone != nil {
			customer.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Email != nil {
			customer.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Address != nil {
			customer.Address = *body.Address
		}
		if body.TaxNumber != nil {
			customer.TaxNumber = strings.TrimSpace(*body.TaxNumber)
		}
		if body.IsActive != nil {
			customer.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri güncellenemedi")
		}

		return c.JSON(customerResponse(&customer))
	}
}

// DELETE /api/admin/customers/:id (sadece admin)
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		// Hareket ya da iş emri bağlıysa silme, pasife almaya yönlendir
		var movementCount, orderCount int64
		database.DB.Model(&models.StockMovement{}).Where("customer_id = ?", customer.ID).Count(&movementCount)
		database.DB.Model(&models.WorkOrder{}).Where("customer_id = ?", customer.ID).Count(&orderCount)
		if movementCount > 0 || orderCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu müşteriye bağlı kayıtlar var, silmek yerine pasife alın")
		}

		if err := database.DB.Delete(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
