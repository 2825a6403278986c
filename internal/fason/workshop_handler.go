package fason

import (
	"strings"

	"miraapp-backend/internal/database"
	"miraapp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type WorkshopResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	ContactName    string `json:"contactName"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Specialization string `json:"specialization"`
	IsActive       bool   `json:"isActive"`
	CreatedAt      string `json:"createdAt"`
}

type CreateWorkshopRequest struct {
	Name           string `json:"name"`
	ContactName    string `json:"contactName"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Specialization string `json:"specialization"`
}

type UpdateWorkshopRequest struct {
	Name           *string `json:"name"`
	ContactName    *string `json:"contactName"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	Specialization *string `json:"specialization"`
	IsActive       *bool   `json:"isActive"`
}

func workshopResponse(w *models.Workshop) WorkshopResponse {
	return WorkshopResponse{
		ID:             w.ID,
		Name:           w.Name,
		ContactName:    w.ContactName,
		Phone:          w.Phone,
		Address:        w.Address,
		Specialization: w.Specialization,
		IsActive:       w.IsActive,
		CreatedAt:      w.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/fason/workshops (admin + planlama)
func CreateWorkshopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWorkshopRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Atölye adı boş olamaz")
		}

		workshop := models.Workshop{
			Name:           body.Name,
			ContactName:    strings.TrimSpace(body.ContactName),
			Phone:          strings.TrimSpace(body.Phone),
			Address:        body.Address,
			Specialization: strings.TrimSpace(body.Specialization),
			IsActive:       true,
		}

		if err := database.DB.Create(&workshop).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Atölye oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(workshopResponse(&workshop))
	}
}

// GET /api/fason/workshops?active=true
func ListWorkshopsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Workshop{})

		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var workshops []models.Workshop
		if err := dbq.Order("name asc").Find(&workshops).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Atölyeler listelenemedi")
		}

		res := make([]WorkshopResponse, 0, len(workshops))
		for i := range workshops {
			res = append(res, workshopResponse(&workshops[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/fason/workshops/:id (admin + planlama)
func UpdateWorkshopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var workshop models.Workshop
		if err := database.DB.First(&workshop, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Atölye bulunamadı")
		}

		var body UpdateWorkshopRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Atölye adı boş olamaz")
			}
			workshop.Name = name
		}
		if body.ContactName != nil {
			workshop.ContactName = strings.TrimSpace(*body.ContactName)
		}
		if body.Phone != nil {
			workshop.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Address != nil {
			workshop.Address = *body.Address
		}
		if body.Specialization != nil {
			workshop.Specialization = strings.TrimSpace(*body.Specialization)
		}
		if body.IsActive != nil {
			workshop.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&workshop).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Atölye güncellenemedi")
		}

		return c.JSON(workshopResponse(&workshop))
	}
}

// DELETE /api/fason/workshops/:id (admin + planlama)
// Takip kayıtları atölyeye referans verir ama ona sahip değildir; silme
// kayıtları koparmasın diye üzerinde takip kaydı olan atölye silinemez.
func DeleteWorkshopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var workshop models.Workshop
		if err := database.DB.First(&workshop, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Atölye bulunamadı")
		}

		var count int64
		database.DB.Model(&models.TrackingEvent{}).Where("workshop_id = ?", workshop.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu atölyeye bağlı takip kayıtları var, önce pasife alın")
		}

		if err := database.DB.Delete(&workshop).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Atölye silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
