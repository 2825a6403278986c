package audit

import (
	"strconv"

	"miraapp-backend/internal/database"
	"miraapp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/admin/audit-logs?entity_type=&entity_id=&user_id=&limit=
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.AuditLog{})

		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
			entityID, err := strconv.ParseUint(entityIDStr, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "entity_id sayısal olmalı")
			}
			dbq = dbq.Where("entity_id = ?", entityID)
		}
		if userIDStr := c.Query("user_id"); userIDStr != "" {
			userID, err := strconv.ParseUint(userIDStr, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "user_id sayısal olmalı")
			}
			dbq = dbq.Where("user_id = ?", userID)
		}

		limit := 200
		if limitStr := c.Query("limit"); limitStr != "" {
			n, err := strconv.Atoi(limitStr)
			if err != nil || n <= 0 || n > 1000 {
				return fiber.NewError(fiber.StatusBadRequest, "limit 1-1000 arasında olmalı")
			}
			limit = n
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at desc").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit logları listelenemedi")
		}

		return c.JSON(logs)
	}
}
