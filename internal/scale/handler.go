package scale

import (
	"errors"
	"strconv"

	"miraapp-backend/internal/config"

	"github.com/gofiber/fiber/v2"
)

// GET /api/scale/read?port=&baudRate=
// Tartıdan tek bir ağırlık okur. Okunamazsa kullanıcı arayüzü elle girişe düşer.
func ReadWeightHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		portName := c.Query("port", cfg.ScalePort)

		baudRate := cfg.ScaleBaudRate
		if baudStr := c.Query("baudRate"); baudStr != "" {
			n, err := strconv.Atoi(baudStr)
			if err != nil || n <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "baudRate pozitif bir sayı olmalı")
			}
			baudRate = n
		}

		weight, err := NewSession(portName, baudRate).Read()
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				return fiber.NewError(fiber.StatusGatewayTimeout, "Tartıdan belirlenen sürede veri alınamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.JSON(fiber.Map{"weight": weight})
	}
}
