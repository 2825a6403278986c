package fason

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

type TrackingResponse struct {
	ID           uint     `json:"id"`
	WorkOrderID  uint     `json:"workOrderId"`
	OrderNo      string   `json:"orderNo"`
	WorkshopID   *uint    `json:"workshopId"`
	WorkshopName string   `json:"workshopName"`
	UserID       uint     `json:"userId"`
	ProcessType  string   `json:"processType"`
	Status       string   `json:"status"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	PickupDate   *string  `json:"pickupDate"`
	DeliveryDate *string  `json:"deliveryDate"`
	Notes        string   `json:"notes"`
	ProblemNotes string   `json:"problemNotes"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	CreatedAt    string   `json:"createdAt"`
}

type CreateTrackingRequest struct {
	WorkOrderID  uint     `json:"workOrderId"`
	WorkshopID   *uint    `json:"workshopId"`
	ProcessType  string   `json:"processType"`
	Status       string   `json:"status"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	PickupDate   *string  `json:"pickupDate"`
	DeliveryDate *string  `json:"deliveryDate"`
	Notes        string   `json:"notes"`
	ProblemNotes string   `json:"problemNotes"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

type UpdateTrackingRequest struct {
	WorkshopID   *uint    `json:"workshopId"`
	Status       *string  `json:"status"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	PickupDate   *string  `json:"pickupDate"`
	DeliveryDate *string  `json:"deliveryDate"`
	Notes        *string  `json:"notes"`
	ProblemNotes *string  `json:"problemNotes"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// Mobil uygulama RFC3339 gönderir, eski web formu tarih gönderir; ikisi de kabul
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fmt.Errorf("tarih 'YYYY-MM-DD' veya RFC3339 formatında olmalı: %s", *s)
	}
	return &t, nil
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func trackingResponse(e *models.TrackingEvent) TrackingResponse {
	res := TrackingResponse{
		ID:           e.ID,
		WorkOrderID:  e.WorkOrderID,
		OrderNo:      e.WorkOrder.OrderNo,
		WorkshopID:   e.WorkshopID,
		UserID:       e.UserID,
		ProcessType:  string(e.ProcessType),
		Status:       e.Status,
		StartDate:    formatOptionalDate(e.StartDate),
		EndDate:      formatOptionalDate(e.EndDate),
		PickupDate:   formatOptionalDate(e.PickupDate),
		DeliveryDate: formatOptionalDate(e.DeliveryDate),
		Notes:        e.Notes,
		ProblemNotes: e.ProblemNotes,
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
	if e.Workshop != nil {
		res.WorkshopName = e.Workshop.Name
	}
	return res
}

// POST /api/fason/trackings
// Takip kaydını ekler; status "TESLIM_EDILDI" ise iş emrini ardıl
// aşamaya ilerletir. İki yazma bağımsızdır, aralarında transaction yoktur.
func CreateTrackingHandler(erpClient *erp.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateTrackingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.WorkOrderID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "workOrderId zorunludur")
		}
		processType := models.ProcessType(body.ProcessType)
		if !ValidProcessType(processType) {
			return fiber.NewError(fiber.StatusBadRequest, "processType KESIM, DIKIM, BASKI_NAKIS veya UTU olmalı")
		}
		if body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status zorunludur")
		}

		var order models.WorkOrder
		if err := database.DB.First(&order, "id = ?", body.WorkOrderID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İş emri bulunamadı")
		}

		var workshop *models.Workshop
		if body.WorkshopID != nil {
			var w models.Workshop
			if err := database.DB.First(&w, "id = ?", *body.WorkshopID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Atölye bulunamadı")
			}
			workshop = &w
		}

		startDate, err := parseOptionalDate(body.StartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		endDate, err := parseOptionalDate(body.EndDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		pickupDate, err := parseOptionalDate(body.PickupDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		deliveryDate, err := parseOptionalDate(body.DeliveryDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		event := models.TrackingEvent{
			WorkOrderID:  order.ID,
			WorkshopID:   body.WorkshopID,
			UserID:       userID, // Her zaman token'dan; client'a güvenilmez
			ProcessType:  processType,
			Status:       body.Status,
			StartDate:    startDate,
			EndDate:      endDate,
			PickupDate:   pickupDate,
			DeliveryDate: deliveryDate,
			Notes:        body.Notes,
			ProblemNotes: body.ProblemNotes,
			Latitude:     body.Latitude,
			Longitude:    body.Longitude,
		}

		if err := database.DB.Create(&event).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Takip kaydı oluşturulamadı")
		}

		// Aşama tamamlandıysa iş emrini ardıl duruma ilerlet
		if event.Status == models.TrackingStatusTeslimEdildi {
			if next, ok := NextStatus(processType); ok {
				if err := database.DB.Model(&order).Update("status", next).Error; err == nil {
					order.Status = next
					if erpClient != nil {
						go erpClient.NotifyWorkOrderStatus(&order, next)
					}
				}
			}
		}

		if uid, userName, err := currentUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    userName,
				EntityType:  "tracking_event",
				EntityID:    event.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Takip kaydı: %s / %s / %s", order.OrderNo, event.ProcessType, event.Status),
				After:       event,
			})
		}

		event.WorkOrder = order
		event.Workshop = workshop
		return c.Status(fiber.StatusCreated).JSON(trackingResponse(&event))
	}
}

// GET /api/fason/trackings?workOrderId=&userId=&processType=&status=
// Takipçi rolü, istekte ne filtre verirse versin yalnızca kendi girdiği
// kayıtları görür
func ListTrackingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		role, err := auth.CurrentUserRole(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.TrackingEvent{}).Preload("WorkOrder").Preload("Workshop")

		if workOrderID := c.Query("workOrderId"); workOrderID != "" {
			dbq = dbq.Where("work_order_id = ?", workOrderID)
		}
		if processType := c.Query("processType"); processType != "" {
			dbq = dbq.Where("process_type = ?", processType)
		}
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		if role == models.RoleTakipci {
			dbq = dbq.Where("user_id = ?", userID)
		} else if filterUserID := c.Query("userId"); filterUserID != "" {
			dbq = dbq.Where("user_id = ?", filterUserID)
		}

		var events []models.TrackingEvent
		if err := dbq.Order("created_at desc").Find(&events).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Takip kayıtları listelenemedi")
		}

		res := make([]TrackingResponse, 0, len(events))
		for i := range events {
			res = append(res, trackingResponse(&events[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/fason/trackings/:id
// Takipçi yalnızca kendi kaydını güncelleyebilir; sorgu kullanıcıya
// daraltıldığı için başkasının kaydı "bulunamadı" döner
func UpdateTrackingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		role, err := auth.CurrentUserRole(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Preload("WorkOrder").Preload("Workshop")
		if role == models.RoleTakipci {
			dbq = dbq.Where("user_id = ?", userID)
		}

		var event models.TrackingEvent
		if err := dbq.First(&event, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Takip kaydı bulunamadı")
		}

		before := event

		var body UpdateTrackingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.WorkshopID != nil {
			var workshop models.Workshop
			if err := database.DB.First(&workshop, "id = ?", *body.WorkshopID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Atölye bulunamadı")
			}
			event.WorkshopID = body.WorkshopID
			event.Workshop = &workshop
		}
		if body.Status != nil {
			if *body.Status == "" {
				return fiber.NewError(fiber.StatusBadRequest, "status boş olamaz")
			}
			event.Status = *body.Status
		}
		if body.StartDate != nil {
			d, err := parseOptionalDate(body.StartDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			event.StartDate = d
		}
		if body.EndDate != nil {
			d, err := parseOptionalDate(body.EndDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			event.EndDate = d
		}
		if body.PickupDate != nil {
			d, err := parseOptionalDate(body.PickupDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			event.PickupDate = d
		}
		if body.DeliveryDate != nil {
			d, err := parseOptionalDate(body.DeliveryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			event.DeliveryDate = d
		}
		if body.Notes != nil {
			event.Notes = *body.Notes
		}
		if body.ProblemNotes != nil {
			event.ProblemNotes = *body.ProblemNotes
		}
		if body.Latitude != nil {
			event.Latitude = body.Latitude
		}
		if body.Longitude != nil {
			event.Longitude = body.Longitude
		}

		if err := database.DB.Save(&event).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Takip kaydı güncellenemedi")
		}

		if uid, userName, err := currentUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      uid,
				UserName:    userName,
				EntityType:  "tracking_event",
				EntityID:    event.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Takip kaydı güncellendi: %d", event.ID),
				Before:      before,
				After:       event,
			})
		}

		return c.JSON(trackingResponse(&event))
	}
}
