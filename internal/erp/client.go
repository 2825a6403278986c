package erp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"miraapp-backend/internal/config"
	"miraapp-backend/internal/models"

	"github.com/google/uuid"
)

// Client: ERP'ye tek denemelik webhook bildirimi gönderir.
// Retry/idempotency yok; ERP tarafı eventId ile tekrarları ayıklayabilir.
type Client struct {
	webhookURL string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		webhookURL: cfg.ERPWebhookURL,
		apiKey:     cfg.ERPAPIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Enabled() bool {
	return c.webhookURL != ""
}

type webhookEvent struct {
	EventID string    `json:"eventId"`
	Type    string    `json:"type"`
	SentAt  time.Time `json:"sentAt"`
	Payload any       `json:"payload"`
}

// send: Best-effort gönderim. Hata loglanır, çağırana dönmez;
// ERP'ye ulaşamamak iş akışını durdurmaz.
func (c *Client) send(eventType string, payload any) {
	if !c.Enabled() {
		return
	}

	event := webhookEvent{
		EventID: uuid.NewString(),
		Type:    eventType,
		SentAt:  time.Now(),
		Payload: payload,
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ERP] webhook gövdesi oluşturulamadı (%s): %v", eventType, err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("[ERP] webhook isteği oluşturulamadı (%s): %v", eventType, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERP] webhook gönderilemedi (%s): %v", eventType, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[ERP] webhook reddedildi (%s): HTTP %d", eventType, resp.StatusCode)
	}
}

type workOrderStatusPayload struct {
	OrderNo    string `json:"orderNo"`
	ExternalID string `json:"externalId,omitempty"`
	Status     string `json:"status"`
}

// NotifyWorkOrderStatus: İş emri aşama değişikliğini ERP'ye bildirir
func (c *Client) NotifyWorkOrderStatus(order *models.WorkOrder, status models.WorkOrderStatus) {
	c.send("work_order.status_changed", workOrderStatusPayload{
		OrderNo:    order.OrderNo,
		ExternalID: order.ExternalID,
		Status:     string(status),
	})
}

type stockMovementPayload struct {
	ProductID uint     `json:"productId"`
	StockCode string   `json:"stockCode,omitempty"`
	Direction string   `json:"direction"`
	Quantity  float64  `json:"quantity"`
	Weight    *float64 `json:"weight,omitempty"`
	LotNo     string   `json:"lotNo,omitempty"`
	Date      string   `json:"date"`
}

// NotifyStockMovement: Kumaş giriş/çıkış hareketini ERP'ye bildirir
func (c *Client) NotifyStockMovement(m *models.StockMovement, stockCode string) {
	c.send("stock_movement.created", stockMovementPayload{
		ProductID: m.ProductID,
		StockCode: stockCode,
		Direction: string(m.Direction),
		Quantity:  m.Quantity,
		Weight:    m.Weight,
		LotNo:     m.LotNo,
		Date:      m.Date.Format("2006-01-02"),
	})
}

// String, log satırlarında client'ın hedefini gizlemeden ama api key'i
// sızdırmadan göstermek için
func (c *Client) String() string {
	if !c.Enabled() {
		return "erp: devre dışı"
	}
	return fmt.Sprintf("erp: %s", c.webhookURL)
}
