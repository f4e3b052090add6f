package notify

import (
	"bytes"
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// WebhookNotifier posts customer notifications to a configured webhook.
// Sends are best-effort: any failure is logged and reported as false, never
// propagated, and never rolls back order state.
type WebhookNotifier struct {
	session    *http.Client
	webhookURL string
	log        zerolog.Logger
}

func NewWebhookNotifier(webhookURL string, timeout time.Duration, log zerolog.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		session:    &http.Client{Timeout: timeout},
		webhookURL: webhookURL,
		log:        log,
	}
}

type notificationPayload struct {
	OrderID       string    `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Message       string    `json:"message"`
	Kind          string    `json:"kind"`
	SentAt        time.Time `json:"sent_at"`
}

func (n *WebhookNotifier) Send(
	ctx context.Context,
	order *domain.DeliveryOrder,
	message string,
	kind ports.NotificationKind,
) bool {
	if n.webhookURL == "" {
		n.log.Debug().Str("order_id", order.OrderID).Msg("no notify webhook configured, dropping notification")
		return false
	}

	payload, err := json.Marshal(notificationPayload{
		OrderID:       order.OrderID,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Message:       message,
		Kind:          string(kind),
		SentAt:        time.Now().UTC(),
	})
	if err != nil {
		n.log.Warn().Err(err).Str("order_id", order.OrderID).Msg("encode notification failed")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		n.log.Warn().Err(err).Str("order_id", order.OrderID).Msg("build notification request failed")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.session.Do(req)
	if err != nil {
		n.log.Warn().Err(err).Str("order_id", order.OrderID).Msg("notification send failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		n.log.Warn().Int("status", resp.StatusCode).Str("order_id", order.OrderID).Msg("notification rejected")
		return false
	}

	return true
}
