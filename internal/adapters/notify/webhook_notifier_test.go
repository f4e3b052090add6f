package notify

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWebhookNotifierSend(t *testing.T) {
	var received notificationPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second, zerolog.Nop())
	order := &domain.DeliveryOrder{OrderID: "ord-1", CustomerName: "Asha"}

	if ok := n.Send(context.Background(), order, "Your order is nearby", ports.NotifyArrival); !ok {
		t.Fatal("send reported failure against healthy webhook")
	}
	if received.OrderID != "ord-1" || received.Kind != "arrival" {
		t.Fatalf("payload mismatch: %+v", received)
	}
}

func TestWebhookNotifierReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second, zerolog.Nop())
	order := &domain.DeliveryOrder{OrderID: "ord-1"}

	if ok := n.Send(context.Background(), order, "msg", ports.NotifyETAUpdate); ok {
		t.Fatal("send reported success against failing webhook")
	}
}

func TestWebhookNotifierUnconfigured(t *testing.T) {
	n := NewWebhookNotifier("", time.Second, zerolog.Nop())
	order := &domain.DeliveryOrder{OrderID: "ord-1"}

	if ok := n.Send(context.Background(), order, "msg", ports.NotifyETAUpdate); ok {
		t.Fatal("send reported success without a webhook url")
	}
}
