package worker

// stock_alert_worker.go
// Processes low-stock jobs from QueueStockAlert.
// Emails the configured alert address through the SMTP circuit breaker.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Eduardv6/SisPOS-Backend/internal/infra"

	"github.com/rs/zerolog/log"
)

// StockAlertPayload is the job envelope sent to QueueStockAlert.
type StockAlertPayload struct {
	ProductoID string `json:"producto_id"`
	Nombre     string `json:"nombre"`
	Stock      int    `json:"stock"`
	Minimo     int    `json:"minimo"`
}

// StockAlertWorker emails the branch administrator when a product crosses
// its minimum stock.
type StockAlertWorker struct {
	mailer     *infra.Mailer
	cb         *infra.CircuitBreaker
	alertEmail string
}

func NewStockAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, alertEmail string) *StockAlertWorker {
	return &StockAlertWorker{mailer: mailer, cb: cb, alertEmail: alertEmail}
}

// Process sends the alert email. Returns an error on SMTP failure so the
// pool can retry the job.
func (w *StockAlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload StockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("stock_alert: invalid payload")
		return nil // malformed jobs never succeed on retry
	}
	if w.alertEmail == "" {
		log.Debug().Msg("stock_alert: no alert email configured, skipping")
		return nil
	}

	subject := fmt.Sprintf("Stock bajo: %s", payload.Nombre)
	body := fmt.Sprintf(
		"El producto %s (id %s) tiene %d unidades, por debajo del minimo de %d.\n\nRevise el inventario.",
		payload.Nombre, payload.ProductoID, payload.Stock, payload.Minimo,
	)

	err := w.cb.Execute(func() error {
		return w.mailer.Send(w.alertEmail, subject, body, "")
	})
	if err != nil {
		log.Error().Err(err).Str("producto", payload.Nombre).Msg("stock_alert: failed to send email")
		return err
	}

	log.Info().Str("producto", payload.Nombre).Int("stock", payload.Stock).Msg("stock_alert: alert sent")
	return nil
}
