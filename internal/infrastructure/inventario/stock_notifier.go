package inventario

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tallerpro/compras-api/internal/application/purchasing"
	domainpurchasing "github.com/tallerpro/compras-api/internal/domain/purchasing"
	"github.com/tallerpro/compras-api/pkg/config"
	"github.com/tallerpro/compras-api/pkg/logger"
)

var _ purchasing.StockNotifier = (*StockNotifier)(nil)

// StockNotifier notifica las entradas de stock al servicio de inventario vía
// HTTP. Una recepción exitosa produce exactamente una notificación con el
// delta de cada línea catalogada; si BaseURL está vacío no se notifica nada.
type StockNotifier struct {
	cfg    config.InventarioConfig
	client *http.Client
	log    *logger.Logger
}

func NewStockNotifier(cfg config.InventarioConfig, log *logger.Logger) *StockNotifier {
	return &StockNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.Component("inventario"),
	}
}

type movementRequest struct {
	OrderID   string         `json:"order_id"`
	Type      string         `json:"type"` // siempre "IN" desde compras
	Movements []movementItem `json:"movements"`
}

type movementItem struct {
	PartID    string `json:"part_id"`
	Qty       string `json:"qty"`
	UnitPrice string `json:"unit_price"`
}

// NotifyReceipt envía los deltas de una recepción al servicio de inventario.
func (n *StockNotifier) NotifyReceipt(ctx context.Context, orderID string, deltas []domainpurchasing.StockDelta) error {
	if n.cfg.BaseURL == "" {
		n.log.Debug().Str("order_id", orderID).Msg("Servicio de inventario no configurado, se omite la notificación")
		return nil
	}
	if len(deltas) == 0 {
		return nil
	}

	req := movementRequest{OrderID: orderID, Type: "IN"}
	for _, d := range deltas {
		req.Movements = append(req.Movements, movementItem{
			PartID:    d.PartID,
			Qty:       d.Qty.String(),
			UnitPrice: d.UnitPrice.StringFixed(2),
		})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("serializar movimientos: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		n.cfg.BaseURL+"/api/stock/movements", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("construir request de inventario: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if n.cfg.APIKey != "" {
		httpReq.Header.Set("X-API-Key", n.cfg.APIKey)
	}

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("notificar inventario: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		n.log.Error().
			Int("status", resp.StatusCode).
			Str("order_id", orderID).
			Str("body", string(raw)).
			Msg("El servicio de inventario rechazó la notificación")
		return fmt.Errorf("inventario respondió %d", resp.StatusCode)
	}

	n.log.Info().
		Str("order_id", orderID).
		Int("movements", len(req.Movements)).
		Msg("Entradas de stock notificadas a inventario")
	return nil
}
