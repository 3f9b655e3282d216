package email

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/tallerpro/compras-api/internal/application/purchasing"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	"github.com/tallerpro/compras-api/pkg/config"
	"github.com/tallerpro/compras-api/pkg/logger"
)

var _ purchasing.SupplierNotifier = (*SupplierNotifier)(nil)

// SupplierNotifier envía la orden de compra al proveedor por correo SMTP,
// con el PDF adjunto. Si SMTP no está configurado opera en modo deshabilitado
// y reporta error para que el caso de uso lo registre como advertencia.
type SupplierNotifier struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

func NewSupplierNotifier(cfg config.SMTPConfig, log *logger.Logger) *SupplierNotifier {
	return &SupplierNotifier{cfg: cfg, log: log.Component("email")}
}

// SendOrder envía el correo al proveedor. Falla si el proveedor no tiene
// correo registrado o si SMTP está deshabilitado.
func (n *SupplierNotifier) SendOrder(ctx context.Context, order *entity.PurchaseOrder, supplier *entity.Supplier, pdf []byte) error {
	if !n.cfg.Enabled() {
		return fmt.Errorf("smtp deshabilitado: no se envió la orden %s", order.Number)
	}
	if supplier.Email == "" {
		return fmt.Errorf("el proveedor %s no tiene correo registrado", supplier.Name)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", supplier.Email)
	m.SetHeader("Subject", fmt.Sprintf("Orden de compra %s", order.Number))
	m.SetBody("text/plain", n.body(order, supplier))
	if len(pdf) > 0 {
		m.Attach(fmt.Sprintf("%s.pdf", order.Number), gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}))
	}

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		n.log.Error().Err(err).
			Str("order", order.Number).
			Str("supplier", supplier.Name).
			Msg("Error enviando orden por correo")
		return fmt.Errorf("envío SMTP: %w", err)
	}

	n.log.Info().
		Str("order", order.Number).
		Str("to", supplier.Email).
		Msg("Orden enviada al proveedor")
	return nil
}

func (n *SupplierNotifier) body(order *entity.PurchaseOrder, supplier *entity.Supplier) string {
	return fmt.Sprintf(
		"Estimado proveedor %s:\n\n"+
			"Adjuntamos la orden de compra %s con %d ítems.\n"+
			"Agradecemos confirmar recepción y fecha estimada de entrega.\n\n"+
			"Taller Pro — Compras\n",
		supplier.Name, order.Number, len(order.Lines),
	)
}
