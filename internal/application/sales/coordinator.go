package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

// Coordinator registra ventas de varias líneas de forma atómica: o se guardan todas las
// líneas con sus descuentos de stock, o ninguna.
type Coordinator struct {
	tx       TxRunner
	ledger   StockLedger
	sales    repository.SaleRepository
	renderer ReceiptRenderer
	log      zerolog.Logger
	now      func() time.Time
}

// NewCoordinator construye el coordinador. renderer puede ser nil si no se sirven PDFs.
func NewCoordinator(
	tx TxRunner,
	ledger StockLedger,
	sales repository.SaleRepository,
	renderer ReceiptRenderer,
	log zerolog.Logger,
) *Coordinator {
	return &Coordinator{
		tx:       tx,
		ledger:   ledger,
		sales:    sales,
		renderer: renderer,
		log:      log.With().Str("component", "sales").Logger(),
		now:      time.Now,
	}
}

// SetClock reemplaza el reloj (tests).
func (c *Coordinator) SetClock(now func() time.Time) { c.now = now }

// RegisterSale procesa las líneas en orden dentro de una sola transacción. Cada línea bloquea
// su producto, valida stock, inserta la línea y descuenta el stock vía el ledger.
func (c *Coordinator) RegisterSale(ctx context.Context, actor entity.Identity, in dto.RegisterSaleRequest) (*dto.SaleResultResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.NewValidation("LINES_REQUIRED", "la venta debe tener al menos una línea")
	}
	for i, line := range in.Lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return nil, domain.NewValidation("PRODUCT_REQUIRED", "línea %d: el producto es requerido", i+1)
		}
		if line.Quantity <= 0 {
			return nil, domain.NewValidation("INVALID_QUANTITY", "línea %d: la cantidad debe ser mayor a 0", i+1)
		}
		if line.UnitPrice != nil && line.UnitPrice.IsNegative() {
			return nil, domain.NewValidation("INVALID_PRICE", "línea %d: el precio no puede ser negativo", i+1)
		}
	}
	if in.Discount.IsNegative() {
		return nil, domain.NewValidation("INVALID_DISCOUNT", "el descuento no puede ser negativo")
	}
	// los montos se guardan con centavos
	discount := in.Discount.Round(2)
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = entity.PaymentCash
	}
	if !entity.ValidPaymentMethod(method) {
		return nil, domain.NewValidation("INVALID_PAYMENT_METHOD", "método de pago inválido: %q", method)
	}

	txID := uuid.New().String()
	now := c.now()
	res := &dto.SaleResultResponse{
		TransactionID:       txID,
		TotalBeforeDiscount: decimal.Zero,
		Discount:            discount,
	}

	err := c.tx.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		res.LineItems = res.LineItems[:0]
		res.TotalBeforeDiscount = decimal.Zero
		for i, line := range in.Lines {
			p, err := tx.Products.GetForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("línea %d: %w", i+1, domain.ErrProductNotFound)
			}
			if line.Quantity > p.Stock {
				return domain.InsufficientStock(p.Name, p.Stock, line.Quantity)
			}
			price := p.PriceCUP
			if line.UnitPrice != nil {
				price = line.UnitPrice.Round(2)
			}
			subtotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))

			sale := &entity.Sale{
				ID:            uuid.New().String(),
				TransactionID: txID,
				ProductID:     p.ID,
				Quantity:      line.Quantity,
				UnitPrice:     price,
				TotalPrice:    subtotal,
				Discount:      decimal.Zero,
				PaymentMethod: method,
				Notes:         strings.TrimSpace(in.Notes),
				UserID:        actor.UserID,
				CreatedAt:     now,
			}
			// el descuento va solo en la primera línea
			if i == 0 {
				sale.Discount = discount
			}
			if err := tx.Sales.Create(ctx, sale); err != nil {
				return err
			}
			p.UpdatedAt = now
			if err := c.ledger.ApplyStockChangeInTx(ctx, tx, p, p.Stock-line.Quantity, entity.MovementExit, entity.ReasonSale, txID, actor.UserID); err != nil {
				return err
			}

			sale.ProductName = p.Name
			sale.Username = actor.Username
			res.LineItems = append(res.LineItems, toSaleResponse(sale))
			res.TotalBeforeDiscount = res.TotalBeforeDiscount.Add(subtotal)
		}
		if discount.GreaterThan(res.TotalBeforeDiscount) {
			return domain.NewValidation("DISCOUNT_EXCEEDS_TOTAL", "el descuento (%s) supera el total (%s)",
				discount.StringFixed(2), res.TotalBeforeDiscount.StringFixed(2))
		}
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", actor.UserID).Str("transaction_id", txID).Msg("venta rechazada")
		return nil, err
	}
	res.Total = res.TotalBeforeDiscount.Sub(discount)

	c.log.Info().
		Str("transaction_id", txID).
		Str("user_id", actor.UserID).
		Int("lines", len(res.LineItems)).
		Str("total", res.Total.StringFixed(2)).
		Msg("venta registrada")
	return res, nil
}

// GetSale devuelve una línea de venta.
func (c *Coordinator) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := c.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrSaleNotFound
	}
	out := toSaleResponse(s)
	return &out, nil
}

// ListSales listado paginado con filtros por fechas, vendedor y método de pago.
func (c *Coordinator) ListSales(ctx context.Context, q dto.SaleListQuery) (*dto.SaleListResponse, error) {
	q.Normalize()
	if q.PaymentMethod != "" && !entity.ValidPaymentMethod(q.PaymentMethod) {
		return nil, domain.NewValidation("INVALID_PAYMENT_METHOD", "método de pago inválido: %q", q.PaymentMethod)
	}
	from, err := dto.ParseDateParam(q.From, false)
	if err != nil {
		return nil, domain.NewValidation("INVALID_DATE", "fecha 'from' inválida")
	}
	to, err := dto.ParseDateParam(q.To, true)
	if err != nil {
		return nil, domain.NewValidation("INVALID_DATE", "fecha 'to' inválida")
	}
	items, total, err := c.sales.List(ctx, entity.SaleFilter{
		From:          from,
		To:            to,
		UserID:        q.UserID,
		PaymentMethod: q.PaymentMethod,
		Limit:         q.Limit,
		Offset:        q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Items:      make([]dto.SaleResponse, 0, len(items)),
		Total:      total,
		Page:       q.Page,
		TotalPages: q.TotalPages(total),
	}
	for _, s := range items {
		out.Items = append(out.Items, toSaleResponse(s))
	}
	return out, nil
}

// GetReceipt agrupa las líneas de una transacción en un comprobante.
func (c *Coordinator) GetReceipt(ctx context.Context, transactionID string) (*dto.ReceiptResponse, error) {
	lines, err := c.sales.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrSaleNotFound
	}
	first := lines[0]
	r := &dto.ReceiptResponse{
		TransactionID:       transactionID,
		Date:                first.CreatedAt,
		Seller:              first.Username,
		PaymentMethod:       first.PaymentMethod,
		Notes:               first.Notes,
		Lines:               make([]dto.SaleResponse, 0, len(lines)),
		TotalBeforeDiscount: decimal.Zero,
		Discount:            decimal.Zero,
	}
	for _, s := range lines {
		r.Lines = append(r.Lines, toSaleResponse(s))
		r.TotalBeforeDiscount = r.TotalBeforeDiscount.Add(s.TotalPrice)
		r.Discount = r.Discount.Add(s.Discount)
	}
	r.Total = r.TotalBeforeDiscount.Sub(r.Discount)
	return r, nil
}

// ReceiptPDF genera el PDF del comprobante. Retorna (pdfBytes, filename, err).
func (c *Coordinator) ReceiptPDF(ctx context.Context, transactionID string) ([]byte, string, error) {
	if c.renderer == nil {
		return nil, "", domain.NewBusiness("PDF_UNAVAILABLE", "la generación de PDF no está habilitada")
	}
	r, err := c.GetReceipt(ctx, transactionID)
	if err != nil {
		return nil, "", err
	}
	b, err := c.renderer.Render(r)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	name := transactionID
	if len(name) > 8 {
		name = name[:8]
	}
	return b, "comprobante-" + name + ".pdf", nil
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:            s.ID,
		TransactionID: s.TransactionID,
		ProductID:     s.ProductID,
		ProductName:   s.ProductName,
		Quantity:      s.Quantity,
		UnitPrice:     s.UnitPrice,
		TotalPrice:    s.TotalPrice,
		Discount:      s.Discount,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		UserID:        s.UserID,
		Username:      s.Username,
		CreatedAt:     s.CreatedAt,
	}
}
