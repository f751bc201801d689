package sales

import (
	"context"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx repository.TxRepos) error) error
}

// StockLedger interfaz para integrar ventas con el ledger de stock.
// ApplyStockChangeInTx usa los repositorios del caller (misma transacción); si retorna
// error el caller debe abortar y la transacción completa se revierte.
type StockLedger interface {
	ApplyStockChangeInTx(
		ctx context.Context,
		tx repository.TxRepos,
		product *entity.Product,
		newStock int,
		movType, reason, reference, userID string,
	) error
}

// ReceiptRenderer genera el PDF del comprobante.
type ReceiptRenderer interface {
	Render(receipt *dto.ReceiptResponse) ([]byte, error)
}
