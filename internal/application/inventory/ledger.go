package inventory

import (
	"context"
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

// Config parámetros de negocio del ledger.
type Config struct {
	ExchangeRate decimal.Decimal // USD -> CUP
	Policy       NumericPolicy
	LowStock     int
	MediumStock  int
}

// Ledger mantiene el stock de productos y su log de movimientos. Todo cambio de stock
// pasa por ApplyStockChangeInTx, que escribe el movimiento en la misma transacción.
type Ledger struct {
	tx       TxRunner
	products repository.ProductRepository
	moves    repository.StockMovementRepository
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewLedger construye el ledger.
func NewLedger(
	tx TxRunner,
	products repository.ProductRepository,
	moves repository.StockMovementRepository,
	cfg Config,
	log zerolog.Logger,
) *Ledger {
	if cfg.Policy == "" {
		cfg.Policy = PolicyStrict
	}
	return &Ledger{
		tx:       tx,
		products: products,
		moves:    moves,
		cfg:      cfg,
		log:      log.With().Str("component", "ledger").Logger(),
		now:      time.Now,
	}
}

// SetClock reemplaza el reloj (tests).
func (l *Ledger) SetClock(now func() time.Time) { l.now = now }

// CreateProduct crea el producto y, si trae stock inicial, su movimiento de entrada en la misma transacción.
func (l *Ledger) CreateProduct(ctx context.Context, actor entity.Identity, in dto.CreateProductRequest) (*entity.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidation("NAME_REQUIRED", "el nombre es requerido")
	}
	categoryID := strings.TrimSpace(in.CategoryID)
	if categoryID == "" {
		return nil, domain.NewValidation("CATEGORY_REQUIRED", "la categoría es requerida")
	}

	now := l.now()
	p := &entity.Product{
		ID:            uuid.New().String(),
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		CategoryID:    categoryID,
		SubcategoryID: strings.TrimSpace(in.SubcategoryID),
		Stock:         in.Stock,
		Quantity:      1,
		Extractions:   in.Extractions,
		Defective:     in.Defective,
		PriceUSD:      in.PriceUSD.Round(2),
		OtherPriceCUP: in.OtherPriceCUP,
		PxgCUP:        in.PxgCUP,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.PriceCUP != nil {
		p.PriceCUP = *in.PriceCUP
	} else {
		p.PriceCUP = p.PriceUSD.Mul(l.cfg.ExchangeRate).Round(2)
	}
	if err := checkCreateNumbers(p, l.cfg.Policy); err != nil {
		return nil, err
	}
	initial := p.Stock

	err := l.tx.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		if err := checkCategory(ctx, tx.Categories, p.CategoryID, p.SubcategoryID); err != nil {
			return err
		}
		p.Stock = 0
		if err := tx.Products.Create(ctx, p); err != nil {
			return err
		}
		return l.ApplyStockChangeInTx(ctx, tx, p, initial, entity.MovementEntry, entity.ReasonInitialStock, "", actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("product_id", p.ID).Str("user_id", actor.UserID).Int("stock", p.Stock).Msg("producto creado")
	return p, nil
}

// UpdateProduct aplica un parche de campos. Si cambia el stock se registra un movimiento
// entry/exit por la diferencia; todo bajo bloqueo de fila y en una sola transacción.
func (l *Ledger) UpdateProduct(ctx context.Context, actor entity.Identity, id string, patch map[string]any) (*entity.Product, error) {
	var out *entity.Product
	err := l.tx.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		p, err := tx.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		prevCategory, prevSub := p.CategoryID, p.SubcategoryID
		newStock, err := applyPatch(p, patch, l.cfg.Policy)
		if err != nil {
			return err
		}
		if p.CategoryID != prevCategory || p.SubcategoryID != prevSub {
			if err := checkCategory(ctx, tx.Categories, p.CategoryID, p.SubcategoryID); err != nil {
				return err
			}
		}
		p.UpdatedAt = l.now()
		if newStock != nil && *newStock != p.Stock {
			if err := l.ApplyStockChangeInTx(ctx, tx, p, *newStock, "", entity.ReasonManualAdjust, "", actor.UserID); err != nil {
				return err
			}
		} else if err := tx.Products.Update(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("product_id", id).Str("user_id", actor.UserID).Msg("producto actualizado")
	return out, nil
}

// DeleteProduct elimina el producto. Con stock > 0 deja antes un movimiento de salida por el total.
// Un producto con ventas registradas no se puede eliminar.
func (l *Ledger) DeleteProduct(ctx context.Context, actor entity.Identity, id string) error {
	err := l.tx.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		p, err := tx.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		sold, err := tx.Sales.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if sold > 0 {
			return domain.NewBusiness("PRODUCT_HAS_SALES", "no se puede eliminar %s: tiene %d ventas registradas", p.Name, sold)
		}
		if err := l.ApplyStockChangeInTx(ctx, tx, p, 0, entity.MovementExit, entity.ReasonProductDeleted, "", actor.UserID); err != nil {
			return err
		}
		return tx.Products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	l.log.Info().Str("product_id", id).Str("user_id", actor.UserID).Msg("producto eliminado")
	return nil
}

// RegisterMovement registra un movimiento explícito: entry suma, exit resta y adjustment fija el stock.
func (l *Ledger) RegisterMovement(ctx context.Context, actor entity.Identity, in dto.RegisterMovementRequest) (*entity.StockMovement, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.NewValidation("PRODUCT_REQUIRED", "el producto es requerido")
	}
	if !entity.ValidMovementType(in.Type) {
		return nil, domain.NewValidation("INVALID_MOVEMENT_TYPE", "tipo de movimiento inválido: %q", in.Type)
	}
	if in.Type == entity.MovementAdjustment {
		if in.Quantity < 0 {
			return nil, domain.NewValidation("INVALID_QUANTITY", "el stock objetivo no puede ser negativo")
		}
	} else if in.Quantity <= 0 {
		return nil, domain.NewValidation("INVALID_QUANTITY", "la cantidad debe ser mayor a 0")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = entity.ReasonManualAdjust
	}

	var mov *entity.StockMovement
	err := l.tx.Run(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		p, err := tx.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		target := in.Quantity
		switch in.Type {
		case entity.MovementEntry:
			target = p.Stock + in.Quantity
		case entity.MovementExit:
			if p.Stock < in.Quantity {
				return domain.InsufficientStock(p.Name, p.Stock, in.Quantity)
			}
			target = p.Stock - in.Quantity
		}
		if target == p.Stock {
			return domain.NewValidation("NO_CHANGE", "el stock ya es %d", p.Stock)
		}
		p.UpdatedAt = l.now()
		mov, err = l.applyChange(ctx, tx, p, target, in.Type, reason, "", actor.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Str("product_id", in.ProductID).
		Str("user_id", actor.UserID).
		Str("type", mov.Type).
		Int("quantity", mov.Quantity).
		Msg("movimiento registrado")
	return mov, nil
}

// ApplyStockChangeInTx lleva el stock de p a newStock usando los repositorios de la transacción
// del caller y escribe el movimiento correspondiente. p debe venir de GetForUpdate.
// Con movType vacío el tipo se deduce del signo (entry/exit). Sin cambio no escribe nada.
func (l *Ledger) ApplyStockChangeInTx(
	ctx context.Context,
	tx repository.TxRepos,
	p *entity.Product,
	newStock int,
	movType, reason, reference, userID string,
) error {
	_, err := l.applyChange(ctx, tx, p, newStock, movType, reason, reference, userID)
	return err
}

func (l *Ledger) applyChange(
	ctx context.Context,
	tx repository.TxRepos,
	p *entity.Product,
	newStock int,
	movType, reason, reference, userID string,
) (*entity.StockMovement, error) {
	if newStock < 0 {
		return nil, domain.InsufficientStock(p.Name, p.Stock, p.Stock-newStock)
	}
	before := p.Stock
	delta := newStock - before
	if delta == 0 {
		return nil, nil
	}
	if movType == "" {
		movType = entity.MovementEntry
		if delta < 0 {
			movType = entity.MovementExit
		}
	}
	qty := delta
	if qty < 0 {
		qty = -qty
	}
	if (movType == entity.MovementEntry && delta < 0) || (movType == entity.MovementExit && delta > 0) {
		return nil, domain.NewValidation("INVALID_MOVEMENT_TYPE", "el tipo %s no corresponde a un cambio de %d", movType, delta)
	}

	p.Stock = newStock
	if err := tx.Products.Update(ctx, p); err != nil {
		p.Stock = before
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   p.ID,
		Type:        movType,
		Quantity:    qty,
		StockBefore: before,
		StockAfter:  newStock,
		Reason:      reason,
		Reference:   reference,
		ProductName: p.Name,
		UserID:      userID,
		CreatedAt:   l.now(),
	}
	if err := tx.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// GetProduct devuelve el producto o ErrProductNotFound.
func (l *Ledger) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := l.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// ListProducts listado paginado con filtros.
func (l *Ledger) ListProducts(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	q.Normalize()
	includeOut := true
	if q.IncludeOutOfStock != nil {
		includeOut = *q.IncludeOutOfStock
	}
	items, total, err := l.products.List(ctx, entity.ProductFilter{
		CategoryID:        q.CategoryID,
		SubcategoryID:     q.SubcategoryID,
		Search:            strings.TrimSpace(q.Search),
		IncludeOutOfStock: includeOut,
		Limit:             q.Limit,
		Offset:            q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items:      make([]dto.ProductResponse, 0, len(items)),
		Total:      total,
		Page:       q.Page,
		TotalPages: q.TotalPages(total),
	}
	for _, p := range items {
		out.Items = append(out.Items, l.ToProductResponse(p))
	}
	return out, nil
}

// ListMovements listado paginado de movimientos, del más reciente al más antiguo.
func (l *Ledger) ListMovements(ctx context.Context, q dto.MovementListQuery) (*dto.MovementListResponse, error) {
	q.Normalize()
	if q.Type != "" && !entity.ValidMovementType(q.Type) {
		return nil, domain.NewValidation("INVALID_MOVEMENT_TYPE", "tipo de movimiento inválido: %q", q.Type)
	}
	from, err := dto.ParseDateParam(q.From, false)
	if err != nil {
		return nil, domain.NewValidation("INVALID_DATE", "fecha 'from' inválida")
	}
	to, err := dto.ParseDateParam(q.To, true)
	if err != nil {
		return nil, domain.NewValidation("INVALID_DATE", "fecha 'to' inválida")
	}
	items, total, err := l.moves.List(ctx, entity.MovementFilter{
		ProductID: q.ProductID,
		Type:      q.Type,
		From:      from,
		To:        to,
		Limit:     q.Limit,
		Offset:    q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{
		Items:      make([]dto.MovementResponse, 0, len(items)),
		Total:      total,
		Page:       q.Page,
		TotalPages: q.TotalPages(total),
	}
	for _, m := range items {
		out.Items = append(out.Items, ToMovementResponse(m))
	}
	return out, nil
}

// ToProductResponse mapea la entidad con su estado de stock calculado.
func (l *Ledger) ToProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		CategoryName:    p.CategoryName,
		SubcategoryID:   p.SubcategoryID,
		SubcategoryName: p.SubcategoryName,
		Stock:           p.Stock,
		StockStatus:     p.StockStatus(l.cfg.LowStock, l.cfg.MediumStock),
		Quantity:        p.Quantity,
		Extractions:     p.Extractions,
		Defective:       p.Defective,
		PriceUSD:        p.PriceUSD,
		PriceCUP:        p.PriceCUP,
		OtherPriceCUP:   p.OtherPriceCUP,
		PxgCUP:          p.PxgCUP,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToMovementResponse mapea un movimiento.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Type:        m.Type,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		Reference:   m.Reference,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
	}
}

// checkCategory verifica que la categoría exista y que la subcategoría, si viene, le pertenezca.
func checkCategory(ctx context.Context, cats repository.CategoryRepository, categoryID, subcategoryID string) error {
	cat, err := cats.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return domain.ErrCategoryNotFound
	}
	if subcategoryID == "" {
		return nil
	}
	sub, err := cats.GetSubcategory(ctx, subcategoryID)
	if err != nil {
		return err
	}
	if sub == nil || sub.CategoryID != categoryID {
		return domain.NewValidation("INVALID_SUBCATEGORY", "la subcategoría no pertenece a la categoría")
	}
	return nil
}
