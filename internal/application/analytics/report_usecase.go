// Package analytics contiene los casos de uso de reportes de ventas e inventario.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

const defaultTopProducts = 10

// ReportUseCase arma el resumen de ventas, top de productos e inventario.
//
// Fuente de datos: ReportRepository (consultas read-only).
type ReportUseCase struct {
	repo     repository.ReportRepository
	lowStock int
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso. lowStock es el umbral de stock bajo.
func NewReportUseCase(repo repository.ReportRepository, lowStock int) *ReportUseCase {
	return &ReportUseCase{repo: repo, lowStock: lowStock, now: time.Now}
}

// SetClock reemplaza el reloj (tests).
func (uc *ReportUseCase) SetClock(now func() time.Time) { uc.now = now }

// Summary construye el resumen para [from, to]. Sin fechas usa el mes en curso.
//
// Tres llamadas en paralelo:
//  1. SalesStats(rango)
//  2. TopProducts(rango, top)
//  3. InventorySummary(umbral bajo)
func (uc *ReportUseCase) Summary(ctx context.Context, fromParam, toParam string, top int) (*dto.ReportSummaryResponse, error) {
	from, to, err := uc.period(fromParam, toParam)
	if err != nil {
		return nil, err
	}
	if top <= 0 || top > 100 {
		top = defaultTopProducts
	}

	type statsResult struct {
		stats *entity.SalesStats
		err   error
	}
	type topResult struct {
		items []entity.TopProduct
		err   error
	}
	type invResult struct {
		inv *entity.InventorySummary
		err error
	}

	statsCh := make(chan statsResult, 1)
	topCh := make(chan topResult, 1)
	invCh := make(chan invResult, 1)

	go func() {
		s, err := uc.repo.SalesStats(ctx, from, to)
		statsCh <- statsResult{s, err}
	}()
	go func() {
		items, err := uc.repo.TopProducts(ctx, from, to, top)
		topCh <- topResult{items, err}
	}()
	go func() {
		inv, err := uc.repo.InventorySummary(ctx, uc.lowStock)
		invCh <- invResult{inv, err}
	}()

	stats := <-statsCh
	tops := <-topCh
	inv := <-invCh

	if stats.err != nil {
		return nil, fmt.Errorf("reporte: ventas: %w", stats.err)
	}
	if tops.err != nil {
		return nil, fmt.Errorf("reporte: top productos: %w", tops.err)
	}
	if inv.err != nil {
		return nil, fmt.Errorf("reporte: inventario: %w", inv.err)
	}

	out := &dto.ReportSummaryResponse{
		From: from,
		To:   to,
		Sales: dto.SalesStatsDTO{
			Transactions:     stats.stats.Transactions,
			Lines:            stats.stats.Lines,
			UnitsSold:        stats.stats.UnitsSold,
			Revenue:          stats.stats.Revenue.Round(2),
			Discounts:        stats.stats.Discounts.Round(2),
			AverageTicket:    decimal.Zero,
			DistinctProducts: stats.stats.DistinctProducts,
			ActiveSellers:    stats.stats.ActiveSellers,
		},
		TopProducts: make([]dto.TopProductDTO, 0, len(tops.items)),
		Inventory: dto.InventorySummaryDTO{
			TotalProducts: inv.inv.TotalProducts,
			OutOfStock:    inv.inv.OutOfStock,
			LowStock:      inv.inv.LowStock,
			TotalUnits:    inv.inv.TotalUnits,
			ValueCUP:      inv.inv.ValueCUP.Round(2),
		},
	}
	if stats.stats.Transactions > 0 {
		out.Sales.AverageTicket = stats.stats.Revenue.Div(decimal.NewFromInt(int64(stats.stats.Transactions))).Round(2)
	}
	for _, tp := range tops.items {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID: tp.ProductID,
			Name:      tp.Name,
			Units:     tp.Units,
			Revenue:   tp.Revenue.Round(2),
		})
	}
	return out, nil
}

// period resuelve el rango; por defecto del día 1 del mes a hoy 23:59:59.
func (uc *ReportUseCase) period(fromParam, toParam string) (time.Time, time.Time, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := todayStart.Add(24*time.Hour - time.Nanosecond)

	f, err := dto.ParseDateParam(fromParam, false)
	if err != nil {
		return from, to, domain.NewValidation("INVALID_DATE", "fecha 'from' inválida")
	}
	t, err := dto.ParseDateParam(toParam, true)
	if err != nil {
		return from, to, domain.NewValidation("INVALID_DATE", "fecha 'to' inválida")
	}
	if f != nil {
		from = *f
	}
	if t != nil {
		to = *t
	}
	if to.Before(from) {
		return from, to, domain.NewValidation("INVALID_RANGE", "'to' es anterior a 'from'")
	}
	return from, to, nil
}
