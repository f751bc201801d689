package inventory

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// NumericPolicy define qué hacer con valores numéricos inválidos en altas y parches.
type NumericPolicy string

const (
	// PolicyStrict rechaza con error de validación.
	PolicyStrict NumericPolicy = "strict"
	// PolicyLenient lleva el valor al mínimo permitido (0, o 1 para quantity).
	PolicyLenient NumericPolicy = "lenient"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldRef
	fieldInt
	fieldPrice
)

type fieldSpec struct {
	kind fieldKind
	min  int
}

// productFields campos modificables de un producto. Los demás se ignoran.
var productFields = map[string]fieldSpec{
	"name":            {kind: fieldText},
	"description":     {kind: fieldText},
	"category_id":     {kind: fieldRef},
	"subcategory_id":  {kind: fieldRef},
	"stock":           {kind: fieldInt, min: 0},
	"quantity":        {kind: fieldInt, min: 1},
	"extractions":     {kind: fieldInt, min: 0},
	"defective":       {kind: fieldInt, min: 0},
	"price_usd":       {kind: fieldPrice},
	"price_cup":       {kind: fieldPrice},
	"other_price_cup": {kind: fieldPrice},
	"pxg_cup":         {kind: fieldPrice},
}

// applyPatch aplica los campos permitidos sobre p. El stock no se toca: se devuelve
// aparte para que el ledger genere el movimiento.
func applyPatch(p *entity.Product, patch map[string]any, policy NumericPolicy) (*int, error) {
	var stock *int
	applied := 0
	for key, raw := range patch {
		spec, ok := productFields[key]
		if !ok {
			continue
		}
		switch spec.kind {
		case fieldText:
			s, ok := raw.(string)
			if !ok {
				return nil, domain.NewValidation("INVALID_FIELD", "%s debe ser texto", key)
			}
			s = strings.TrimSpace(s)
			if key == "name" {
				if s == "" {
					return nil, domain.NewValidation("NAME_REQUIRED", "el nombre es requerido")
				}
				p.Name = s
			} else {
				p.Description = s
			}
		case fieldRef:
			var s string
			if raw != nil {
				v, ok := raw.(string)
				if !ok {
					return nil, domain.NewValidation("INVALID_FIELD", "%s debe ser texto", key)
				}
				s = strings.TrimSpace(v)
			}
			if key == "category_id" {
				if s == "" {
					return nil, domain.NewValidation("CATEGORY_REQUIRED", "la categoría es requerida")
				}
				p.CategoryID = s
			} else {
				p.SubcategoryID = s
			}
		case fieldInt:
			n, err := coerceInt(key, raw, spec.min, policy)
			if err != nil {
				return nil, err
			}
			switch key {
			case "stock":
				stock = &n
			case "quantity":
				p.Quantity = n
			case "extractions":
				p.Extractions = n
			case "defective":
				p.Defective = n
			}
		case fieldPrice:
			d, err := coercePrice(key, raw, policy)
			if err != nil {
				return nil, err
			}
			switch key {
			case "price_usd":
				p.PriceUSD = d
			case "price_cup":
				p.PriceCUP = d
			case "other_price_cup":
				p.OtherPriceCUP = d
			case "pxg_cup":
				p.PxgCUP = d
			}
		}
		applied++
	}
	if applied == 0 {
		return nil, domain.NewValidation("NO_VALID_FIELDS", "no hay campos válidos para actualizar")
	}
	return stock, nil
}

// coerceInt interpreta un entero >= min. En modo lenient un valor inválido o menor queda en min.
func coerceInt(key string, raw any, min int, policy NumericPolicy) (int, error) {
	n, ok := toInt(raw)
	if ok && n >= min {
		return n, nil
	}
	if policy == PolicyLenient {
		if ok && n > min {
			return n, nil
		}
		return min, nil
	}
	return 0, domain.NewValidation("INVALID_FIELD", "%s debe ser un entero >= %d", key, min)
}

// maxPrice cota exclusiva de NUMERIC(14, 2).
var maxPrice = decimal.New(1, 12)

// coercePrice interpreta un precio >= 0 redondeado a centavos. En modo lenient un valor
// inválido queda en 0.
func coercePrice(key string, raw any, policy NumericPolicy) (decimal.Decimal, error) {
	d, ok := toDecimal(raw)
	if ok {
		d = d.Round(2)
	}
	if ok && !d.IsNegative() && d.LessThan(maxPrice) {
		return d, nil
	}
	if policy == PolicyLenient {
		return decimal.Zero, nil
	}
	return decimal.Zero, domain.NewValidation("INVALID_FIELD", "%s debe ser un número >= 0", key)
}

// toInt acepta solo valores que entran en una columna INTEGER.
func toInt(raw any) (int, bool) {
	var n int64
	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return 0, false
		}
		n = int64(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, false
		}
		n = i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

func toDecimal(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	case decimal.Decimal:
		return v, true
	}
	return decimal.Zero, false
}

// checkCreateNumbers valida los números de un alta según la política, devolviendo los valores a usar.
func checkCreateNumbers(p *entity.Product, policy NumericPolicy) error {
	ints := []struct {
		key string
		v   *int
		min int
	}{
		{"stock", &p.Stock, 0},
		{"quantity", &p.Quantity, 1},
		{"extractions", &p.Extractions, 0},
		{"defective", &p.Defective, 0},
	}
	for _, f := range ints {
		n, err := coerceInt(f.key, *f.v, f.min, policy)
		if err != nil {
			return err
		}
		*f.v = n
	}
	prices := []struct {
		key string
		v   *decimal.Decimal
	}{
		{"price_usd", &p.PriceUSD},
		{"price_cup", &p.PriceCUP},
		{"other_price_cup", &p.OtherPriceCUP},
		{"pxg_cup", &p.PxgCUP},
	}
	for _, f := range prices {
		d, err := coercePrice(f.key, *f.v, policy)
		if err != nil {
			return err
		}
		*f.v = d
	}
	return nil
}
