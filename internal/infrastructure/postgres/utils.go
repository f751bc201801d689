package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-ventas/internal/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern patrón LIKE que busca term como texto literal (usar con ESCAPE '\').
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// translateError traduce errores de pgx/PostgreSQL al error tipado del dominio.
// Los *domain.Error pasan sin cambios.
func translateError(err error, op string) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			return &domain.Error{Kind: domain.KindBusiness, Code: domain.ErrDuplicate.Code, Message: domain.ErrDuplicate.Message, Err: err}
		case pgErr.Code == "23503": // foreign_key_violation
			return &domain.Error{Kind: domain.KindBusiness, Code: domain.ErrReferenced.Code, Message: domain.ErrReferenced.Message, Err: err}
		case pgErr.Code == "23502": // not_null_violation
			return &domain.Error{Kind: domain.KindValidation, Code: "REQUIRED_FIELD", Message: fmt.Sprintf("el campo %s es requerido", pgErr.ColumnName), Err: err}
		case pgErr.Code == "23514": // check_violation
			return &domain.Error{Kind: domain.KindValidation, Code: "CHECK_VIOLATION", Message: "valor fuera de rango", Err: err}
		case strings.HasPrefix(pgErr.Code, "08"): // connection_exception
			return domain.NewStorage("DB_CONNECTION", "sin conexión con la base de datos", err)
		case pgErr.Code == "57014": // query_canceled (statement_timeout)
			return domain.NewStorage("DB_TIMEOUT", "la consulta excedió el tiempo límite", err)
		}
		return domain.NewStorage("DB_ERROR", op, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewStorage("DB_TIMEOUT", "la operación excedió el tiempo límite", err)
	}
	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) {
		return domain.NewStorage("DB_CONNECTION", "sin conexión con la base de datos", err)
	}
	return domain.NewStorage("DB_ERROR", op, err)
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// noRows indica que QueryRow no encontró fila.
func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// where arma cláusulas WHERE con parámetros posicionales.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page agrega LIMIT/OFFSET. Limit 0 significa sin límite.
func (w *where) page(limit, offset int) string {
	w.args = append(w.args, limit, offset)
	n := len(w.args)
	return fmt.Sprintf(" LIMIT NULLIF($%d::int, 0) OFFSET $%d", n-1, n)
}
