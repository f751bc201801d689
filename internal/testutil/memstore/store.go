// Package memstore implementa todos los puertos de repositorio en memoria, con un
// TxRunner que serializa transacciones y revierte por snapshot. Se usa en tests.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users         map[string]*entity.User
	sessions      map[string]*entity.Session
	products      map[string]*entity.Product
	movements     []*entity.StockMovement
	sales         []*entity.Sale
	categories    map[string]*entity.Category
	subcategories map[string]*entity.Subcategory
	services      map[string]*entity.Service

	// FailSaleCreateAt hace fallar la n-ésima inserción de línea de venta (1-based). 0 = nunca.
	FailSaleCreateAt int
	// SessionErr si no es nil, todas las operaciones de sesiones lo devuelven.
	SessionErr error

	saleCreates    int
	sessionLookups int
}

// New construye un Store vacío.
func New() *Store {
	return &Store{
		users:         map[string]*entity.User{},
		sessions:      map[string]*entity.Session{},
		products:      map[string]*entity.Product{},
		categories:    map[string]*entity.Category{},
		subcategories: map[string]*entity.Subcategory{},
		services:      map[string]*entity.Service{},
	}
}

// ErrInjected error de almacenamiento inyectado.
var ErrInjected = domain.NewStorage("DB_ERROR", "fallo inyectado", errors.New("memstore"))

// Repositorios.
func (s *Store) Users() repository.UserRepository              { return userRepo{s} }
func (s *Store) Sessions() repository.SessionRepository        { return sessionRepo{s} }
func (s *Store) Products() repository.ProductRepository        { return productRepo{s} }
func (s *Store) Movements() repository.StockMovementRepository { return movementRepo{s} }
func (s *Store) Sales() repository.SaleRepository              { return saleRepo{s} }
func (s *Store) Categories() repository.CategoryRepository     { return categoryRepo{s} }
func (s *Store) Services() repository.ServiceRepository        { return serviceRepo{s} }
func (s *Store) Reports() repository.ReportRepository          { return reportRepo{s} }

// Run ejecuta fn de forma serializada; si fn falla o entra en pánico, el estado vuelve al
// snapshot previo (el pánico se relanza).
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, tx repository.TxRepos) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
	}()
	err = fn(ctx, repository.TxRepos{
		Products:   s.Products(),
		Movements:  s.Movements(),
		Sales:      s.Sales(),
		Categories: s.Categories(),
		Users:      s.Users(),
	})
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// state solo incluye lo que una transacción puede tocar (TxRepos).
type state struct {
	users         map[string]*entity.User
	products      map[string]*entity.Product
	movements     []*entity.StockMovement
	sales         []*entity.Sale
	categories    map[string]*entity.Category
	subcategories map[string]*entity.Subcategory
}

func (s *Store) snapshot() state {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := state{
		users:         map[string]*entity.User{},
		products:      map[string]*entity.Product{},
		movements:     append([]*entity.StockMovement(nil), s.movements...),
		sales:         append([]*entity.Sale(nil), s.sales...),
		categories:    map[string]*entity.Category{},
		subcategories: map[string]*entity.Subcategory{},
	}
	for k, v := range s.users {
		c := *v
		st.users[k] = &c
	}
	for k, v := range s.products {
		c := *v
		st.products[k] = &c
	}
	for k, v := range s.categories {
		c := *v
		st.categories[k] = &c
	}
	for k, v := range s.subcategories {
		c := *v
		st.subcategories[k] = &c
	}
	return st
}

func (s *Store) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = st.users
	s.products = st.products
	s.movements = st.movements
	s.sales = st.sales
	s.categories = st.categories
	s.subcategories = st.subcategories
}

// MovementsFor devuelve los movimientos del producto en orden de inserción.
func (s *Store) MovementsFor(productID string) []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.movements {
		if m.ProductID == productID {
			out = append(out, *m)
		}
	}
	return out
}

// SaleCount cantidad total de líneas de venta guardadas.
func (s *Store) SaleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

// MovementCount cantidad total de movimientos guardados.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// SessionLookups cuántas veces se consultó una sesión por token.
func (s *Store) SessionLookups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionLookups
}

// SessionRecord copia del registro durable (nil si no existe).
func (s *Store) SessionRecord(token string) *entity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.sessions[token]; ok {
		c := *v
		return &c
	}
	return nil
}

// ── users ────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if strings.EqualFold(x.Username, u.Username) {
			return domain.ErrDuplicate
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r userRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		c := *u
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return page(all, limit, offset), len(all), nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r userRepo) Stats(_ context.Context) (entity.UserStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var st entity.UserStats
	for _, u := range r.s.users {
		st.Total++
		switch u.Role {
		case entity.RoleAdmin:
			st.Admins++
		case entity.RoleUser:
			st.Regular++
		}
	}
	return st, nil
}

func (r userRepo) Activity(_ context.Context, now time.Time, limit int) ([]entity.UserActivity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byUser := make(map[string]*entity.UserActivity, len(r.s.users))
	list := make([]*entity.UserActivity, 0, len(r.s.users))
	for _, u := range r.s.users {
		a := &entity.UserActivity{UserID: u.ID, Username: u.Username, Role: u.Role}
		byUser[u.ID] = a
		list = append(list, a)
	}
	for _, sess := range r.s.sessions {
		a, ok := byUser[sess.UserID]
		if !ok || !sess.ValidAt(now) {
			continue
		}
		a.ActiveSessions++
		if a.LastSession == nil || sess.CreatedAt.After(*a.LastSession) {
			t := sess.CreatedAt
			a.LastSession = &t
		}
	}
	sort.Slice(list, func(i, j int) bool {
		li, lj := list[i].LastSession, list[j].LastSession
		switch {
		case li != nil && lj != nil && !li.Equal(*lj):
			return li.After(*lj)
		case (li == nil) != (lj == nil):
			return li != nil
		}
		return list[i].Username < list[j].Username
	})
	out := make([]entity.UserActivity, 0, len(list))
	for _, a := range page(list, limit, 0) {
		out = append(out, *a)
	}
	return out, nil
}

// ── sessions ─────────────────────────────────────────────────────────────────

type sessionRepo struct{ s *Store }

func (r sessionRepo) Create(_ context.Context, sess *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.SessionErr != nil {
		return r.s.SessionErr
	}
	c := *sess
	r.s.sessions[sess.Token] = &c
	return nil
}

func (r sessionRepo) GetByToken(_ context.Context, token string) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessionLookups++
	if r.s.SessionErr != nil {
		return nil, r.s.SessionErr
	}
	sess, ok := r.s.sessions[token]
	if !ok {
		return nil, nil
	}
	c := *sess
	if u, ok := r.s.users[c.UserID]; ok {
		c.User = entity.IdentityOf(u)
		c.UserOK = u.Active
	} else {
		c.UserOK = false
	}
	return &c, nil
}

func (r sessionRepo) Deactivate(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.SessionErr != nil {
		return r.s.SessionErr
	}
	if sess, ok := r.s.sessions[token]; ok {
		sess.Active = false
	}
	return nil
}

func (r sessionRepo) DeactivateByUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.SessionErr != nil {
		return r.s.SessionErr
	}
	for _, sess := range r.s.sessions {
		if sess.UserID == userID {
			sess.Active = false
		}
	}
	return nil
}

func (r sessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.SessionErr != nil {
		return 0, r.s.SessionErr
	}
	var n int64
	for tok, sess := range r.s.sessions {
		if sess.ExpiresAt.Before(now) {
			delete(r.s.sessions, tok)
			n++
		}
	}
	return n, nil
}

// ── products ─────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return domain.ErrReferenced
	}
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.productCopy(id), nil
}

// GetForUpdate: las transacciones ya están serializadas por txMu.
func (r productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (s *Store) productCopy(id string) *entity.Product {
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	c := *p
	if cat, ok := s.categories[c.CategoryID]; ok {
		c.CategoryName = cat.Name
	}
	if sub, ok := s.subcategories[c.SubcategoryID]; ok {
		c.SubcategoryName = sub.Name
	}
	return &c
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	if p.Stock < 0 {
		return domain.NewValidation("CHECK_VIOLATION", "stock negativo")
	}
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r productRepo) List(_ context.Context, f entity.ProductFilter) ([]*entity.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var all []*entity.Product
	for id, p := range r.s.products {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.SubcategoryID != "" && p.SubcategoryID != f.SubcategoryID {
			continue
		}
		if !f.IncludeOutOfStock && p.Stock <= 0 {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		all = append(all, r.s.productCopy(id))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r productRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r productRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r productRepo) CountBySubcategory(_ context.Context, subcategoryID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.products {
		if p.SubcategoryID == subcategoryID {
			n++
		}
	}
	return n, nil
}

// ── movements ────────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r movementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.StockMovement, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if !inRange(m.CreatedAt, f.From, f.To) {
			continue
		}
		c := *m
		all = append(all, &c)
	}
	return page(all, f.Limit, f.Offset), len(all), nil
}

// ── sales ────────────────────────────────────────────────────────────────────

type saleRepo struct{ s *Store }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.saleCreates++
	if r.s.FailSaleCreateAt > 0 && r.s.saleCreates == r.s.FailSaleCreateAt {
		return ErrInjected
	}
	c := *sale
	r.s.sales = append(r.s.sales, &c)
	return nil
}

func (s *Store) saleCopy(sale *entity.Sale) *entity.Sale {
	c := *sale
	if p, ok := s.products[c.ProductID]; ok {
		c.ProductName = p.Name
	}
	if u, ok := s.users[c.UserID]; ok {
		c.Username = u.Username
	}
	return &c
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sale := range r.s.sales {
		if sale.ID == id {
			return r.s.saleCopy(sale), nil
		}
	}
	return nil, nil
}

func (r saleRepo) ListByTransaction(_ context.Context, txID string) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if sale.TransactionID == txID {
			out = append(out, r.s.saleCopy(sale))
		}
	}
	return out, nil
}

func (r saleRepo) List(_ context.Context, f entity.SaleFilter) ([]*entity.Sale, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Sale
	for i := len(r.s.sales) - 1; i >= 0; i-- {
		sale := r.s.sales[i]
		if f.UserID != "" && sale.UserID != f.UserID {
			continue
		}
		if f.PaymentMethod != "" && sale.PaymentMethod != f.PaymentMethod {
			continue
		}
		if !inRange(sale.CreatedAt, f.From, f.To) {
			continue
		}
		all = append(all, r.s.saleCopy(sale))
	}
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r saleRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, sale := range r.s.sales {
		if sale.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r saleRepo) CountByUser(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, sale := range r.s.sales {
		if sale.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ── categories ───────────────────────────────────────────────────────────────

type categoryRepo struct{ s *Store }

func (r categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.categories {
		if strings.EqualFold(x.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	cp.Subcategories = nil
	r.s.categories[c.ID] = &cp
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r categoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r categoryRepo) Rename(_ context.Context, id, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	c.Name = name
	return nil
}

func (r categoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.CategoryID == id {
			return domain.ErrReferenced
		}
	}
	delete(r.s.categories, id)
	return nil
}

func (r categoryRepo) ListWithSubcategories(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		cp.Subcategories = nil
		for _, sub := range r.s.subcategories {
			if sub.CategoryID == c.ID {
				sc := *sub
				cp.Subcategories = append(cp.Subcategories, &sc)
			}
		}
		sort.Slice(cp.Subcategories, func(i, j int) bool { return cp.Subcategories[i].Name < cp.Subcategories[j].Name })
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r categoryRepo) CreateSubcategory(_ context.Context, sub *entity.Subcategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[sub.CategoryID]; !ok {
		return domain.ErrReferenced
	}
	for _, x := range r.s.subcategories {
		if x.CategoryID == sub.CategoryID && strings.EqualFold(x.Name, sub.Name) {
			return domain.ErrDuplicate
		}
	}
	c := *sub
	r.s.subcategories[sub.ID] = &c
	return nil
}

func (r categoryRepo) GetSubcategory(_ context.Context, id string) (*entity.Subcategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sub, ok := r.s.subcategories[id]; ok {
		c := *sub
		return &c, nil
	}
	return nil, nil
}

func (r categoryRepo) GetSubcategoryByName(_ context.Context, categoryID, name string) (*entity.Subcategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sub := range r.s.subcategories {
		if sub.CategoryID == categoryID && strings.EqualFold(sub.Name, name) {
			c := *sub
			return &c, nil
		}
	}
	return nil, nil
}

func (r categoryRepo) RenameSubcategory(_ context.Context, id, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.subcategories[id]
	if !ok {
		return domain.ErrNotFound
	}
	sub.Name = name
	return nil
}

func (r categoryRepo) DeleteSubcategory(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SubcategoryID == id {
			return domain.ErrReferenced
		}
	}
	delete(r.s.subcategories, id)
	return nil
}

func (r categoryRepo) DeleteSubcategoriesByCategory(_ context.Context, categoryID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for id, sub := range r.s.subcategories {
		if sub.CategoryID == categoryID {
			delete(r.s.subcategories, id)
			n++
		}
	}
	return n, nil
}

// ── services ─────────────────────────────────────────────────────────────────

type serviceRepo struct{ s *Store }

func (r serviceRepo) Create(_ context.Context, svc *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.services {
		if x.Active && strings.EqualFold(x.Name, svc.Name) {
			return domain.ErrDuplicate
		}
	}
	c := *svc
	r.s.services[svc.ID] = &c
	return nil
}

func (r serviceRepo) GetByID(_ context.Context, id string) (*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if svc, ok := r.s.services[id]; ok {
		c := *svc
		return &c, nil
	}
	return nil, nil
}

func (r serviceRepo) Update(_ context.Context, svc *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[svc.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *svc
	r.s.services[svc.ID] = &c
	return nil
}

func (r serviceRepo) List(_ context.Context, includeInactive bool) ([]*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Service
	for _, svc := range r.s.services {
		if !svc.Active && !includeInactive {
			continue
		}
		c := *svc
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── reports ──────────────────────────────────────────────────────────────────

type reportRepo struct{ s *Store }

func (r reportRepo) SalesStats(_ context.Context, from, to time.Time) (*entity.SalesStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := &entity.SalesStats{Revenue: decimal.Zero, Discounts: decimal.Zero}
	txs, products, sellers := map[string]bool{}, map[string]bool{}, map[string]bool{}
	for _, sale := range r.s.sales {
		if !inRange(sale.CreatedAt, &from, &to) {
			continue
		}
		st.Lines++
		st.UnitsSold += sale.Quantity
		st.Revenue = st.Revenue.Add(sale.TotalPrice).Sub(sale.Discount)
		st.Discounts = st.Discounts.Add(sale.Discount)
		txs[sale.TransactionID] = true
		products[sale.ProductID] = true
		sellers[sale.UserID] = true
	}
	st.Transactions, st.DistinctProducts, st.ActiveSellers = len(txs), len(products), len(sellers)
	return st, nil
}

func (r reportRepo) TopProducts(_ context.Context, from, to time.Time, limit int) ([]entity.TopProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	agg := map[string]*entity.TopProduct{}
	for _, sale := range r.s.sales {
		if !inRange(sale.CreatedAt, &from, &to) {
			continue
		}
		tp, ok := agg[sale.ProductID]
		if !ok {
			tp = &entity.TopProduct{ProductID: sale.ProductID, Revenue: decimal.Zero}
			if p, ok := r.s.products[sale.ProductID]; ok {
				tp.Name = p.Name
			}
			agg[sale.ProductID] = tp
		}
		tp.Units += sale.Quantity
		tp.Revenue = tp.Revenue.Add(sale.TotalPrice)
	}
	out := make([]entity.TopProduct, 0, len(agg))
	for _, tp := range agg {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Units != out[j].Units {
			return out[i].Units > out[j].Units
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r reportRepo) InventorySummary(_ context.Context, low int) (*entity.InventorySummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := &entity.InventorySummary{ValueCUP: decimal.Zero}
	for _, p := range r.s.products {
		sum.TotalProducts++
		sum.TotalUnits += p.Stock
		switch {
		case p.Stock <= 0:
			sum.OutOfStock++
		case p.Stock <= low:
			sum.LowStock++
		}
		sum.ValueCUP = sum.ValueCUP.Add(p.PriceCUP.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return sum, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
