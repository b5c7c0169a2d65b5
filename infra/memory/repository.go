// Package memory is a process-local implementation of the category and
// product repositories. It backs STORAGE_DRIVER=memory and the test suites.
package memory

import (
	"context"
	"inventory/domain"
	"sort"
	"sync"
	"time"
)

type Repository struct {
	mu         sync.RWMutex
	now        func() time.Time
	nextID     int64
	categories map[int64]domain.Category
	products   map[int64]domain.Product
}

type Option func(*Repository)

// WithClock replaces time.Now, so tests can make timestamps advance.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		now:        time.Now,
		categories: make(map[int64]domain.Category),
		products:   make(map[int64]domain.Product),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) Close() error {
	return nil
}

func (r *Repository) Ping(context.Context) error {
	return nil
}

func (r *Repository) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *Repository) GetCategories(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	sortNewestFirst(categories, func(c domain.Category) (time.Time, int64) { return c.CreatedAt, c.ID })
	return categories, nil
}

func (r *Repository) GetActiveCategories(ctx context.Context) ([]domain.Category, error) {
	all, _ := r.GetCategories(ctx)

	active := make([]domain.Category, 0, len(all))
	for _, c := range all {
		if c.Active {
			active = append(active, c)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active, nil
}

func (r *Repository) GetCategory(_ context.Context, id int64) (domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, nil
}

func (r *Repository) CategoryExists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.categories[id]
	return ok, nil
}

func (r *Repository) CategoryNameExists(_ context.Context, name string, exceptID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.nameTaken(name, exceptID), nil
}

// nameTaken stands in for the unique index the SQL drivers have. The caller
// holds r.mu.
func (r *Repository) nameTaken(name string, exceptID int64) bool {
	for _, c := range r.categories {
		if c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *Repository) CountCategoryProducts(_ context.Context, id int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, p := range r.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			count++
		}
	}
	return count, nil
}

func (r *Repository) CreateCategory(_ context.Context, in domain.CategoryInput) (domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(in.Name, 0) {
		return domain.Category{}, domain.ErrDuplicateName
	}

	now := r.now()
	c := domain.Category{
		ID:          r.id(),
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Active:      in.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.categories[c.ID] = c
	return c, nil
}

func (r *Repository) UpdateCategory(_ context.Context, id int64, in domain.CategoryInput) (domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[id]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	if r.nameTaken(in.Name, id) {
		return domain.Category{}, domain.ErrDuplicateName
	}

	c.Name = in.Name
	c.Description = in.Description
	c.Color = in.Color
	c.Active = in.Active
	c.UpdatedAt = r.now()
	r.categories[id] = c
	return c, nil
}

func (r *Repository) DeleteCategory(_ context.Context, id int64, detachProducts bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return domain.ErrNotFound
	}

	if detachProducts {
		now := r.now()
		for pid, p := range r.products {
			if p.CategoryID != nil && *p.CategoryID == id {
				p.CategoryID = nil
				p.UpdatedAt = now
				r.products[pid] = p
			}
		}
	}

	delete(r.categories, id)
	return nil
}

func (r *Repository) GetProducts(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, r.withCategory(p))
	}
	sortNewestFirst(products, func(p domain.Product) (time.Time, int64) { return p.CreatedAt, p.ID })
	return products, nil
}

func (r *Repository) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return r.withCategory(p), nil
}

func (r *Repository) CreateProduct(_ context.Context, in domain.ProductInput) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	p := domain.Product{
		ID:        r.id(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	assign(&p, in)
	r.products[p.ID] = p
	return p, nil
}

func (r *Repository) UpdateProduct(_ context.Context, id int64, in domain.ProductInput) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}

	assign(&p, in)
	p.UpdatedAt = r.now()
	r.products[id] = p
	return p, nil
}

func (r *Repository) DeleteProduct(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *Repository) withCategory(p domain.Product) domain.Product {
	p.Category = nil
	if p.CategoryID != nil {
		if c, ok := r.categories[*p.CategoryID]; ok {
			p.Category = &c
		}
	}
	return p
}

func assign(p *domain.Product, in domain.ProductInput) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.Status = in.Status
	p.CategoryID = nil
	if in.CategoryID != nil {
		id := *in.CategoryID
		p.CategoryID = &id
	}
}

func sortNewestFirst[T any](rows []T, key func(T) (time.Time, int64)) {
	sort.SliceStable(rows, func(i, j int) bool {
		ti, idi := key(rows[i])
		tj, idj := key(rows[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}
