package handlers

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"flyerpress/internal/catalog"
	"flyerpress/internal/models"
	"flyerpress/internal/store"
)

// fakeCatalog serves canned products.
type fakeCatalog struct {
	products  []models.Product
	searchErr error
	byID      map[int]*models.Product
	getErr    error
	lastQuery string
}

func (f *fakeCatalog) SearchProducts(_ context.Context, query string) ([]models.Product, error) {
	f.lastQuery = query
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.products, nil
}

func (f *fakeCatalog) Product(_ context.Context, id int) (*models.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, &catalog.APIError{StatusCode: 404, Body: `{"code":"woocommerce_rest_product_invalid_id"}`}
	}
	return p, nil
}

// fakeCategories returns a fixed list and counts calls.
type fakeCategories struct {
	cats   []models.Category
	err    error
	calls  atomic.Int32
	forced atomic.Int32
	delay  time.Duration
}

func (f *fakeCategories) Get(_ context.Context, force bool) ([]models.Category, error) {
	f.calls.Add(1)
	if force {
		f.forced.Add(1)
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.cats, nil
}

// memPromotions is an in-memory PromotionRepository.
type memPromotions struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.Promotion
	seq   int
	err   error
}

func newMemPromotions(ps ...models.Promotion) *memPromotions {
	m := &memPromotions{items: make(map[uuid.UUID]models.Promotion)}
	for _, p := range ps {
		m.seq++
		p.CreatedAt = time.Date(2026, 1, 1, 0, 0, m.seq, 0, time.UTC)
		m.items[p.ID] = p
	}
	return m
}

func (m *memPromotions) sorted(keep func(models.Promotion) bool) []models.Promotion {
	out := []models.Promotion{}
	for _, p := range m.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memPromotions) List(context.Context) ([]models.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(models.Promotion) bool { return true }), nil
}

func (m *memPromotions) ListOverlapping(_ context.Context, from, to time.Time) ([]models.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(p models.Promotion) bool {
		return !p.StartDate.After(to) && !p.EndDate.Before(from)
	}), nil
}

func (m *memPromotions) ListActiveAt(_ context.Context, t time.Time) ([]models.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(p models.Promotion) bool {
		return !t.Before(p.StartDate) && !t.After(p.EndDate)
	}), nil
}

func (m *memPromotions) FindByID(_ context.Context, id uuid.UUID) (*models.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memPromotions) Create(_ context.Context, p *models.Promotion) (*models.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	cp := *p
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	m.seq++
	cp.CreatedAt = time.Date(2026, 1, 1, 0, 0, m.seq, 0, time.UTC)
	cp.UpdatedAt = cp.CreatedAt
	m.items[cp.ID] = cp
	return &cp, nil
}

func (m *memPromotions) Update(_ context.Context, p *models.Promotion) (*models.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.items[p.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	cp.CreatedAt = old.CreatedAt
	m.items[cp.ID] = cp
	return &cp, nil
}

func (m *memPromotions) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// memFlyerCache is an in-memory FlyerCache.
type memFlyerCache struct {
	mu          sync.Mutex
	pages       map[string][]byte
	invalidated int
}

func newMemFlyerCache() *memFlyerCache {
	return &memFlyerCache{pages: make(map[string][]byte)}
}

func (c *memFlyerCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	html, ok := c.pages[key]
	return html, ok
}

func (c *memFlyerCache) Set(_ context.Context, key string, html []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[key] = html
}

func (c *memFlyerCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[string][]byte)
	c.invalidated++
}

// fakePublisher records uploads.
type fakePublisher struct {
	week string
	html []byte
	err  error
}

func (p *fakePublisher) PublishFlyer(_ context.Context, week string, html []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.week, p.html = week, html
	return "https://cdn.example/flyers/" + week + ".html", nil
}

// shopCategories is a small tree: Bevande > Acqua > Frizzante, Dispensa.
func shopCategories() []models.Category {
	return []models.Category{
		{ID: 10, Name: "Bevande"},
		{ID: 11, Name: "Acqua", Parent: 10},
		{ID: 12, Name: "Frizzante", Parent: 11},
		{ID: 20, Name: "Dispensa"},
	}
}
