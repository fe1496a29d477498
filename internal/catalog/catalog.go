package catalog

import (
	"strings"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	pkgdto "github.com/alimikegami/point-of-sales/storefront-service/pkg/dto"
)

// Catalog is the fixed menu supplied at startup. It is never mutated after
// construction, so lookups need no locking.
type Catalog struct {
	items []domain.MenuItem
	byID  map[string]int
}

func New(items []domain.MenuItem) *Catalog {
	c := &Catalog{
		items: make([]domain.MenuItem, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	copy(c.items, items)
	for i, item := range c.items {
		c.byID[item.ID] = i
	}

	return c
}

func Default() *Catalog {
	return New(DefaultItems())
}

func DefaultItems() []domain.MenuItem {
	return []domain.MenuItem{
		{
			ID:          "f1",
			Name:        "Nasi Goreng",
			Description: "Indonesian fried rice with egg and chicken",
			Price:       25000,
			Image:       "https://images.unsplash.com/photo-1555949963-aa79dcee981d?q=80&w=800&auto=format&fit=crop",
			Category:    domain.CategoryFood,
		},
		{
			ID:          "f2",
			Name:        "Mie Goreng",
			Description: "Fried noodles with vegetables and egg",
			Price:       22000,
			Image:       "https://images.unsplash.com/photo-1544025162-d76694265947?q=80&w=800&auto=format&fit=crop",
			Category:    domain.CategoryFood,
		},
		{
			ID:          "d1",
			Name:        "Es Teh Manis",
			Description: "Sweet iced tea",
			Price:       8000,
			Image:       "https://images.unsplash.com/photo-1497534446932-c925b458314e?q=80&w=800&auto=format&fit=crop",
			Category:    domain.CategoryDrink,
		},
		{
			ID:          "d2",
			Name:        "Kopi Susu",
			Description: "Milk coffee, lightly sweetened",
			Price:       15000,
			Image:       "https://images.unsplash.com/photo-1498804103079-a6351b050096?q=80&w=800&auto=format&fit=crop",
			Category:    domain.CategoryDrink,
		},
	}
}

// Get returns a pointer into the catalog; callers must treat it as read-only.
func (c *Catalog) Get(id string) (*domain.MenuItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}

	return &c.items[i], true
}

// List filters by category and by a case-insensitive match on name or description.
// An empty filter returns the whole menu in catalog order.
func (c *Catalog) List(filter pkgdto.Filter) []domain.MenuItem {
	q := strings.ToLower(strings.TrimSpace(filter.Q))
	category := domain.Category(strings.ToLower(filter.Category))

	res := make([]domain.MenuItem, 0, len(c.items))
	for _, item := range c.items {
		if category != "" && item.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(item.Name), q) && !strings.Contains(strings.ToLower(item.Description), q) {
			continue
		}
		res = append(res, item)
	}

	return res
}
