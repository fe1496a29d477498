package cart

import (
	"sync"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
)

// ServiceFeePercent is the fixed service surcharge applied to the subtotal.
const ServiceFeePercent = 5

// Line pairs a catalog item with a quantity. Item is shared with the catalog and
// is never written through.
type Line struct {
	Item     *domain.MenuItem
	Quantity int64
}

type Summary struct {
	Lines    []Line
	Subtotal int64
	Fee      int64
	Total    int64
	Count    int64
}

// Cart holds line items in first-add order. Derived values are computed on
// every read; nothing is cached.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add inserts the item or increments its existing line by qty.
func (c *Cart) Add(item *domain.MenuItem, qty int64) error {
	if item == nil {
		return errs.ErrClient
	}
	if qty <= 0 {
		return errs.ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(item.ID); i >= 0 {
		c.lines[i].Quantity += qty
		return nil
	}

	c.lines = append(c.lines, Line{Item: item, Quantity: qty})
	return nil
}

// SetQuantity overwrites the quantity of an existing line. qty <= 0 removes the
// line; unknown ids are ignored.
func (c *Cart) SetQuantity(itemID string, qty int64) {
	if qty <= 0 {
		c.Remove(itemID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(itemID); i >= 0 {
		c.lines[i].Quantity = qty
	}
}

func (c *Cart) Remove(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(itemID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot()
}

func (c *Cart) Subtotal() int64 {
	return c.Summary().Subtotal
}

func (c *Cart) Fee() int64 {
	return c.Summary().Fee
}

func (c *Cart) Total() int64 {
	return c.Summary().Total
}

func (c *Cart) Count() int64 {
	return c.Summary().Count
}

// Summary derives every aggregate from one snapshot so the values always agree.
func (c *Cart) Summary() Summary {
	c.mu.Lock()
	lines := c.snapshot()
	c.mu.Unlock()

	s := Summary{Lines: lines}
	for _, l := range lines {
		s.Subtotal += l.Item.Price * l.Quantity
		s.Count += l.Quantity
	}
	s.Fee = ServiceFee(s.Subtotal)
	s.Total = s.Subtotal + s.Fee

	return s
}

// ServiceFee rounds subtotal * ServiceFeePercent / 100 to the nearest unit, halves up.
func ServiceFee(subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}

	return (subtotal*ServiceFeePercent + 50) / 100
}

func (c *Cart) indexOf(itemID string) int {
	for i, l := range c.lines {
		if l.Item.ID == itemID {
			return i
		}
	}

	return -1
}

func (c *Cart) snapshot() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)

	return out
}
