// Package catalog holds the bar's product registry: built-in categories with
// an ordered product list, plus products added while receiving goods.
//
// Product identity is the name. A name listed in several categories (draft
// and bottled Крушовица, for example) is still a single product. The flat
// product list is append-only, so a product's index is stable for the life of
// the process and can be carried in chat callback payloads.
package catalog

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrEmptyName        = errors.New("product name is empty")
	ErrDuplicateProduct = errors.New("product already exists")
)

// Category is a read-only group of products shown as one menu entry.
type Category struct {
	Key   string
	Title string
	Items []string
}

// Catalog is safe for concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	categories []Category
	products   []string
	builtins   int
	index      map[string]int
}

// New builds a catalog from categories in the given order.
func New(categories []Category) *Catalog {
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int),
	}
	for _, cat := range categories {
		items := make([]string, len(cat.Items))
		copy(items, cat.Items)
		c.categories = append(c.categories, Category{Key: cat.Key, Title: cat.Title, Items: items})
		for _, name := range items {
			c.appendLocked(name)
		}
	}
	c.builtins = len(c.products)
	return c
}

// Default returns the catalog with the bar's built-in menu.
func Default() *Catalog {
	return New(builtinCategories)
}

// Categories returns the categories in display order.
func (c *Catalog) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Category looks a category up by key.
func (c *Catalog) Category(key string) (Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cat := range c.categories {
		if cat.Key == key {
			return cat, true
		}
	}
	return Category{}, false
}

// Products returns every known product, built-ins first, then ad-hoc
// additions in the order they were added.
func (c *Catalog) Products() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.products))
	copy(out, c.products)
	return out
}

// Builtins returns the products defined by the categories, without ad-hoc
// additions.
func (c *Catalog) Builtins() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, c.builtins)
	copy(out, c.products[:c.builtins])
	return out
}

func (c *Catalog) Contains(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.index[name]
	return ok
}

func (c *Catalog) IndexOf(name string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[name]
	return i, ok
}

func (c *Catalog) ProductAt(i int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i < 0 || i >= len(c.products) {
		return "", false
	}
	return c.products[i], true
}

// Add registers an ad-hoc product that belongs to no category.
func (c *Catalog) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[name]; ok {
		return ErrDuplicateProduct
	}
	c.appendLocked(name)
	return nil
}

// Restore re-registers ad-hoc products known to the ledger, skipping names
// already present. It returns how many products were added.
func (c *Catalog) Restore(names []string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := c.index[name]; ok {
			continue
		}
		c.appendLocked(name)
		added++
	}
	return added
}

func (c *Catalog) appendLocked(name string) {
	if _, ok := c.index[name]; ok {
		return
	}
	c.index[name] = len(c.products)
	c.products = append(c.products, name)
}
