package menu

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AllCategories selects every category in Filter.
const AllCategories = "All"

const tableCount = 10

var (
	ErrInvalidItem   = errors.New("invalid menu item")
	ErrDuplicateItem = errors.New("duplicate menu item")
	ErrEmptyCatalog  = errors.New("catalog has no items")
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Item struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Price    int64  `yaml:"price" json:"price"`
	Category string `yaml:"category" json:"category"`
}

// Catalog is the immutable list of orderable items.
type Catalog struct {
	items      []Item
	byID       map[string]int
	categories []string
}

type document struct {
	Items []Item `yaml:"items"`
}

// New validates items and builds a catalog preserving their order.
func New(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		items: make([]Item, 0, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	seen := make(map[string]bool)

	for i, item := range items {
		item.ID = strings.TrimSpace(item.ID)
		item.Name = strings.TrimSpace(item.Name)
		item.Category = strings.TrimSpace(item.Category)

		switch {
		case item.ID == "":
			return nil, fmt.Errorf("%w: entry %d has no id", ErrInvalidItem, i)
		case item.Name == "":
			return nil, fmt.Errorf("%w: %s has no name", ErrInvalidItem, item.ID)
		case item.Price < 0:
			return nil, fmt.Errorf("%w: %s has negative price", ErrInvalidItem, item.ID)
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
		}

		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)

		if item.Category != "" && !seen[item.Category] {
			seen[item.Category] = true
			c.categories = append(c.categories, item.Category)
		}
	}

	return c, nil
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if strings.TrimSpace(string(data)) == "" {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Items)
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the embedded restaurant catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	return len(c.items)
}

func (c *Catalog) Find(id string) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Categories lists AllCategories first, then each category in first-seen order.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.categories)+1)
	out = append(out, AllCategories)
	return append(out, c.categories...)
}

// Filter returns the items in category whose name contains search,
// ignoring case. An empty category or AllCategories matches every item.
func (c *Catalog) Filter(category, search string) []Item {
	search = strings.ToLower(strings.TrimSpace(search))
	anyCategory := category == "" || category == AllCategories

	out := make([]Item, 0)
	for _, item := range c.items {
		if !anyCategory && item.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Tables lists the selectable table ids T1..T10.
func Tables() []string {
	out := make([]string, 0, tableCount)
	for i := 1; i <= tableCount; i++ {
		out = append(out, fmt.Sprintf("T%d", i))
	}
	return out
}

// IsTable reports whether id names a selectable table.
func IsTable(id string) bool {
	for _, t := range Tables() {
		if t == id {
			return true
		}
	}
	return false
}
