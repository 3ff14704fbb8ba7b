package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
)

// Package catalog holds the fixed category catalog. The built-in set matches
// the eight categories the reader ships with; deployments may override it
// with a YAML file of the same shape.

var builtin = []domain.Category{
	{ID: "general", Name: "General", ImageURL: "https://images.pexels.com/photos/518543/pexels-photo-518543.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"},
	{ID: "business", Name: "Business", ImageURL: "https://images.pexels.com/photos/210607/pexels-photo-210607.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"},
	{ID: "technology", Name: "Technology", ImageURL: "https://images.pexels.com/photos/1181467/pexels-photo-1181467.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"},
	{ID: "entertainment", Name: "Entertainment", ImageURL: "https://images.pexels.com/photos/1117132/pexels-photo-1117132.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"},
	{ID: "health", Name: "Health", ImageURL: "https://images.pexels.com/photos/1170979/pexels-photo-1170979.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"},
	{ID: "science", Name: "Science", ImageURL: "https://images.pexels.com/photos/3122673/pexels-photo-3122673.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"},
	{ID: "sports", Name: "Sports", ImageURL: "https://images.pexels.com/photos/46798/the-ball-stadion-football-the-pitch-46798.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"},
	{ID: "politics", Name: "Politics", ImageURL: "https://images.pexels.com/photos/1056553/pexels-photo-1056553.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"},
}

// Catalog is the read-only category set.
type Catalog struct {
	categories []domain.Category
	idx        map[string]domain.Category
}

// Builtin returns the catalog shipped with the reader.
func Builtin() *Catalog {
	return newCatalog(builtin)
}

// LoadFile builds a catalog from a YAML file with a top-level `categories`
// list. Every entry needs an id and a name; duplicate ids are rejected.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open categories file: %w", err)
	}

	var file struct {
		Categories []domain.Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode categories file: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, errors.New("categories file contains no entries")
	}

	seen := make(map[string]bool, len(file.Categories))
	for i, c := range file.Categories {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("categories[%d]: id is required", i)
		}
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("categories[%d]: name is required", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate category id %q", id)
		}
		seen[id] = true
		file.Categories[i].ID = id
	}

	return newCatalog(file.Categories), nil
}

func newCatalog(categories []domain.Category) *Catalog {
	c := &Catalog{
		categories: append([]domain.Category(nil), categories...),
		idx:        make(map[string]domain.Category, len(categories)),
	}
	for _, cat := range c.categories {
		c.idx[cat.ID] = cat
	}
	return c
}

// All returns the categories in catalog order.
func (c *Catalog) All() []domain.Category {
	return append([]domain.Category(nil), c.categories...)
}

// ByID returns the category entry for the given id, if present.
func (c *Catalog) ByID(id string) (domain.Category, bool) {
	cat, ok := c.idx[id]
	return cat, ok
}

// Known reports whether the id names a catalog category.
func (c *Catalog) Known(id string) bool {
	_, ok := c.idx[id]
	return ok
}
