// Package catalog flattens the marketplace category tree into a name to id
// mapping. A Catalog is built once at startup and is read-only afterwards.
package catalog

import (
	"errors"

	"mercari/shopper/internal/domain"

	log "github.com/sirupsen/logrus"
)

// ErrMalformed is returned when a category source cannot be interpreted as a category tree.
var ErrMalformed = errors.New("malformed category source")

// Collision records two tree nodes sharing a display name. The flat mapping keeps the later one.
type Collision struct {
	Name       string
	PreviousID string
	ID         string
	Path       string
}

type Catalog struct {
	ids        map[string]string
	paths      map[string]string
	names      []string
	collisions []Collision
}

// Empty returns a catalog that matches nothing.
func Empty() *Catalog {
	return &Catalog{
		ids:   map[string]string{},
		paths: map[string]string{},
	}
}

// New flattens nodes depth-first. Every node, at any depth, becomes a key.
func New(nodes []domain.CategoryNode) *Catalog {
	c := Empty()

	var visit func(nodes []domain.CategoryNode, parents []string)
	visit = func(nodes []domain.CategoryNode, parents []string) {
		for _, node := range nodes {
			path := append(parents[:len(parents):len(parents)], node.Name)
			c.add(node, domain.CategoryPath(path...))

			if len(node.Children) > 0 {
				visit(node.Children, path)
			}
		}
	}
	visit(nodes, nil)

	for _, col := range c.collisions {
		log.WithFields(log.Fields{
			"name":        col.Name,
			"previous_id": col.PreviousID,
			"id":          col.ID,
			"path":        col.Path,
		}).Warn("Category name is not unique, later node wins")
	}

	return c
}

func (c *Catalog) add(node domain.CategoryNode, path string) {
	if prev, ok := c.ids[node.Name]; ok {
		c.collisions = append(c.collisions, Collision{
			Name:       node.Name,
			PreviousID: prev,
			ID:         node.ID,
			Path:       path,
		})
	} else {
		c.names = append(c.names, node.Name)
	}

	c.ids[node.Name] = node.ID
	c.paths[path] = node.ID
}

// Lookup is an exact, case-sensitive match on the display name.
func (c *Catalog) Lookup(name string) (string, bool) {
	id, ok := c.ids[name]
	return id, ok
}

// LookupPath matches a full breadcrumb path such as "メンズ > トップス".
func (c *Catalog) LookupPath(path string) (string, bool) {
	id, ok := c.paths[path]
	return id, ok
}

// Names returns the distinct display names in visit order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Catalog) Len() int {
	return len(c.ids)
}

func (c *Catalog) Collisions() []Collision {
	out := make([]Collision, len(c.collisions))
	copy(out, c.collisions)
	return out
}
