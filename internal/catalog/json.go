package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"

	"mercari/shopper/internal/domain"
)

var integerLiteral = regexp.MustCompile(`^-?\d+$`)

type document struct {
	Data *[]node `json:"data"`
}

type node struct {
	Name  *string     `json:"name"`
	ID    *categoryID `json:"id"`
	Child []node      `json:"child"`
}

// categoryID keeps ids as strings. Integer literals are kept as written, anything else is rejected.
type categoryID string

func (id *categoryID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = categoryID(s)
		return nil
	}

	if integerLiteral.Match(b) {
		*id = categoryID(b)
		return nil
	}

	return fmt.Errorf("category id must be a string or an integer, got %s", b)
}

// Parse reads a {"data": [{"name", "id", "child": [...]}]} document.
// On error the returned catalog is empty but usable.
func Parse(r io.Reader) (*Catalog, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Empty(), fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if doc.Data == nil {
		return Empty(), fmt.Errorf("%w: missing \"data\" key", ErrMalformed)
	}

	nodes, err := toDomain(*doc.Data)
	if err != nil {
		return Empty(), err
	}

	return New(nodes), nil
}

func toDomain(in []node) ([]domain.CategoryNode, error) {
	out := make([]domain.CategoryNode, 0, len(in))
	for _, n := range in {
		if n.Name == nil {
			return nil, fmt.Errorf("%w: category node without name", ErrMalformed)
		}

		if n.ID == nil || *n.ID == "" {
			return nil, fmt.Errorf("%w: category %q without id", ErrMalformed, *n.Name)
		}

		children, err := toDomain(n.Child)
		if err != nil {
			return nil, err
		}

		out = append(out, domain.CategoryNode{
			Name:     *n.Name,
			ID:       string(*n.ID),
			Children: children,
		})
	}
	return out, nil
}
