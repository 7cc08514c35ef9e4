package catalog

import (
	"fmt"
	"os"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// LoadFile reads the category source at path. It never returns a nil catalog:
// when err is non-nil the catalog is empty and every lookup reports absent.
func LoadFile(path string, format Format) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Empty(), fmt.Errorf("failed to open category source %s: %w", path, err)
	}
	defer f.Close()

	var c *Catalog
	switch format {
	case FormatHTML:
		c, err = ParseHTML(f)
	case FormatJSON, "":
		c, err = Parse(f)
	default:
		return Empty(), fmt.Errorf("unknown category source format %q", format)
	}

	if err != nil {
		return Empty(), fmt.Errorf("failed to load category source %s: %w", path, err)
	}

	return c, nil
}
