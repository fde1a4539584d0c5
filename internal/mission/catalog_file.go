package mission

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// catalogFile is the on-disk catalog layout.
type catalogFile struct {
	Missions []Definition `json:"missions"`
}

// ParseCatalog strips JSONC comments and trailing commas from data and
// builds a validated catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Missions) == 0 {
		return nil, fmt.Errorf("%w: catalog has no missions", ErrInvalidDefinition)
	}
	return NewCatalog(file.Missions)
}

// LoadCatalogFile reads a JSONC catalog from disk. An empty path yields the
// built-in catalog.
func LoadCatalogFile(path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(SeedDefinitions())
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog %q: %w", cleanPath, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return c, nil
}
