// Package fs writes product catalogs to the local filesystem.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RichardMcSorley/aisle"
)

// CatalogFileName returns the file name used for a run's catalog export.
// Example: grocer_products_2026_08_20.json
func CatalogFileName(profile string, at time.Time) string {
	return fmt.Sprintf("%s_products_%s.json", profile, at.Format("2006_01_02"))
}

// Ensure Writer implements aisle.CatalogWriter at compile time.
var _ aisle.CatalogWriter = (*Writer)(nil)

// Writer exports run catalogs as JSON files with atomic update semantics.
// The catalog is staged as a .tmp file and renamed into place on success.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteCatalog writes the products of a run as an indented JSON array and
// returns the path of the written file.
func (w *Writer) WriteCatalog(ctx context.Context, run *aisle.Run, products []aisle.Product) (string, error) {
	if err := run.Validate(); err != nil {
		return "", err
	}

	// An empty catalog is still a catalog; export [] rather than null.
	if products == nil {
		products = []aisle.Product{}
	}

	data, err := json.MarshalIndent(products, "", "    ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}

	at := run.FinishedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	fullPath := filepath.Join(w.baseDir, CatalogFileName(run.Profile, at))
	tmpPath := fullPath + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	return fullPath, nil
}
