// Package exporter writes search artifacts to disk for offline inspection.
package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

// FileExporter writes one directory per search: a summary, the full ranked
// set and a per-source split. Artifacts are diagnostic only, nothing reads
// them back.
type FileExporter struct {
	baseDir string
}

func NewFileExporter(baseDir string) *FileExporter {
	return &FileExporter{baseDir: baseDir}
}

func (e *FileExporter) Export(ctx context.Context, searchID string, result *domain.SearchResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Join(e.baseDir, searchID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir %s: %w", dir, err)
	}

	if err := writeJSON(filepath.Join(dir, "summary.json"), result.Summary); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "result.json"), result); err != nil {
		return err
	}

	bySource := make(map[string][]domain.Property)
	for _, p := range result.Properties {
		bySource[p.Source] = append(bySource[p.Source], p)
	}
	for source, properties := range bySource {
		if err := writeJSON(filepath.Join(dir, source+".json"), properties); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export artifact %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export artifact %s: %w", path, err)
	}
	return nil
}
