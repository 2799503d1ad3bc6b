// Package loader parses UTCD descriptor files into typed descriptors.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/utcd/utcd/internal/models"
	"github.com/utcd/utcd/internal/observability/logging"
	"gopkg.in/yaml.v3"
)

// DescriptorGlob matches descriptor files in a directory
const DescriptorGlob = "*.utcd.yaml"

// Load reads and parses one descriptor file.
func Load(path string) (*models.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}

	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	d.SourcePath = path
	return d, nil
}

// Parse unmarshals a descriptor document and applies core defaults.
// Optional profile sections either unmarshal fully or stay nil; the
// engine never sees a partially-built profile.
func Parse(data []byte) (*models.Descriptor, error) {
	var d models.Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("invalid descriptor YAML: %w", err)
	}

	applyDefaults(&d)
	return &d, nil
}

// applyDefaults for required core fields absent from the source
func applyDefaults(d *models.Descriptor) {
	if d.UTCDVersion == "" {
		d.UTCDVersion = "1.0"
	}
	if len(d.Constraints.SideEffects) == 0 {
		d.Constraints.SideEffects = []string{models.SideEffectNone}
	}
	if d.Constraints.DataRetention == "" {
		d.Constraints.DataRetention = models.RetentionNone
	}
}

// LoadDirectory loads every descriptor matching DescriptorGlob under dir.
// A file that fails to load is logged and skipped; one malformed file
// degrades the batch, it does not abort it.
func LoadDirectory(ctx context.Context, dir string) ([]*models.Descriptor, error) {
	log := logging.From(ctx)

	paths, err := filepath.Glob(filepath.Join(dir, DescriptorGlob))
	if err != nil {
		return nil, fmt.Errorf("failed to list descriptors: %w", err)
	}

	var descriptors []*models.Descriptor
	for _, path := range paths {
		d, loadErr := Load(path)
		if loadErr != nil {
			log.Warn("loader", "skipping descriptor", "path", path, "error", loadErr.Error())
			continue
		}
		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}
