package adapter

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// ManifestStore persists the manifest describing a generation run.
type ManifestStore interface {
	SaveManifest(ctx context.Context, path m.Path, manifest m.Manifest) error
	LoadManifest(ctx context.Context, path m.Path) (m.Manifest, error)
}

// YAMLManifestStore stores manifests as YAML documents.
type YAMLManifestStore struct {
	fs SourceFSAdapter
}

// NewYAMLManifestStore constructs a manifest store writing through fs.
func NewYAMLManifestStore(fs SourceFSAdapter) *YAMLManifestStore {
	return &YAMLManifestStore{fs: fs}
}

// SaveManifest writes manifest to path, replacing any previous file.
func (s *YAMLManifestStore) SaveManifest(ctx context.Context, path m.Path, manifest m.Manifest) error {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(manifest); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := s.fs.WriteFile(ctx, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}

	return nil
}

// LoadManifest reads a manifest previously written by SaveManifest.
func (s *YAMLManifestStore) LoadManifest(ctx context.Context, path m.Path) (m.Manifest, error) {
	content, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return m.Manifest{}, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var manifest m.Manifest
	if err := yaml.Unmarshal(content, &manifest); err != nil {
		return m.Manifest{}, fmt.Errorf("decode manifest %s: %w", path, err)
	}

	return manifest, nil
}
