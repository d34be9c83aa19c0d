package domain

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// manifestVersion is bumped whenever the manifest layout changes.
const manifestVersion = 1

func fingerprint(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}

func buildManifest(output m.Path, results []m.FileResult) m.Manifest {
	manifest := m.Manifest{
		Version: manifestVersion,
		Output:  output,
		Files:   make([]m.ManifestEntry, 0, len(results)),
	}

	for _, result := range results {
		entry := m.ManifestEntry{
			Classes: result.Classes,
			Dropped: result.Dropped,
		}

		if result.Source != nil {
			entry.Path = result.Source.ShortPath
			entry.Hash = result.Source.Hash
		}

		manifest.Files = append(manifest.Files, entry)
	}

	return manifest
}
