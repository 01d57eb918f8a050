package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"github.com/openrtc/rtcbuild/internal/matrix"
)

// ManifestName is the build-run record written into the build directory.
const ManifestName = "manifest.json"

// Manifest records what one build run produced.
type Manifest struct {
	Platform  matrix.Platform  `json:"platform"`
	BuildType matrix.BuildType `json:"build_type"`
	CreatedAt time.Time        `json:"created_at"`
	Packages  []string         `json:"packages"`
}

// writeManifest lists the packages left in buildDir and writes the
// manifest atomically, so a half-written file never looks like a result.
func (e *Engine) writeManifest(buildDir string, bt matrix.BuildType) error {
	entries, err := os.ReadDir(buildDir)
	if err != nil {
		return fmt.Errorf("list build dir: %w", err)
	}

	m := Manifest{
		Platform:  e.Platform,
		BuildType: bt,
		CreatedAt: time.Now().UTC(),
	}
	for _, ent := range entries {
		if ent.Type().IsRegular() && ent.Name() != ManifestName {
			m.Packages = append(m.Packages, ent.Name())
		}
	}

	data, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(filepath.Join(buildDir, ManifestName), data, 0o644)
}
