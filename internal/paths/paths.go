// Package paths lays out the rtcbuild work tree.
//
// Everything lives under <target dir>/build_webrtc:
//
//	depot_tools/          Chromium toolchain checkout
//	webrtc/<platform>/    gclient workspace (src/ inside is the source tree)
//	build/<platform>/     final packages for one platform
//
// Phases receive their base paths from here instead of relying on the
// process working directory.
package paths

import (
	"os"
	"path/filepath"

	"github.com/openrtc/rtcbuild/internal/matrix"
)

// WorkDirName is the directory created under the user-supplied target dir.
const WorkDirName = "build_webrtc"

// Tree resolves locations inside one rtcbuild work tree.
type Tree struct {
	root string
}

// New returns a Tree rooted at the work dir inside targetDir.
func New(targetDir string) Tree {
	return Tree{root: filepath.Join(targetDir, WorkDirName)}
}

func (t Tree) Root() string { return t.root }

// DepotTools is the depot_tools checkout shared by both platforms.
func (t Tree) DepotTools() string {
	return filepath.Join(t.root, "depot_tools")
}

// Checkout is the gclient workspace for a platform; fetch runs here.
func (t Tree) Checkout(p matrix.Platform) string {
	return filepath.Join(t.root, "webrtc", string(p))
}

// Source is the WebRTC source tree for a platform.
func (t Tree) Source(p matrix.Platform) string {
	return filepath.Join(t.Checkout(p), "src")
}

// BuildDir is where the final packages for a platform are written.
func (t Tree) BuildDir(p matrix.Platform) string {
	return filepath.Join(t.root, "build", string(p))
}

// HasSource reports whether the platform source tree has been fetched.
func (t Tree) HasSource(p matrix.Platform) bool {
	info, err := os.Stat(t.Source(p))
	return err == nil && info.IsDir()
}
