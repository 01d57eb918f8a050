// Package toolchain composes tool environments and checks the host tools.
package toolchain

import (
	"path/filepath"

	"github.com/openrtc/rtcbuild/internal/matrix"
	"github.com/openrtc/rtcbuild/internal/paths"
	"github.com/openrtc/rtcbuild/internal/shell"
)

// Env returns the environment the build tools run with: depot_tools on the
// search path for every platform and, for Android, the SDK tool
// directories from the source tree (the same set build/android/envsetup.sh
// would add). Pure function of its inputs.
func Env(base []string, p matrix.Platform, tree paths.Tree) []string {
	dirs := []string{tree.DepotTools()}
	if p == matrix.Android {
		src := tree.Source(p)
		sdk := filepath.Join(src, "third_party", "android_sdk", "public")
		dirs = append(dirs,
			filepath.Join(sdk, "platform-tools"),
			filepath.Join(sdk, "tools"),
			filepath.Join(src, "build", "android"),
		)
	}
	return shell.PathEnv(base, dirs...)
}
