package toolchain

import (
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/openrtc/rtcbuild/internal/matrix"
)

// Ninja releases older than this predate the -C/tool behavior the compile
// phase depends on.
const minNinjaVersion = "1.8.2"

// Check is the outcome of probing one host tool.
type Check struct {
	Tool    string
	Path    string
	Version string
	Err     error
}

// OK reports whether the tool is usable.
func (c Check) OK() bool { return c.Err == nil }

// Doctor probes the host for the external tools a platform build invokes.
// depot_tools binaries (gn, gclient, fetch) are only found once setup has
// run, so their absence is reported but expected on a fresh host.
func Doctor(p matrix.Platform) []Check {
	tools := []string{"git", "gn", "ninja", "tar"}
	if p == matrix.IOS {
		tools = append(tools, "xcodebuild", "xcrun", "lipo")
	} else {
		tools = append(tools, "jar")
	}

	checks := make([]Check, 0, len(tools))
	for _, tool := range tools {
		c := Check{Tool: tool}
		c.Path, c.Err = exec.LookPath(tool)
		if c.Err == nil && tool == "ninja" {
			c.Version, c.Err = ninjaVersion()
			if c.Err == nil && !VersionOK(c.Version, minNinjaVersion) {
				c.Err = fmt.Errorf("ninja %s is older than required %s", c.Version, minNinjaVersion)
			}
		}
		checks = append(checks, c)
	}
	return checks
}

func ninjaVersion() (string, error) {
	out, err := exec.Command("ninja", "--version").Output()
	if err != nil {
		return "", fmt.Errorf("ninja --version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// VersionOK reports whether got is at least min, compared as semantic
// versions. Malformed versions compare as too old.
func VersionOK(got, min string) bool {
	g, m := "v"+got, "v"+min
	if !semver.IsValid(g) || !semver.IsValid(m) {
		return false
	}
	return semver.Compare(g, m) >= 0
}
