// Package matrix enumerates the build targets for each supported platform.
//
// Target lists, output directory names and ABI names are the single source
// of truth shared by the generate, compile and assemble phases; every phase
// derives paths from here instead of formatting its own.
package matrix

// Platform selects one of the two supported target platforms.
type Platform string

const (
	IOS     Platform = "ios"
	Android Platform = "android"

	// macOS is never selected directly; it is the desktop companion
	// built alongside iOS and bundled into the same xcframework.
	macOS Platform = "macos"
)

// Variant distinguishes device and simulator builds on iOS.
type Variant string

const (
	Device    Variant = "device"
	Simulator Variant = "simulator"
)

// BuildType is the configuration name used in output directory paths.
type BuildType string

const (
	Debug   BuildType = "Debug"
	Release BuildType = "Release"
)

// TypeFor maps the debug flag to a BuildType.
func TypeFor(debug bool) BuildType {
	if debug {
		return Debug
	}
	return Release
}

// Target is one (platform, variant, architecture) combination to build.
// Variant is empty for Android and macOS targets.
type Target struct {
	Platform Platform
	Variant  Variant
	Arch     string
}

// OutDir returns the gn output directory for the target, relative to the
// source tree root.
func (t Target) OutDir(bt BuildType) string {
	switch t.Platform {
	case IOS:
		return "out/" + string(bt) + "-ios-" + string(t.Variant) + "-" + t.Arch
	case macOS:
		return "out/" + string(bt) + "-macos-" + t.Arch
	default:
		return "out/" + string(bt) + "-" + t.Arch
	}
}

// Desktop reports whether the target is a desktop companion slice.
func (t Target) Desktop() bool { return t.Platform == macOS }

var iosTargets = []Target{
	{Platform: IOS, Variant: Device, Arch: "arm64"},
	{Platform: IOS, Variant: Simulator, Arch: "arm64"},
	{Platform: IOS, Variant: Simulator, Arch: "x64"},
	{Platform: macOS, Arch: "x64"},
}

var androidTargets = []Target{
	{Platform: Android, Arch: "arm"},
	{Platform: Android, Arch: "arm64"},
	{Platform: Android, Arch: "x86"},
	{Platform: Android, Arch: "x64"},
}

// Targets returns the fixed, ordered target list for a platform. For iOS
// the list covers every device/simulator combination plus the macOS
// companion slices. The result is a copy; callers may filter it freely.
func Targets(p Platform) []Target {
	var src []Target
	if p == IOS {
		src = iosTargets
	} else {
		src = androidTargets
	}
	out := make([]Target, len(src))
	copy(out, src)
	return out
}

// Simulators filters ts down to the iOS simulator targets, preserving order.
func Simulators(ts []Target) []Target {
	var out []Target
	for _, t := range ts {
		if t.Variant == Simulator {
			out = append(out, t)
		}
	}
	return out
}

// CanonicalSimulator returns the simulator target whose framework hosts
// the fat merge. Selection follows the fixed planner order, so any
// permutation of the same target set yields the same choice.
func CanonicalSimulator(ts []Target) (Target, bool) {
	for _, ref := range iosTargets {
		if ref.Variant != Simulator {
			continue
		}
		for _, t := range ts {
			if t == ref {
				return t, true
			}
		}
	}
	return Target{}, false
}

// androidABIs maps gn cpu names to Android ABI directory names.
var androidABIs = map[string]string{
	"arm":   "armeabi-v7a",
	"arm64": "arm64-v8a",
	"x86":   "x86",
	"x64":   "x86_64",
}

// ABI returns the Android ABI name for a gn cpu name.
func ABI(arch string) string {
	return androidABIs[arch]
}
