package gnargs

import (
	"strings"
	"testing"

	"github.com/openrtc/rtcbuild/internal/matrix"
)

func count(args []string, s string) int {
	n := 0
	for _, a := range args {
		if a == s {
			n++
		}
	}
	return n
}

func TestFor_Android(t *testing.T) {
	args := For(matrix.Target{Platform: matrix.Android, Arch: "arm64"}, true)

	want := []string{
		"treat_warnings_as_errors=false",
		"is_component_build=false",
		"rtc_libvpx_build_vp9=true",
		"is_debug=true",
		`target_cpu="arm64"`,
		`target_os="android"`,
	}
	if len(args) != len(want) {
		t.Fatalf("got %d args, want %d: %v", len(args), len(want), args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestFor_IOS(t *testing.T) {
	tgt := matrix.Target{Platform: matrix.IOS, Variant: matrix.Simulator, Arch: "x64"}
	args := For(tgt, false)

	// common(3) + debug + cpu + apple(2) + ios(5) + environment
	if len(args) != 13 {
		t.Fatalf("got %d args, want 13: %v", len(args), args)
	}
	for _, s := range []string{
		"is_debug=false",
		`target_cpu="x64"`,
		"enable_dsyms=true",
		"rtc_include_tests=false",
		"enable_ios_bitcode=true",
		"ios_enable_code_signing=false",
		`target_os="ios"`,
		`target_environment="simulator"`,
	} {
		if count(args, s) != 1 {
			t.Errorf("arg %q appears %d times, want exactly once", s, count(args, s))
		}
	}
	// Layer order: common table first, platform tables after.
	if args[0] != "treat_warnings_as_errors=false" {
		t.Errorf("first arg = %q, composition does not follow table order", args[0])
	}
	if args[len(args)-1] != `target_environment="simulator"` {
		t.Errorf("last arg = %q, want the substituted environment", args[len(args)-1])
	}
}

func TestFor_MacOS(t *testing.T) {
	ts := matrix.Targets(matrix.IOS)
	desktop := ts[len(ts)-1]
	if !desktop.Desktop() {
		t.Fatal("expected last iOS target to be the desktop companion")
	}
	args := For(desktop, false)

	// common(3) + debug + cpu + apple(2) + macos(2)
	if len(args) != 9 {
		t.Fatalf("got %d args, want 9: %v", len(args), args)
	}
	if count(args, `target_os="mac"`) != 1 {
		t.Error("missing macOS target_os flag")
	}
	if count(args, "use_xcode_clang=false") != 1 {
		t.Error("missing use_xcode_clang=false")
	}
	for _, a := range args {
		if strings.HasPrefix(a, "target_environment=") {
			t.Errorf("desktop target must not carry an environment flag, got %q", a)
		}
	}
}

func TestFor_FreshSlice(t *testing.T) {
	tgt := matrix.Target{Platform: matrix.Android, Arch: "x86"}
	a := For(tgt, false)
	a = append(a, "extra=1")
	_ = a
	b := For(tgt, false)
	if count(b, "extra=1") != 0 {
		t.Error("appending to a returned slice leaked into the tables")
	}
}

func TestLine(t *testing.T) {
	got := Line([]string{"a=1", `b="2"`})
	want := `--args=a=1 b="2"`
	if got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}
