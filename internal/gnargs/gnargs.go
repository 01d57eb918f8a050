// Package gnargs composes the gn build-configuration arguments for a target.
//
// Arguments come from layered immutable tables (common, Apple-family,
// per-platform) plus the substituted debug flag, target cpu and, on iOS,
// the target environment. Layer order is preserved and nothing is
// de-duplicated; gn applies last-wins semantics to repeated keys, which is
// what user-supplied extras appended by the caller rely on.
package gnargs

import (
	"strconv"
	"strings"

	"github.com/openrtc/rtcbuild/internal/matrix"
)

var common = []string{
	// Xcode 12 Clang treats warnings as errors by default.
	// See https://bugs.chromium.org/p/webrtc/issues/detail?id=11729
	"treat_warnings_as_errors=false",
	"is_component_build=false",
	"rtc_libvpx_build_vp9=true",
}

var appleCommon = []string{
	"enable_dsyms=true",
	"rtc_include_tests=false",
}

var iosOnly = []string{
	"enable_ios_bitcode=true",
	`ios_deployment_target="11.0"`,
	"ios_enable_code_signing=false",
	`target_os="ios"`,
	"use_xcode_clang=true",
}

var macosOnly = []string{
	`target_os="mac"`,
	"use_xcode_clang=false",
}

var androidOnly = []string{
	`target_os="android"`,
}

// For returns the ordered gn args for one target. The result is freshly
// allocated; callers may append extras without clobbering the tables.
func For(t matrix.Target, debug bool) []string {
	args := make([]string, 0, 16)
	args = append(args, common...)
	args = append(args, "is_debug="+strconv.FormatBool(debug))
	args = append(args, `target_cpu="`+t.Arch+`"`)
	switch {
	case t.Platform == matrix.IOS:
		args = append(args, appleCommon...)
		args = append(args, iosOnly...)
		args = append(args, `target_environment="`+string(t.Variant)+`"`)
	case t.Desktop():
		args = append(args, appleCommon...)
		args = append(args, macosOnly...)
	default:
		args = append(args, androidOnly...)
	}
	return args
}

// Line renders args as the value of a single "--args=..." gn argument.
func Line(args []string) string {
	return "--args=" + strings.Join(args, " ")
}
