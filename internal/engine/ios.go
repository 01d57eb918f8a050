package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qiniu/x/log"

	"github.com/openrtc/rtcbuild/internal/matrix"
	"github.com/openrtc/rtcbuild/internal/shell"
)

const (
	frameworkName   = "WebRTC.framework"
	frameworkBinary = "WebRTC"
	xcframeworkName = "WebRTC.xcframework"

	bitcodeArchive  = "WebRTC.xcframework-bitcode.tgz"
	strippedArchive = "WebRTC.xcframework.tgz"
)

// assembleIOS merges the simulator slices into one fat framework and
// packages everything as two xcframework archives: one with bitcode
// preserved, one with bitcode stripped. Stripping mutates the binaries in
// place, so it must run only after the bitcode archive exists.
func (e *Engine) assembleIOS(targets []matrix.Target, bt matrix.BuildType, src, buildDir string) error {
	sims := matrix.Simulators(targets)
	canonical, ok := matrix.CanonicalSimulator(targets)
	if !ok {
		return fmt.Errorf("no simulator target in the ios build matrix")
	}
	canonDir := filepath.Join(src, canonical.OutDir(bt))

	// One fat slice for both simulators, assembled inside a copy of the
	// canonical target's framework.
	log.Infof("Merging %d simulator slices", len(sims))
	fatDir := filepath.Join(canonDir, "fat-"+frameworkName)
	if err := os.CopyFS(fatDir, os.DirFS(filepath.Join(canonDir, frameworkName))); err != nil {
		return fmt.Errorf("copy simulator framework: %w", err)
	}
	lipoArgs := make([]string, 0, len(sims)+3)
	for _, s := range sims {
		lipoArgs = append(lipoArgs, filepath.Join(src, s.OutDir(bt), frameworkName, frameworkBinary))
	}
	lipoArgs = append(lipoArgs, "-create", "-output", filepath.Join(fatDir, frameworkBinary))
	if err := e.Runner.Run(shell.New("lipo", lipoArgs...)); err != nil {
		return err
	}

	// Promote the fat framework in place of the canonical one so the
	// xcframework references pick it up by the usual name.
	orig := filepath.Join(canonDir, frameworkName)
	if err := os.Rename(orig, filepath.Join(canonDir, "bak-"+frameworkName)); err != nil {
		return fmt.Errorf("move original framework aside: %w", err)
	}
	if err := os.Rename(fatDir, orig); err != nil {
		return fmt.Errorf("promote fat framework: %w", err)
	}

	// Devices plus the single fat simulator carry the mobile slices; the
	// desktop companions join the bundle as-is.
	var mobile []matrix.Target
	for _, t := range targets {
		if t.Platform == matrix.IOS && t.Variant != matrix.Simulator {
			mobile = append(mobile, t)
		}
	}
	mobile = append(mobile, canonical)

	var frameworks []string
	for _, t := range mobile {
		frameworks = append(frameworks, filepath.Join(src, t.OutDir(bt), frameworkName))
	}
	for _, t := range targets {
		if t.Desktop() {
			frameworks = append(frameworks, filepath.Join(src, t.OutDir(bt), frameworkName))
		}
	}

	// Pass 1: bitcode preserved.
	if err := e.packXCFramework(frameworks, buildDir, bitcodeArchive); err != nil {
		return err
	}

	// Pass 2: strip the mobile binaries in place, then package again.
	log.Infof("Stripping bitcode from %d frameworks", len(mobile))
	for _, t := range mobile {
		bin := filepath.Join(src, t.OutDir(bt), frameworkName, frameworkBinary)
		if err := e.Runner.Run(shell.New("xcrun", "bitcode_strip", "-r", bin, "-o", bin)); err != nil {
			return err
		}
	}
	return e.packXCFramework(frameworks, buildDir, strippedArchive)
}

// packXCFramework creates the multi-architecture bundle from the given
// frameworks, archives it, and removes the transient bundle directory.
func (e *Engine) packXCFramework(frameworks []string, buildDir, archive string) error {
	bundle := filepath.Join(buildDir, xcframeworkName)
	args := []string{"-create-xcframework", "-output", bundle}
	for _, f := range frameworks {
		args = append(args, "-framework", f)
	}
	if err := e.Runner.Run(shell.New("xcodebuild", args...)); err != nil {
		return err
	}
	if err := e.Runner.Run(shell.New("tar", "zcf", archive, xcframeworkName).In(buildDir)); err != nil {
		return err
	}
	if err := os.RemoveAll(bundle); err != nil {
		return fmt.Errorf("remove bundle dir: %w", err)
	}
	return nil
}
