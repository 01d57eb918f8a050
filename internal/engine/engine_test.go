package engine

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openrtc/rtcbuild/internal/config"
	"github.com/openrtc/rtcbuild/internal/matrix"
	"github.com/openrtc/rtcbuild/internal/paths"
	"github.com/openrtc/rtcbuild/internal/shell"
)

// fakeRunner records every planned invocation instead of spawning tools,
// and fabricates the artifacts ninja would have produced so the assembler
// phases have files to work on.
type fakeRunner struct {
	t        *testing.T
	src      string
	platform matrix.Platform
	cmds     []shell.Command

	// failOn, when set, is consulted after recording; returning a non-nil
	// error simulates that tool failing.
	failOn func(i int, cmd shell.Command) error
}

func (r *fakeRunner) Run(cmd shell.Command) error {
	r.cmds = append(r.cmds, cmd)
	if cmd.Tool == "ninja" {
		r.fabricate(cmd)
	}
	if r.failOn != nil {
		if err := r.failOn(len(r.cmds), cmd); err != nil {
			return err
		}
	}
	return nil
}

// fabricate creates the compile outputs for the out dir named in a ninja
// command.
func (r *fakeRunner) fabricate(cmd shell.Command) {
	r.t.Helper()
	if len(cmd.Args) < 2 || cmd.Args[0] != "-C" {
		r.t.Fatalf("unexpected ninja invocation: %v", cmd.Args)
	}
	outDir := filepath.Join(r.src, cmd.Args[1])

	if r.platform == matrix.Android {
		mustWrite(r.t, filepath.Join(outDir, nativeLib), "so")
		mustWrite(r.t, filepath.Join(outDir, "lib.java", "sdk", "android", interfaceJar), "jar")
		return
	}
	mustWrite(r.t, filepath.Join(outDir, frameworkName, frameworkBinary), "slice "+cmd.Args[1])
	mustWrite(r.t, filepath.Join(outDir, frameworkName, "Info.plist"), "plist")
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newTestEngine stages a work tree with an existing source checkout and
// wires in a fakeRunner.
func newTestEngine(t *testing.T, p matrix.Platform, debug bool) (*Engine, *fakeRunner) {
	t.Helper()
	tree := paths.New(t.TempDir())
	if err := os.MkdirAll(tree.Source(p), 0o755); err != nil {
		t.Fatal(err)
	}
	r := &fakeRunner{t: t, src: tree.Source(p), platform: p}
	e := New(tree, p, debug, &config.Config{})
	e.Runner = r
	e.BaseEnv = []string{"PATH=/usr/bin"}
	return e, r
}

func toolSeq(cmds []shell.Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Tool
	}
	return out
}

func TestBuild_SourceMissing(t *testing.T) {
	tree := paths.New(t.TempDir())
	r := &fakeRunner{t: t, platform: matrix.Android}
	e := New(tree, matrix.Android, false, nil)
	e.Runner = r

	err := e.Build()
	if !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("err = %v, want ErrSourceMissing", err)
	}
	if len(r.cmds) != 0 {
		t.Errorf("%d tools invoked despite missing source", len(r.cmds))
	}
}

func TestBuild_AndroidSequence(t *testing.T) {
	e, r := newTestEngine(t, matrix.Android, false)
	if err := e.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []string{"gn", "gn", "gn", "gn", "ninja", "ninja", "ninja", "ninja", "jar", "tar"}
	got := toolSeq(r.cmds)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("tool sequence = %v, want %v", got, want)
	}

	// Generate phase: one gn gen per cpu, planner order, in the source tree.
	wantDirs := []string{"out/Release-arm", "out/Release-arm64", "out/Release-x86", "out/Release-x64"}
	for i, dir := range wantDirs {
		cmd := r.cmds[i]
		if cmd.Args[0] != "gen" || cmd.Args[1] != dir {
			t.Errorf("gn cmd %d = %v, want gen %s", i, cmd.Args, dir)
		}
		if cmd.Dir != e.Tree.Source(matrix.Android) {
			t.Errorf("gn cmd %d ran in %q, want source tree", i, cmd.Dir)
		}
		if !strings.Contains(strings.Join(cmd.Env, "\x00"), e.Tree.DepotTools()) {
			t.Errorf("gn cmd %d env lacks depot_tools on PATH", i)
		}
	}

	// Compile phase: same dirs, exactly the artifacts the assembler needs.
	for i, dir := range wantDirs {
		cmd := r.cmds[4+i]
		wantArgs := []string{"-C", dir, "libwebrtc", "libjingle_peerconnection_so"}
		if strings.Join(cmd.Args, " ") != strings.Join(wantArgs, " ") {
			t.Errorf("ninja cmd %d args = %v, want %v", i, cmd.Args, wantArgs)
		}
	}

	buildDir := e.Tree.BuildDir(matrix.Android)

	// Packaging: jar wraps the staged ABI tree, tar bundles the jars.
	jarCmd := r.cmds[8]
	if strings.Join(jarCmd.Args, " ") != "cvfM "+nativeJar+" lib" || jarCmd.Dir != buildDir {
		t.Errorf("jar cmd = %v in %q", jarCmd.Args, jarCmd.Dir)
	}
	tarCmd := r.cmds[9]
	if tarCmd.Dir != buildDir || tarCmd.Args[0] != "zcf" || tarCmd.Args[1] != androidArchive {
		t.Errorf("tar cmd = %v in %q", tarCmd.Args, tarCmd.Dir)
	}
	if !contains(tarCmd.Args, interfaceJar) {
		t.Errorf("tar cmd %v does not bundle %s", tarCmd.Args, interfaceJar)
	}

	// ABI staging happened per the fixed map before the tree was removed.
	if _, err := os.Stat(filepath.Join(buildDir, "lib")); !os.IsNotExist(err) {
		t.Error("transient ABI staging tree left behind")
	}
	if _, err := os.Stat(filepath.Join(buildDir, interfaceJar)); err != nil {
		t.Errorf("interface jar not staged: %v", err)
	}
}

func TestBuild_AndroidABIStaging(t *testing.T) {
	e, r := newTestEngine(t, matrix.Android, true)

	// Observe the staging tree at jar time, before it is removed.
	var staged []string
	r.failOn = func(i int, cmd shell.Command) error {
		if cmd.Tool == "jar" {
			matches, _ := filepath.Glob(filepath.Join(e.Tree.BuildDir(matrix.Android), "lib", "*", nativeLib))
			staged = matches
		}
		return nil
	}
	if err := e.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	var abis []string
	for _, p := range staged {
		abis = append(abis, filepath.Base(filepath.Dir(p)))
	}
	want := []string{"arm64-v8a", "armeabi-v7a", "x86", "x86_64"} // glob order is lexical
	if strings.Join(abis, " ") != strings.Join(want, " ") {
		t.Errorf("staged ABIs = %v, want %v", abis, want)
	}
}

func TestBuild_DebugOutDirs(t *testing.T) {
	e, r := newTestEngine(t, matrix.Android, true)
	if err := e.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.cmds[0].Args[1] != "out/Debug-arm" {
		t.Errorf("debug build generated %q, want out/Debug-arm", r.cmds[0].Args[1])
	}
	for _, cmd := range r.cmds[:4] {
		if !strings.Contains(cmd.Args[2], "is_debug=true") {
			t.Errorf("gn args %q lack is_debug=true", cmd.Args[2])
		}
	}
}

func TestBuild_ExtraGNArgsAppended(t *testing.T) {
	e, r := newTestEngine(t, matrix.Android, false)
	e.Config = &config.Config{GNArgs: map[string][]string{
		"android": {"use_custom_libcxx=false"},
	}}
	if err := e.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	argLine := r.cmds[0].Args[2]
	if !strings.HasSuffix(argLine, "use_custom_libcxx=false") {
		t.Errorf("user extras not appended last: %q", argLine)
	}
}

func TestBuild_NinjaJobs(t *testing.T) {
	e, r := newTestEngine(t, matrix.Android, false)
	e.Config = &config.Config{NinjaJobs: 8}
	if err := e.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	ninja := r.cmds[4]
	if !strings.Contains(strings.Join(ninja.Args, " "), "-j 8") {
		t.Errorf("ninja args = %v, want -j 8", ninja.Args)
	}
}

func TestBuild_FailFast(t *testing.T) {
	e, r := newTestEngine(t, matrix.Android, false)
	r.failOn = func(i int, cmd shell.Command) error {
		if i == 6 { // second ninja invocation
			return &shell.ToolError{Tool: "ninja", Code: 3}
		}
		return nil
	}

	err := e.Build()
	var te *shell.ToolError
	if !errors.As(err, &te) || te.Code != 3 {
		t.Fatalf("err = %v, want ToolError code 3", err)
	}
	if len(r.cmds) != 6 {
		t.Errorf("%d commands ran after failure, want run to stop at 6", len(r.cmds))
	}
	for _, cmd := range r.cmds {
		if cmd.Tool == "jar" || cmd.Tool == "tar" {
			t.Errorf("packaging tool %s ran despite compile failure", cmd.Tool)
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	e, _ := newTestEngine(t, matrix.Android, false)

	snapshot := func() []string {
		entries, err := os.ReadDir(e.Tree.BuildDir(matrix.Android))
		if err != nil {
			t.Fatal(err)
		}
		var names []string
		for _, ent := range entries {
			names = append(names, ent.Name())
		}
		return names
	}

	if err := e.Build(); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	first := snapshot()
	if err := e.Build(); err != nil {
		t.Fatalf("second Build: %v", err)
	}
	second := snapshot()

	if strings.Join(first, " ") != strings.Join(second, " ") {
		t.Errorf("build dir changed between runs: %v vs %v", first, second)
	}
}

func TestBuild_CleanRemovesStaleOut(t *testing.T) {
	e, _ := newTestEngine(t, matrix.Android, false)
	stale := filepath.Join(e.Tree.Source(matrix.Android), "out", "Release-stale")
	mustWrite(t, filepath.Join(stale, "junk"), "junk")

	if err := e.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale out dir survived the clean phase")
	}
}

func TestBuild_WritesManifest(t *testing.T) {
	e, _ := newTestEngine(t, matrix.Android, false)
	if err := e.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(e.Tree.BuildDir(matrix.Android), ManifestName))
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest not valid json: %v", err)
	}
	if m.Platform != matrix.Android || m.BuildType != matrix.Release {
		t.Errorf("manifest header = %+v", m)
	}
	if !contains(m.Packages, interfaceJar) {
		t.Errorf("manifest packages = %v, want %s listed", m.Packages, interfaceJar)
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
