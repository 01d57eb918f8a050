// Package engine drives the four-phase build: clean previous output,
// generate build files for every target, compile every target, then
// assemble the final packages. Phases run strictly in order and any tool
// failure aborts the run immediately.
package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/qiniu/x/log"

	"github.com/openrtc/rtcbuild/internal/config"
	"github.com/openrtc/rtcbuild/internal/gnargs"
	"github.com/openrtc/rtcbuild/internal/matrix"
	"github.com/openrtc/rtcbuild/internal/paths"
	"github.com/openrtc/rtcbuild/internal/shell"
	"github.com/openrtc/rtcbuild/internal/toolchain"
)

// ErrSourceMissing is reported before any tool is invoked when the
// platform source tree has not been fetched.
var ErrSourceMissing = errors.New("WebRTC source not found, did you forget to run setup?")

// Engine builds one platform out of one work tree.
type Engine struct {
	Runner   shell.Runner
	Tree     paths.Tree
	Platform matrix.Platform
	Debug    bool
	Config   *config.Config

	// BaseEnv is the environment tool invocations start from; nil means
	// the current process environment.
	BaseEnv []string
}

// New returns an Engine using the real process runner.
func New(tree paths.Tree, p matrix.Platform, debug bool, cfg *config.Config) *Engine {
	return &Engine{
		Runner:   shell.ExecRunner{},
		Tree:     tree,
		Platform: p,
		Debug:    debug,
		Config:   cfg,
	}
}

func (e *Engine) baseEnv() []string {
	if e.BaseEnv != nil {
		return e.BaseEnv
	}
	return os.Environ()
}

// Build runs all four phases for the configured platform.
func (e *Engine) Build() error {
	if !e.Tree.HasSource(e.Platform) {
		return ErrSourceMissing
	}

	src := e.Tree.Source(e.Platform)
	env := toolchain.Env(e.baseEnv(), e.Platform, e.Tree)
	targets := matrix.Targets(e.Platform)
	bt := matrix.TypeFor(e.Debug)

	log.Infof("Cleaning previous build output for %s", e.Platform)
	if err := os.RemoveAll(filepath.Join(src, "out")); err != nil {
		return fmt.Errorf("clean: %w", err)
	}

	log.Infof("Generating build files for %d targets", len(targets))
	for _, t := range targets {
		if err := e.Runner.Run(e.genCommand(t, bt, src, env)); err != nil {
			return fmt.Errorf("generate %s: %w", t.OutDir(bt), err)
		}
	}

	log.Infof("Compiling %d targets", len(targets))
	for _, t := range targets {
		if err := e.Runner.Run(e.compileCommand(t, bt, src, env)); err != nil {
			return fmt.Errorf("compile %s: %w", t.OutDir(bt), err)
		}
	}

	buildDir := e.Tree.BuildDir(e.Platform)
	if err := os.RemoveAll(buildDir); err != nil {
		return fmt.Errorf("clean build dir: %w", err)
	}
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return fmt.Errorf("create build dir: %w", err)
	}

	log.Infof("Assembling packages into %s", buildDir)
	var err error
	if e.Platform == matrix.IOS {
		err = e.assembleIOS(targets, bt, src, buildDir)
	} else {
		err = e.assembleAndroid(targets, bt, src, buildDir)
	}
	if err != nil {
		return err
	}
	return e.writeManifest(buildDir, bt)
}

// genCommand plans the gn invocation for one target. User extras come
// after the built-in tables; gn resolves repeated keys last-wins.
func (e *Engine) genCommand(t matrix.Target, bt matrix.BuildType, src string, env []string) shell.Command {
	args := gnargs.For(t, e.Debug)
	args = append(args, e.Config.ExtraArgs(e.Platform)...)
	return shell.New("gn", "gen", t.OutDir(bt), gnargs.Line(args)).In(src).WithEnv(env)
}

// compileCommand plans the ninja invocation for one target, requesting
// exactly the artifacts the assembler consumes.
func (e *Engine) compileCommand(t matrix.Target, bt matrix.BuildType, src string, env []string) shell.Command {
	args := []string{"-C", t.OutDir(bt)}
	if jobs := e.Config.Jobs(); jobs > 0 {
		args = append(args, "-j", strconv.Itoa(jobs))
	}
	args = append(args, ninjaTargets(t)...)
	return shell.New("ninja", args...).In(src).WithEnv(env)
}

func ninjaTargets(t matrix.Target) []string {
	switch {
	case t.Desktop():
		return []string{"mac_framework_objc"}
	case t.Platform == matrix.IOS:
		return []string{"framework_objc"}
	default:
		return []string{"libwebrtc", "libjingle_peerconnection_so"}
	}
}
