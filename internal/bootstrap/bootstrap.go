// Package bootstrap prepares and synchronizes the WebRTC checkout: the
// depot_tools clone, the per-platform gclient workspace, and (on Android)
// the host build dependencies.
package bootstrap

import (
	"errors"
	"fmt"
	"os"

	"github.com/qiniu/x/log"

	"github.com/openrtc/rtcbuild/internal/matrix"
	"github.com/openrtc/rtcbuild/internal/paths"
	"github.com/openrtc/rtcbuild/internal/shell"
	"github.com/openrtc/rtcbuild/internal/toolchain"
)

const depotToolsURL = "https://chromium.googlesource.com/chromium/tools/depot_tools.git"

// ErrSourceMissing mirrors the build-phase precondition: sync needs an
// already-fetched source tree.
var ErrSourceMissing = errors.New("WebRTC source not found, did you forget to run setup?")

// Bootstrap acquires and updates source trees inside one work tree.
type Bootstrap struct {
	Runner shell.Runner
	Tree   paths.Tree

	// BaseEnv is the environment tool invocations start from; nil means
	// the current process environment.
	BaseEnv []string
}

// New returns a Bootstrap using the real process runner.
func New(tree paths.Tree) *Bootstrap {
	return &Bootstrap{Runner: shell.ExecRunner{}, Tree: tree}
}

func (b *Bootstrap) baseEnv() []string {
	if b.BaseEnv != nil {
		return b.BaseEnv
	}
	return os.Environ()
}

// Setup creates the work tree, clones depot_tools and fetches the WebRTC
// checkout for the platform when absent, then syncs it. Re-running against
// an already-prepared tree only syncs.
func (b *Bootstrap) Setup(p matrix.Platform) error {
	if err := os.MkdirAll(b.Tree.Root(), 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}

	depotTools := b.Tree.DepotTools()
	if !isDir(depotTools) {
		log.Info("Fetching Chromium depot_tools...")
		clone := shell.New("git", "clone", depotToolsURL).In(b.Tree.Root())
		if err := b.Runner.Run(clone); err != nil {
			return err
		}
	}

	// fetch and gclient live in depot_tools; put it on the path.
	env := shell.PathEnv(b.baseEnv(), depotTools)

	checkout := b.Tree.Checkout(p)
	if !isDir(checkout) {
		if err := os.MkdirAll(checkout, 0o755); err != nil {
			return fmt.Errorf("create checkout dir: %w", err)
		}
		log.Infof("Fetching WebRTC for %s...", p)
		fetch := shell.New("fetch", "--nohooks", "webrtc_"+string(p)).In(checkout).WithEnv(env)
		if err := b.Runner.Run(fetch); err != nil {
			return err
		}
	}

	sync := shell.New("gclient", "sync").In(checkout).WithEnv(env)
	if err := b.Runner.Run(sync); err != nil {
		return err
	}

	if p == matrix.Android {
		// Host packages the Android toolchain needs; the script ships
		// with the checkout.
		deps := shell.New("./build/install-build-deps.sh").In(b.Tree.Source(p)).WithEnv(env)
		if err := b.Runner.Run(deps); err != nil {
			return err
		}
	}
	return nil
}

// Sync updates an existing checkout with gclient sync -D.
func (b *Bootstrap) Sync(p matrix.Platform) error {
	if !b.Tree.HasSource(p) {
		return ErrSourceMissing
	}
	env := toolchain.Env(b.baseEnv(), p, b.Tree)
	sync := shell.New("gclient", "sync", "-D").In(b.Tree.Source(p)).WithEnv(env)
	return b.Runner.Run(sync)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
