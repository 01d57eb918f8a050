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
	interfaceJar   = "libwebrtc.jar"
	nativeLib      = "libjingle_peerconnection_so.so"
	nativeJar      = "libjingle_peerconnection.so.jar"
	androidArchive = "android-webrtc.tgz"
)

// assembleAndroid collects the shared interface jar and the per-ABI native
// libraries, wraps the ABI tree into a jar, and archives all jars into one
// package. The ABI staging tree is transient and removed afterwards.
func (e *Engine) assembleAndroid(targets []matrix.Target, bt matrix.BuildType, src, buildDir string) error {
	// The interface jar is architecture-independent; any slice would do,
	// the first keeps it deterministic.
	first := targets[0]
	jarSrc := filepath.Join(src, first.OutDir(bt), "lib.java", "sdk", "android", interfaceJar)
	if err := copyFile(jarSrc, filepath.Join(buildDir, interfaceJar)); err != nil {
		return fmt.Errorf("stage interface jar: %w", err)
	}

	log.Infof("Staging native libraries for %d ABIs", len(targets))
	for _, t := range targets {
		libDir := filepath.Join(buildDir, "lib", matrix.ABI(t.Arch))
		if err := os.MkdirAll(libDir, 0o755); err != nil {
			return fmt.Errorf("create ABI dir: %w", err)
		}
		so := filepath.Join(src, t.OutDir(bt), nativeLib)
		if err := copyFile(so, filepath.Join(libDir, nativeLib)); err != nil {
			return fmt.Errorf("stage %s: %w", matrix.ABI(t.Arch), err)
		}
	}

	if err := e.Runner.Run(shell.New("jar", "cvfM", nativeJar, "lib").In(buildDir)); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(buildDir, "lib")); err != nil {
		return fmt.Errorf("remove ABI staging tree: %w", err)
	}

	jars, err := filepath.Glob(filepath.Join(buildDir, "*.jar"))
	if err != nil {
		return fmt.Errorf("list jars: %w", err)
	}
	args := []string{"zcf", androidArchive}
	for _, j := range jars {
		args = append(args, filepath.Base(j))
	}
	return e.Runner.Run(shell.New("tar", args...).In(buildDir))
}
